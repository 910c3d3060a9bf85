// Package scene provides the scene graph the anchor controller places models
// into: a perspective camera with unprojection, objects with hotspots, ray
// casting, and JSON snapshots for the browser renderer.
package scene

import (
	"math"
)

// Light describes a scene light. Only ambient lights are used.
type Light struct {
	Kind      string  `json:"kind"`
	Color     int     `json:"color"`
	Intensity float64 `json:"intensity"`
}

// Scene holds the camera and root objects. It is not safe for concurrent
// use; the anchor controller owns it from a single goroutine.
type Scene struct {
	camera  *Camera
	objects []*Object
	lights  []Light
}

// New creates a scene lit by a white ambient light.
func New(camera *Camera) *Scene {
	if camera == nil {
		camera = NewCamera(0)
	}
	return &Scene{
		camera: camera,
		lights: []Light{{Kind: "ambient", Color: 0xffffff, Intensity: 1}},
	}
}

// Camera returns the active camera.
func (s *Scene) Camera() *Camera {
	return s.camera
}

// Add inserts a root object. Adding an object twice is a no-op.
func (s *Scene) Add(o *Object) {
	for _, existing := range s.objects {
		if existing == o {
			return
		}
	}
	s.objects = append(s.objects, o)
}

// Remove deletes a root object and reports whether it was present.
func (s *Scene) Remove(o *Object) bool {
	for i, existing := range s.objects {
		if existing == o {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return true
		}
	}
	return false
}

// Objects returns the root objects in insertion order.
func (s *Scene) Objects() []*Object {
	return s.objects
}

// Hit is a ray cast result.
type Hit struct {
	Object   *Object
	Distance float64
}

// Raycast returns the nearest hotspot hit by a ray through the given
// normalized device point.
func (s *Scene) Raycast(nx, ny float64) (Hit, bool) {
	ray := s.camera.RayFromNDC(nx, ny)
	best := Hit{Distance: math.Inf(1)}
	for _, root := range s.objects {
		root.Walk(func(o *Object) {
			if d, ok := o.Intersect(ray); ok && d < best.Distance {
				best = Hit{Object: o, Distance: d}
			}
		})
	}
	return best, best.Object != nil
}
