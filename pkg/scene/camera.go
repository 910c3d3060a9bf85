package scene

import (
	"math"

	"github.com/golang/geo/r3"
)

// Default perspective camera parameters.
const (
	DefaultFOV  = 75.0 // vertical, degrees
	DefaultNear = 0.1
	DefaultFar  = 1000.0
)

// Camera is a perspective camera looking from Position at Target.
type Camera struct {
	FOV    float64 // Vertical field of view in degrees
	Aspect float64 // Viewport width / height
	Near   float64 // Near clip plane
	Far    float64 // Far clip plane

	Position r3.Vector
	Target   r3.Vector
	Up       r3.Vector
}

// NewCamera returns a camera at (0, 0, 2) looking at the origin.
func NewCamera(aspect float64) *Camera {
	if aspect <= 0 {
		aspect = 4.0 / 3.0
	}
	return &Camera{
		FOV:      DefaultFOV,
		Aspect:   aspect,
		Near:     DefaultNear,
		Far:      DefaultFar,
		Position: r3.Vector{X: 0, Y: 0, Z: 2},
		Target:   r3.Vector{},
		Up:       r3.Vector{X: 0, Y: 1, Z: 0},
	}
}

// SetViewport updates the aspect ratio from a viewport size in pixels.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float64(width) / float64(height)
}

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() Mat4 {
	top := c.Near * math.Tan(c.FOV*math.Pi/360)
	height := 2 * top
	width := c.Aspect * height
	left := -0.5 * width
	right := left + width
	bottom := top - height

	var m Mat4
	m[0][0] = 2 * c.Near / (right - left)
	m[0][2] = (right + left) / (right - left)
	m[1][1] = 2 * c.Near / (top - bottom)
	m[1][2] = (top + bottom) / (top - bottom)
	m[2][2] = -(c.Far + c.Near) / (c.Far - c.Near)
	m[2][3] = -2 * c.Far * c.Near / (c.Far - c.Near)
	m[3][2] = -1
	return m
}

// World returns the camera-to-world transform.
func (c *Camera) World() Mat4 {
	return Translation(c.Position).Mul(lookRotation(c.Position, c.Target, c.Up))
}

// Forward returns the unit view direction.
func (c *Camera) Forward() r3.Vector {
	d := c.Target.Sub(c.Position)
	if d.Norm2() == 0 {
		return r3.Vector{X: 0, Y: 0, Z: -1}
	}
	return d.Normalize()
}

// Unproject maps a point in normalized device coordinates to world space.
func (c *Camera) Unproject(ndc r3.Vector) r3.Vector {
	inv, ok := c.Projection().Inverse()
	if !ok {
		return r3.Vector{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}
	}
	return c.World().TransformPoint(inv.TransformPoint(ndc))
}

// Project maps a world point to normalized device coordinates.
func (c *Camera) Project(world r3.Vector) r3.Vector {
	view, ok := c.World().Inverse()
	if !ok {
		return r3.Vector{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}
	}
	return c.Projection().TransformPoint(view.TransformPoint(world))
}

// ScreenToNDC converts pixel coordinates on a width x height surface to
// normalized device coordinates in [-1, 1].
func ScreenToNDC(x, y, width, height float64) (nx, ny float64) {
	return (x/width)*2 - 1, -(y/height)*2 + 1
}

// NDCToScreen is the inverse of ScreenToNDC.
func NDCToScreen(nx, ny, width, height float64) (x, y float64) {
	return (nx + 1) / 2 * width, (1 - ny) / 2 * height
}

// ScreenToWorld unprojects a screen pixel at near-plane depth. ok is false
// when the surface has no size or the result is degenerate.
func (c *Camera) ScreenToWorld(x, y, width, height float64) (r3.Vector, bool) {
	return c.ScreenToWorldAt(x, y, width, height, -1)
}

// ScreenToWorldAt is ScreenToWorld at normalized device depth z
// (-1 near plane, 1 far plane).
func (c *Camera) ScreenToWorldAt(x, y, width, height, z float64) (r3.Vector, bool) {
	if width <= 0 || height <= 0 {
		return r3.Vector{}, false
	}
	nx, ny := ScreenToNDC(x, y, width, height)
	p := c.Unproject(r3.Vector{X: nx, Y: ny, Z: z})
	if Degenerate(p) {
		return r3.Vector{}, false
	}
	return p, true
}

// InFront returns the point distance units ahead of the camera.
func (c *Camera) InFront(distance float64) r3.Vector {
	return c.Position.Add(c.Forward().Mul(distance))
}

// Ray is a half-line in world space.
type Ray struct {
	Origin    r3.Vector
	Direction r3.Vector // unit length
}

// RayFromNDC casts a ray from the camera through a normalized device point.
func (c *Camera) RayFromNDC(nx, ny float64) Ray {
	p := c.Unproject(r3.Vector{X: nx, Y: ny, Z: 0.5})
	return Ray{Origin: c.Position, Direction: p.Sub(c.Position).Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) r3.Vector {
	return r.Origin.Add(r.Direction.Mul(t))
}
