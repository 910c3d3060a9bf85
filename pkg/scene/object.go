package scene

import (
	"github.com/golang/geo/r3"
	"github.com/google/uuid"
)

// Object is a renderable node in the scene graph.
type Object struct {
	ID       string
	Name     string
	Asset    string // URL the renderer fetches the model from
	Position r3.Vector
	Rotation Euler
	Scale    float64
	Visible  bool

	// Hotspot is set on clickable planes attached to a model.
	Hotspot *Hotspot

	parent   *Object
	children []*Object
}

// NewObject creates a visible object with unit scale.
func NewObject(name, asset string) *Object {
	return &Object{
		ID:      uuid.NewString(),
		Name:    name,
		Asset:   asset,
		Scale:   1,
		Visible: true,
	}
}

// Add attaches child to o.
func (o *Object) Add(child *Object) {
	if child.parent != nil {
		child.parent.remove(child)
	}
	child.parent = o
	o.children = append(o.children, child)
}

func (o *Object) remove(child *Object) {
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Children returns the direct children of o.
func (o *Object) Children() []*Object {
	return o.children
}

// Parent returns the object o is attached to, or nil.
func (o *Object) Parent() *Object {
	return o.parent
}

// Local returns the object's transform relative to its parent.
func (o *Object) Local() Mat4 {
	scale := o.Scale
	if scale == 0 {
		scale = 1
	}
	return Translation(o.Position).Mul(o.Rotation.Matrix()).Mul(Scaling(scale))
}

// World returns the object's transform in world space.
func (o *Object) World() Mat4 {
	if o.parent == nil {
		return o.Local()
	}
	return o.parent.World().Mul(o.Local())
}

// WorldPosition returns the object's origin in world space.
func (o *Object) WorldPosition() r3.Vector {
	return o.World().TransformPoint(r3.Vector{})
}

// LookAt rotates the object so its +Z axis faces target. Only valid for
// root objects, which is how models are placed.
func (o *Object) LookAt(target r3.Vector) {
	up := r3.Vector{X: 0, Y: 1, Z: 0}
	o.Rotation = EulerFromMatrix(lookRotation(target, o.Position, up))
}

// Walk calls fn for o and every descendant, depth first.
func (o *Object) Walk(fn func(*Object)) {
	fn(o)
	for _, c := range o.children {
		c.Walk(fn)
	}
}
