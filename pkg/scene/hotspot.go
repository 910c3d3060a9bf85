package scene

import (
	"math"

	"github.com/golang/geo/r3"
)

// ActionKind identifies what a hotspot does when clicked.
type ActionKind string

const (
	// ActionMail opens a mail composition link.
	ActionMail ActionKind = "mail"
	// ActionOpen opens an external URL in a new browsing context.
	ActionOpen ActionKind = "open"
)

// Action is the result of clicking a hotspot.
type Action struct {
	Kind   ActionKind `json:"kind"`
	URL    string     `json:"url"`
	Target string     `json:"target,omitempty"`
}

// Hotspot is a square clickable plane in its object's local XY plane.
type Hotspot struct {
	Size    float64
	Texture string
	Action  Action
}

// Hotspot layout below a model's center.
const (
	HotspotOffsetX = 0.3
	HotspotOffsetY = -0.5
	HotspotSize    = 0.25
)

// NewHotspot creates a clickable plane at a local position.
func NewHotspot(name string, pos r3.Vector, size float64, texture string, action Action) *Object {
	o := NewObject(name, "")
	o.Position = pos
	o.Hotspot = &Hotspot{Size: size, Texture: texture, Action: action}
	return o
}

// MailAction returns a mailto action for address.
func MailAction(address string) Action {
	return Action{Kind: ActionMail, URL: "mailto:" + address}
}

// OpenAction returns an action opening url in a new browsing context.
func OpenAction(url string) Action {
	return Action{Kind: ActionOpen, URL: url, Target: "_blank"}
}

// AttachHotspots adds the email and site planes symmetrically below model.
// Empty addresses skip the corresponding plane.
func AttachHotspots(model *Object, email, site string) {
	if email != "" {
		model.Add(NewHotspot("email",
			r3.Vector{X: -HotspotOffsetX, Y: HotspotOffsetY},
			HotspotSize, "textures/email.png", MailAction(email)))
	}
	if site != "" {
		model.Add(NewHotspot("site",
			r3.Vector{X: HotspotOffsetX, Y: HotspotOffsetY},
			HotspotSize, "textures/site.png", OpenAction(site)))
	}
}

// Intersect returns the distance along ray to the hotspot plane of o.
func (o *Object) Intersect(ray Ray) (float64, bool) {
	if o.Hotspot == nil || !o.Visible {
		return 0, false
	}
	world := o.World()
	inv, ok := world.Inverse()
	if !ok {
		return 0, false
	}

	// Intersect in local space where the plane is z = 0.
	origin := inv.TransformPoint(ray.Origin)
	dir := inv.TransformDirection(ray.Direction)
	if math.Abs(dir.Z) < 1e-9 {
		return 0, false
	}
	t := -origin.Z / dir.Z
	if t < 0 {
		return 0, false
	}
	p := origin.Add(dir.Mul(t))
	half := o.Hotspot.Size / 2
	if math.Abs(p.X) > half || math.Abs(p.Y) > half {
		return 0, false
	}
	return world.TransformPoint(p).Distance(ray.Origin), true
}
