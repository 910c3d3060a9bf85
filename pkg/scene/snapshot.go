package scene

// CameraState is the serializable form of the camera.
type CameraState struct {
	FOV      float64 `json:"fov"`
	Aspect   float64 `json:"aspect"`
	Near     float64 `json:"near"`
	Far      float64 `json:"far"`
	Position Vec3    `json:"position"`
	Target   Vec3    `json:"target"`
}

// ObjectState is the serializable form of an object and its children.
type ObjectState struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Asset    string        `json:"asset,omitempty"`
	Position Vec3          `json:"position"`
	Rotation Euler         `json:"rotation"`
	Scale    float64       `json:"scale"`
	Visible  bool          `json:"visible"`
	Hotspot  *HotspotState `json:"hotspot,omitempty"`
	Children []ObjectState `json:"children,omitempty"`
}

// HotspotState describes a clickable plane for the renderer.
type HotspotState struct {
	Size    float64 `json:"size"`
	Texture string  `json:"texture"`
	Action  Action  `json:"action"`
}

// Snapshot is everything the renderer needs to draw one frame.
type Snapshot struct {
	Camera  CameraState   `json:"camera"`
	Objects []ObjectState `json:"objects"`
	Lights  []Light       `json:"lights"`
}

// Snapshot captures the current scene state.
func (s *Scene) Snapshot() Snapshot {
	snap := Snapshot{
		Camera: CameraState{
			FOV:      s.camera.FOV,
			Aspect:   s.camera.Aspect,
			Near:     s.camera.Near,
			Far:      s.camera.Far,
			Position: ToVec3(s.camera.Position),
			Target:   ToVec3(s.camera.Target),
		},
		Objects: make([]ObjectState, 0, len(s.objects)),
		Lights:  append([]Light(nil), s.lights...),
	}
	for _, o := range s.objects {
		snap.Objects = append(snap.Objects, o.state())
	}
	return snap
}

func (o *Object) state() ObjectState {
	st := ObjectState{
		ID:       o.ID,
		Name:     o.Name,
		Asset:    o.Asset,
		Position: ToVec3(o.Position),
		Rotation: o.Rotation,
		Scale:    o.Scale,
		Visible:  o.Visible,
	}
	if o.Hotspot != nil {
		st.Hotspot = &HotspotState{
			Size:    o.Hotspot.Size,
			Texture: o.Hotspot.Texture,
			Action:  o.Hotspot.Action,
		}
	}
	for _, c := range o.children {
		st.Children = append(st.Children, c.state())
	}
	return st
}
