package anchor

import "github.com/teslashibe/go-qranchor/pkg/scene"

// ModelState is the lifecycle stage of a model.
type ModelState int

const (
	StateAbsent   ModelState = iota // nothing loaded or loading
	StateLoading                    // asset requested, not yet in the scene
	StateAttached                   // follows the QR code every render tick
	StateDetached                   // frozen at its last position
)

func (s ModelState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAttached:
		return "attached"
	case StateDetached:
		return "detached"
	default:
		return "absent"
	}
}

// MarshalText encodes the state by name.
func (s ModelState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Model is a loaded model in the scene.
type Model struct {
	State   ModelState
	Object  *scene.Object
	Payload string // QR content the model was created for

	// RotationOffset is the user-adjusted yaw in radians.
	RotationOffset float64

	base scene.Euler // orientation from the last placement
	spin float64     // accumulated idle spin
}

// Info is a read-only summary of controller state for the UI.
type Info struct {
	Presence        PresenceState `json:"presence"`
	Visible         int           `json:"visible_frames"`
	Lost            int           `json:"lost_frames"`
	Payload         string        `json:"payload"`
	Tracking        ModelState    `json:"tracking"`
	Models          int           `json:"models"`
	CameraReady     bool          `json:"camera_ready"`
	ControlsVisible bool          `json:"controls_visible"`
	DecodeErrors    int           `json:"decode_errors"`
}
