// Package camera provides the frame source for QR anchoring: capture settings
// that can be changed at runtime, the Source abstraction and the frame poller.
package camera

// Facing modes requested from the capture device.
const (
	FacingEnvironment = "environment" // back camera
	FacingUser        = "user"        // front camera
)

// Config holds all camera configuration parameters.
// These can be modified via the camera API at runtime.
type Config struct {
	// Device is an explicit capture device: a numeric index or a stream URL.
	// When empty the device is chosen from FacingMode.
	Device string `json:"device"`

	// FacingMode selects the back ("environment") or front ("user") camera.
	FacingMode string `json:"facing_mode"`

	// === Resolution ===
	Width     int `json:"width"`     // Requested frame width in pixels
	Height    int `json:"height"`    // Requested frame height in pixels
	Framerate int `json:"framerate"` // Target FPS
	Quality   int `json:"quality"`   // JPEG quality 1-100 for the preview stream

	// Brightness adjustment (-1.0 to +1.0). 0 leaves the driver default.
	Brightness float64 `json:"brightness"`

	// ZoomLevel is the requested zoom factor (1.0 to 4.0).
	ZoomLevel float64 `json:"zoom_level"`

	// AutoFocus keeps the lens refocusing; printed codes held close need it.
	AutoFocus bool `json:"autofocus"`
}

// Capture limits accepted by Validate.
const (
	MaxWidth  = 3840
	MaxHeight = 2160
	MaxZoom   = 4.0
)

// DefaultConfig returns the recommended configuration: back camera at 720p.
func DefaultConfig() Config {
	return Config{
		FacingMode: FacingEnvironment,
		Width:      1280,
		Height:     720,
		Framerate:  30,
		Quality:    80,
		ZoomLevel:  1.0,
		AutoFocus:  true,
	}
}

// LegacyConfig returns a 640x480 configuration for older webcams.
func LegacyConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 640
	cfg.Height = 480
	return cfg
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.FacingMode != FacingEnvironment && c.FacingMode != FacingUser {
		errors = append(errors, "facing_mode must be environment or user")
	}

	// Resolution
	if c.Width < 160 || c.Width > MaxWidth {
		errors = append(errors, "width must be between 160 and 3840")
	}
	if c.Height < 120 || c.Height > MaxHeight {
		errors = append(errors, "height must be between 120 and 2160")
	}
	if c.Framerate < 1 || c.Framerate > 120 {
		errors = append(errors, "framerate must be between 1 and 120")
	}
	if c.Quality < 1 || c.Quality > 100 {
		errors = append(errors, "quality must be between 1 and 100")
	}

	if c.Brightness < -1.0 || c.Brightness > 1.0 {
		errors = append(errors, "brightness must be between -1.0 and 1.0")
	}
	if c.ZoomLevel < 1.0 || c.ZoomLevel > MaxZoom {
		errors = append(errors, "zoom_level must be between 1.0 and 4.0")
	}

	return errors
}

// Capabilities describes what the camera API accepts.
func Capabilities() map[string]interface{} {
	return map[string]interface{}{
		"max_width":    MaxWidth,
		"max_height":   MaxHeight,
		"max_zoom":     MaxZoom,
		"facing_modes": []string{FacingEnvironment, FacingUser},
		"presets":      PresetNames(),
	}
}
