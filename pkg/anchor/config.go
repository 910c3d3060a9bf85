package anchor

import (
	"math"
	"time"
)

// Hotspots configures the clickable planes attached below every model.
type Hotspots struct {
	Enabled bool
	Email   string // mailto target; empty skips the email plane
	Site    string // external URL; empty falls back to a URL payload
}

// Config holds all tunable parameters for QR anchoring
type Config struct {
	// Timing
	PollInterval      time.Duration // How often a frame is decoded
	RenderInterval    time.Duration // How often the scene is placed and rendered
	LongPressDuration time.Duration // Hold time that detaches the tracked model

	// Debounce (consecutive polls)
	StableThreshold int // Hits before a model is created
	LostThreshold   int // Misses before an attached model is removed

	// Rotation (radians)
	RotateStep float64 // Per rotate-left/right command
	IdleSpin   float64 // Added to every model per render tick; 0 disables
	TiltX      float64 // Pitch applied after facing the camera

	// Placement
	AnchorDepth     float64 // Normalized device depth of the anchor point (-1 near plane)
	DefaultDistance float64 // Fallback distance in front of the camera
	DefaultWidth    int     // Canvas size used before the camera reports one
	DefaultHeight   int

	// Assets
	ModelID string            // Asset id used for any payload not in Models
	Models  map[string]string // Payload -> asset id

	Hotspots Hotspots
}

// DefaultConfig returns the recommended configuration
func DefaultConfig() Config {
	return Config{
		PollInterval:      250 * time.Millisecond, // 4 decodes per second
		RenderInterval:    16 * time.Millisecond,  // ~60 Hz
		LongPressDuration: 800 * time.Millisecond,

		StableThreshold: 2,
		LostThreshold:   2,

		RotateStep: math.Pi / 4,
		IdleSpin:   0,
		TiltX:      -math.Pi / 6,

		AnchorDepth:     -1,
		DefaultDistance: 1.0,
		DefaultWidth:    640,
		DefaultHeight:   480,

		ModelID: "model",

		Hotspots: Hotspots{Enabled: true},
	}
}

// ResponsiveConfig decodes faster and reacts to a single frame.
// Good on desktops where decoding is cheap; flickers on shaky phones.
func ResponsiveConfig() Config {
	cfg := DefaultConfig()
	cfg.PollInterval = 100 * time.Millisecond
	cfg.StableThreshold = 1
	cfg.LostThreshold = 4
	return cfg
}

// DemoConfig slowly spins models so a booth display never looks frozen.
func DemoConfig() Config {
	cfg := DefaultConfig()
	cfg.AnchorDepth = 0.8 // about one unit from the camera
	cfg.IdleSpin = 0.01
	cfg.LostThreshold = 8
	return cfg
}

// ModelFor returns the asset id to load for payload.
func (c *Config) ModelFor(payload string) string {
	if id, ok := c.Models[payload]; ok && id != "" {
		return id
	}
	return c.ModelID
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	switch {
	case c.PollInterval <= 0:
		return &ConfigError{Field: "PollInterval", Message: "must be positive"}
	case c.RenderInterval <= 0:
		return &ConfigError{Field: "RenderInterval", Message: "must be positive"}
	case c.LongPressDuration <= 0:
		return &ConfigError{Field: "LongPressDuration", Message: "must be positive"}
	case c.StableThreshold < 1:
		return &ConfigError{Field: "StableThreshold", Message: "must be at least 1"}
	case c.LostThreshold < 1:
		return &ConfigError{Field: "LostThreshold", Message: "must be at least 1"}
	case c.AnchorDepth < -1 || c.AnchorDepth >= 1:
		return &ConfigError{Field: "AnchorDepth", Message: "must be in [-1, 1)"}
	case c.DefaultDistance <= 0:
		return &ConfigError{Field: "DefaultDistance", Message: "must be positive"}
	case c.DefaultWidth <= 0 || c.DefaultHeight <= 0:
		return &ConfigError{Field: "DefaultWidth", Message: "default canvas must be non-empty"}
	case c.ModelID == "":
		return &ConfigError{Field: "ModelID", Message: "required"}
	}
	return nil
}
