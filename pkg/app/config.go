// Package app wires the camera, QR detector, asset loader, anchoring loop
// and viewer server into the qranchor application.
package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/teslashibe/go-qranchor/internal/config"
	"github.com/teslashibe/go-qranchor/pkg/anchor"
	"github.com/teslashibe/go-qranchor/pkg/camera"
)

// DefaultPreviewInterval throttles the JPEG camera preview (10 FPS).
const DefaultPreviewInterval = 100 * time.Millisecond

// Config holds all configuration for the application.
// Flag parsing is done in cmd/qranchor/main.go; this struct is data only.
type Config struct {
	Debug      bool // verbose debug logging
	DebugPolls bool // log every poll (very noisy)

	Port      int
	LogLevel  string
	StaticDir string // viewer page
	AssetBase string // http(s) URL or local directory of .glb models

	// Preview streams JPEG frames to /ws/camera; zero interval disables it.
	PreviewInterval time.Duration

	Camera camera.Config
	Anchor anchor.Config
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:            config.DefaultPort,
		LogLevel:        config.DefaultLogLevel,
		StaticDir:       "./web",
		AssetBase:       config.DefaultAssetBase,
		PreviewInterval: DefaultPreviewInterval,
		Camera:          camera.DefaultConfig(),
		Anchor:          anchor.DefaultConfig(),
	}
}

// Profile returns the anchoring preset with the given name.
func Profile(name string) (anchor.Config, bool) {
	switch strings.ToLower(name) {
	case "", "default":
		return anchor.DefaultConfig(), true
	case "responsive":
		return anchor.ResponsiveConfig(), true
	case "demo":
		return anchor.DemoConfig(), true
	}
	return anchor.Config{}, false
}

// ApplyFile merges values set in a config file over c.
func (c *Config) ApplyFile(f *config.File) error {
	if f.Port != 0 {
		c.Port = f.Port
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}

	cam := f.Camera
	if cam.Preset != "" {
		preset := camera.GetPreset(cam.Preset)
		if preset == nil {
			return &ConfigError{Field: "camera.preset", Message: fmt.Sprintf("unknown preset %q", cam.Preset)}
		}
		c.Camera = *preset
	}
	if cam.Device != "" {
		c.Camera.Device = cam.Device
	}
	if cam.FacingMode != "" {
		c.Camera.FacingMode = cam.FacingMode
	}
	if cam.Width != 0 {
		c.Camera.Width = cam.Width
	}
	if cam.Height != 0 {
		c.Camera.Height = cam.Height
	}
	if cam.Framerate != 0 {
		c.Camera.Framerate = cam.Framerate
	}
	if cam.Quality != 0 {
		c.Camera.Quality = cam.Quality
	}

	an := f.Anchor
	if an.Profile != "" {
		profile, ok := Profile(an.Profile)
		if !ok {
			return &ConfigError{Field: "anchor.profile", Message: fmt.Sprintf("unknown profile %q", an.Profile)}
		}
		profile.Hotspots = c.Anchor.Hotspots
		c.Anchor = profile
	}
	if an.PollInterval != 0 {
		c.Anchor.PollInterval = an.PollInterval
	}
	if an.RenderInterval != 0 {
		c.Anchor.RenderInterval = an.RenderInterval
	}
	if an.LongPressDuration != 0 {
		c.Anchor.LongPressDuration = an.LongPressDuration
	}
	if an.StableThreshold != 0 {
		c.Anchor.StableThreshold = an.StableThreshold
	}
	if an.LostThreshold != 0 {
		c.Anchor.LostThreshold = an.LostThreshold
	}
	if an.IdleSpin != nil {
		c.Anchor.IdleSpin = *an.IdleSpin
	}
	if an.TiltX != nil {
		c.Anchor.TiltX = *an.TiltX
	}
	if an.AnchorDepth != nil {
		c.Anchor.AnchorDepth = *an.AnchorDepth
	}
	if an.ModelID != "" {
		c.Anchor.ModelID = an.ModelID
	}
	if len(an.Models) > 0 {
		c.Anchor.Models = an.Models
	}

	switch {
	case f.Assets.BaseURL != "":
		c.AssetBase = f.Assets.BaseURL
	case f.Assets.Dir != "":
		c.AssetBase = f.Assets.Dir
	}

	if f.Hotspots.Enabled != nil {
		c.Anchor.Hotspots.Enabled = *f.Hotspots.Enabled
	}
	if f.Hotspots.Email != "" {
		c.Anchor.Hotspots.Email = f.Hotspots.Email
	}
	if f.Hotspots.Site != "" {
		c.Anchor.Hotspots.Site = f.Hotspots.Site
	}
	return nil
}

// LoadEnvConfig applies environment overrides.
// Call this after ApplyFile and before flag overrides.
func (c *Config) LoadEnvConfig() {
	c.Port = config.Port(c.Port)
	c.LogLevel = config.LogLevel(c.LogLevel)
	c.AssetBase = config.AssetBase(c.AssetBase)
	c.Camera.Device = config.CameraDevice(c.Camera.Device)
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return &ConfigError{Field: "Port", Message: fmt.Sprintf("invalid port %d", c.Port)}
	}
	if c.AssetBase == "" {
		return &ConfigError{Field: "AssetBase", Message: "an asset URL or directory is required"}
	}
	if c.PreviewInterval < 0 {
		return &ConfigError{Field: "PreviewInterval", Message: "must not be negative"}
	}
	if errs := c.Camera.Validate(); len(errs) > 0 {
		return &ConfigError{Field: "Camera", Message: strings.Join(errs, "; ")}
	}
	if err := c.Anchor.Validate(); err != nil {
		return &ConfigError{Field: "Anchor", Message: err.Error()}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
