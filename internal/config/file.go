package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the root configuration file structure (qranchor.yaml).
// Zero values mean "not set" and leave the built-in defaults in place.
type File struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	Camera   CameraFile   `yaml:"camera"`
	Anchor   AnchorFile   `yaml:"anchor"`
	Assets   AssetsFile   `yaml:"assets"`
	Hotspots HotspotsFile `yaml:"hotspots"`
}

// CameraFile configures the frame source.
type CameraFile struct {
	Device     string `yaml:"device"`
	Preset     string `yaml:"preset"`
	FacingMode string `yaml:"facing_mode"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Framerate  int    `yaml:"framerate"`
	Quality    int    `yaml:"quality"`
}

// AnchorFile configures the lifecycle controller.
type AnchorFile struct {
	Profile           string            `yaml:"profile"` // default, responsive or demo
	PollInterval      time.Duration     `yaml:"poll_interval"`
	RenderInterval    time.Duration     `yaml:"render_interval"`
	LongPressDuration time.Duration     `yaml:"long_press"`
	StableThreshold   int               `yaml:"stable_threshold"`
	LostThreshold     int               `yaml:"lost_threshold"`
	IdleSpin          *float64          `yaml:"idle_spin"`
	TiltX             *float64          `yaml:"tilt_x"`
	AnchorDepth       *float64          `yaml:"anchor_depth"`
	ModelID           string            `yaml:"model_id"`
	Models            map[string]string `yaml:"models"`
}

// AssetsFile configures where model assets are fetched from.
// BaseURL wins over Dir when both are set.
type AssetsFile struct {
	BaseURL string `yaml:"base_url"`
	Dir     string `yaml:"dir"`
}

// HotspotsFile configures the clickable planes attached to models.
type HotspotsFile struct {
	Enabled *bool  `yaml:"enabled"`
	Email   string `yaml:"email"`
	Site    string `yaml:"site"`
}

// Load reads a YAML config file.
// A missing file is not an error: an empty File is returned.
func Load(path string) (*File, error) {
	f := &File{}
	if path == "" {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return f, nil
}
