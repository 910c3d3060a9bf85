package app

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teslashibe/go-qranchor/internal/config"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, -1.0, cfg.Anchor.AnchorDepth)
}

func TestApplyFile(t *testing.T) {
	spin, depth := 0.02, 0.5
	enabled := false
	f := &config.File{
		Port:     9000,
		LogLevel: "warn",
		Camera:   config.CameraFile{Preset: "legacy", Device: "2", Quality: 60},
		Anchor: config.AnchorFile{
			Profile:           "responsive",
			LostThreshold:     6,
			LongPressDuration: time.Second,
			IdleSpin:          &spin,
			AnchorDepth:       &depth,
			ModelID:           "duck",
			Models:            map[string]string{"https://example.com": "card"},
		},
		Assets:   config.AssetsFile{BaseURL: "https://cdn.example.com/models", Dir: "./ignored"},
		Hotspots: config.HotspotsFile{Enabled: &enabled, Email: "hi@example.com"},
	}

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyFile(f))

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 640, cfg.Camera.Width)
	assert.Equal(t, "2", cfg.Camera.Device)
	assert.Equal(t, 60, cfg.Camera.Quality)

	// responsive profile, then explicit overrides
	assert.Equal(t, 100*time.Millisecond, cfg.Anchor.PollInterval)
	assert.Equal(t, 1, cfg.Anchor.StableThreshold)
	assert.Equal(t, 6, cfg.Anchor.LostThreshold)
	assert.Equal(t, time.Second, cfg.Anchor.LongPressDuration)
	assert.Equal(t, 0.02, cfg.Anchor.IdleSpin)
	assert.Equal(t, 0.5, cfg.Anchor.AnchorDepth)
	assert.Equal(t, "duck", cfg.Anchor.ModelID)
	assert.Equal(t, "card", cfg.Anchor.ModelFor("https://example.com"))

	assert.Equal(t, "https://cdn.example.com/models", cfg.AssetBase)
	assert.False(t, cfg.Anchor.Hotspots.Enabled)
	assert.Equal(t, "hi@example.com", cfg.Anchor.Hotspots.Email)
	require.NoError(t, cfg.Validate())
}

func TestApplyFile_EmptyKeepsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyFile(&config.File{}))
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestApplyFile_Unknown(t *testing.T) {
	tests := []struct {
		name  string
		file  config.File
		field string
	}{
		{"camera preset", config.File{Camera: config.CameraFile{Preset: "8k"}}, "camera.preset"},
		{"anchor profile", config.File{Anchor: config.AnchorFile{Profile: "turbo"}}, "anchor.profile"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.ApplyFile(&tt.file)
			var ce *ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("QRANCHOR_PORT", "9191")
	t.Setenv("QRANCHOR_CAMERA", "rtsp://cam.local/stream")
	t.Setenv("QRANCHOR_ASSET_BASE", "/srv/models")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	cfg.LoadEnvConfig()

	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, "rtsp://cam.local/stream", cfg.Camera.Device)
	assert.Equal(t, "/srv/models", cfg.AssetBase)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"port", func(c *Config) { c.Port = 0 }, "Port"},
		{"assets", func(c *Config) { c.AssetBase = "" }, "AssetBase"},
		{"preview", func(c *Config) { c.PreviewInterval = -time.Second }, "PreviewInterval"},
		{"camera", func(c *Config) { c.Camera.Width = 1 }, "Camera"},
		{"anchor", func(c *Config) { c.Anchor.StableThreshold = 0 }, "Anchor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			var ce *ConfigError
			require.True(t, errors.As(cfg.Validate(), &ce))
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestAssetsDir(t *testing.T) {
	assert.Equal(t, "", assetsDir("https://cdn.example.com/models"))
	assert.Equal(t, "", assetsDir("http://localhost:9000"))
	assert.Equal(t, "./models", assetsDir("./models"))
}
