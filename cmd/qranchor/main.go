// qranchor anchors a 3D model to QR codes seen by a camera and serves an
// AR viewer that renders it over the live preview.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teslashibe/go-qranchor/internal/config"
	"github.com/teslashibe/go-qranchor/pkg/app"
)

func main() {
	cfg, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		os.Exit(2)
	}

	a, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		os.Exit(2)
	}

	if err := a.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Initialization failed: %v\n", err)
		os.Exit(1)
	}
	defer a.Shutdown()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := a.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Runtime error: %v\n", err)
		a.Shutdown()
		os.Exit(1)
	}
}

// parseFlags builds the configuration: flags > env > config file > defaults.
func parseFlags() (app.Config, error) {
	cfg := app.DefaultConfig()

	configPath := flag.String("config", "qranchor.yaml", "YAML config file (missing is fine)")
	debugFlag := flag.Bool("debug", false, "Enable verbose debug logging")
	debugPolls := flag.Bool("debug-polls", false, "Log every poll and decode (very noisy)")
	port := flag.Int("port", cfg.Port, "HTTP port for the viewer")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	device := flag.String("camera", "", "Camera device index or stream URL")
	preset := flag.String("preset", "", "Camera preset: default, legacy, 720p, 1080p, front, close")
	profile := flag.String("profile", "", "Anchoring profile: default, responsive, demo")
	assets := flag.String("assets", "", "Model asset base: directory or http(s) URL")
	model := flag.String("model", "", "Asset id loaded for QR codes without a mapping")
	web := flag.String("web", cfg.StaticDir, "Directory with the viewer page")
	preview := flag.Duration("preview", cfg.PreviewInterval, "Camera preview interval (0 disables)")
	flag.Parse()

	cfg, err := loadFile(*configPath, *profile)
	if err != nil {
		return cfg, err
	}
	cfg.LoadEnvConfig()

	set := map[string]bool{}
	flag.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	cfg.Debug, cfg.DebugPolls = *debugFlag, *debugPolls
	if set["port"] {
		cfg.Port = *port
	}
	if set["log-level"] {
		cfg.LogLevel = *logLevel
	}
	if set["web"] {
		cfg.StaticDir = *web
	}
	if set["preview"] {
		cfg.PreviewInterval = *preview
	}
	if *preset != "" {
		if err := cfg.ApplyFile(&config.File{Camera: config.CameraFile{Preset: *preset, Device: cfg.Camera.Device}}); err != nil {
			return cfg, err
		}
	}
	if *device != "" {
		cfg.Camera.Device = *device
	}
	if *assets != "" {
		cfg.AssetBase = *assets
	}
	if *model != "" {
		cfg.Anchor.ModelID = *model
	}
	if cfg.PreviewInterval > 0 && cfg.PreviewInterval < 10*time.Millisecond {
		cfg.PreviewInterval = 10 * time.Millisecond
	}
	return cfg, nil
}

// loadFile applies the config file over the defaults. A non-empty profile
// replaces the file's anchor.profile, so tuning set in the file still
// applies on top of it.
func loadFile(path, profile string) (app.Config, error) {
	cfg := app.DefaultConfig()

	f, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if profile != "" {
		f.Anchor.Profile = profile
	}
	if err := cfg.ApplyFile(f); err != nil {
		return cfg, err
	}
	return cfg, nil
}
