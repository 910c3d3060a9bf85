package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/teslashibe/go-qranchor/internal/log"
	"github.com/teslashibe/go-qranchor/pkg/anchor"
	"github.com/teslashibe/go-qranchor/pkg/asset"
	"github.com/teslashibe/go-qranchor/pkg/camera"
	"github.com/teslashibe/go-qranchor/pkg/camera/capture"
	"github.com/teslashibe/go-qranchor/pkg/debug"
	"github.com/teslashibe/go-qranchor/pkg/qr/detect"
	"github.com/teslashibe/go-qranchor/pkg/scene"
	"github.com/teslashibe/go-qranchor/pkg/web"
)

// App is the main application orchestrator.
// It manages all components and their lifecycle.
type App struct {
	config Config

	server        *web.Server
	source        *capture.Source
	detector      *detect.Detector
	cameraManager *camera.Manager
	controller    *anchor.Controller

	preview *previewer
}

// New creates the application and routes logs to the viewer console.
func New(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	debug.Enabled = cfg.Debug
	debug.Polls = cfg.DebugPolls

	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}

	server := web.NewServer(web.Options{
		Port:      cfg.Port,
		StaticDir: cfg.StaticDir,
		AssetsDir: assetsDir(cfg.AssetBase),
	})
	log.Init(level, web.NewLogHandler(server, nil))

	return &App{config: cfg, server: server}, nil
}

// assetsDir returns the directory to serve at /models, or "" when models
// come from a remote URL.
func assetsDir(base string) string {
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return ""
	}
	return base
}

// Init builds the capture pipeline and the anchoring controller.
// Call this after New() and before Run().
func (a *App) Init() error {
	log.Info("qranchor starting", "debug", debug.Enabled)

	if dir := assetsDir(a.config.AssetBase); dir != "" {
		if _, err := os.Stat(dir); err != nil {
			log.Warn("model directory not readable", "dir", dir, "error", err)
		}
	}

	a.source = capture.New(a.config.Camera)
	a.detector = detect.New()
	a.cameraManager = camera.NewManager(a.config.Camera)

	ctrl, err := anchor.New(a.config.Anchor, anchor.Deps{
		Source:   a.source,
		Decoder:  a.detector,
		Loader:   asset.NewLoader(a.config.AssetBase),
		Scene:    scene.New(nil),
		Renderer: a.server,
		Status:   a.server,
	})
	if err != nil {
		a.detector.Close()
		return fmt.Errorf("anchor init: %w", err)
	}
	a.controller = ctrl

	if a.config.PreviewInterval > 0 {
		a.preview = newPreviewer(a.server, a.config.PreviewInterval, a.cameraManager)
		ctrl.OnFrame = a.preview.frame
	}

	// Reopen the camera whenever the viewer changes its settings
	a.cameraManager.OnConfigChange = func(cfg camera.Config) error {
		a.source.Configure(cfg)
		if !a.controller.Retry() {
			return errors.New("anchoring has stopped")
		}
		log.Info("camera config updated", "width", cfg.Width, "height", cfg.Height, "fps", cfg.Framerate)
		return nil
	}

	a.server.SetControls(ctrl)
	a.server.OnGetCameraConfig = func() interface{} {
		return a.cameraManager.GetConfigJSON()
	}
	a.server.OnSetCameraConfig = a.cameraManager.UpdateConfig

	log.Info("initialized",
		"camera", fmt.Sprintf("%dx%d@%d", a.config.Camera.Width, a.config.Camera.Height, a.config.Camera.Framerate),
		"assets", a.config.AssetBase,
		"model", a.config.Anchor.ModelID)
	return nil
}

// Run serves the viewer and drives the anchoring loop.
// Blocks until ctx is cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- a.server.Start(ctx)
		cancel()
	}()

	err := a.controller.Run(ctx)
	select {
	case serr := <-serveErr:
		if serr != nil {
			return fmt.Errorf("web server: %w", serr)
		}
	default:
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Shutdown releases the detector and stops the server.
func (a *App) Shutdown() {
	log.Info("shutting down")
	if a.detector != nil {
		a.detector.Close()
	}
	if a.server != nil {
		// Usually already stopped by Run's context
		if err := a.server.Shutdown(); err != nil {
			log.Debug("web shutdown", "error", err)
		}
	}
}

// previewer throttles and encodes frames for the camera preview stream.
type previewer struct {
	server   *web.Server
	interval time.Duration
	camera   *camera.Manager

	last time.Time
	sent int
}

func newPreviewer(s *web.Server, interval time.Duration, m *camera.Manager) *previewer {
	return &previewer{server: s, interval: interval, camera: m}
}

// frame runs on the controller goroutine for every polled frame.
func (p *previewer) frame(f *camera.Frame) {
	if p.server.CameraClients() == 0 {
		return
	}

	now := time.Now()
	if now.Sub(p.last) < p.interval {
		return
	}
	p.last = now

	jpeg, err := capture.EncodeJPEG(f, p.camera.GetConfig().Quality)
	if err != nil {
		debug.Log("preview encode: %v", err)
		return
	}
	p.server.SendCameraFrame(jpeg)

	p.sent++
	if p.sent == 1 {
		log.Info("camera preview streaming", "bytes", len(jpeg))
	}
}
