// Package web serves the AR viewer: the static three.js page, a REST
// control surface, and websocket streams for the scene, status, logs,
// camera preview and hotspot actions.
package web

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-qranchor/internal/log"
	"github.com/teslashibe/go-qranchor/pkg/anchor"
	"github.com/teslashibe/go-qranchor/pkg/hub"
	"github.com/teslashibe/go-qranchor/pkg/scene"
)

// maxLogs is the size of the log ring served by /api/logs.
const maxLogs = 500

// State is what the status line shows.
type State struct {
	Message         string      `json:"message"`
	Loading         bool        `json:"loading"`
	ControlsVisible bool        `json:"controls_visible"`
	Info            anchor.Info `json:"info"`
}

// LogEntry is a log line for the viewer's console.
type LogEntry struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Controls is the command surface of the anchoring loop.
// *anchor.Controller satisfies it.
type Controls interface {
	RotateLeft() bool
	RotateRight() bool
	PointerDown() bool
	PointerUp() bool
	Detach() bool
	ToggleControls() bool
	Retry() bool
	SetViewport(width, height int) bool
	Click(x, y, width, height float64) (scene.Action, bool)
	Snapshot() (scene.Snapshot, bool)
}

// Options configures a Server.
type Options struct {
	Port      int
	StaticDir string // viewer page, served at /
	AssetsDir string // .glb files, served at /models; empty disables
}

// Server is the viewer's HTTP and websocket server. It implements
// anchor.Renderer and anchor.StatusSink.
type Server struct {
	app  *fiber.App
	port int

	state   State
	stateMu sync.RWMutex

	logs   []LogEntry
	logsMu sync.RWMutex

	controls   Controls
	controlsMu sync.RWMutex

	sceneHub  *hub.Hub
	statusHub *hub.Hub
	logHub    *hub.Hub
	cameraHub *hub.Hub
	actionHub *hub.Hub

	// Camera config callbacks; /api/camera/config returns 503 while unset
	OnGetCameraConfig func() interface{}
	OnSetCameraConfig func(params map[string]interface{}) error
}

var (
	_ anchor.Renderer   = (*Server)(nil)
	_ anchor.StatusSink = (*Server)(nil)
)

// NewServer creates the server and registers its routes.
func NewServer(opts Options) *Server {
	s := &Server{
		port:      opts.Port,
		state:     State{ControlsVisible: true},
		logs:      make([]LogEntry, 0, maxLogs),
		sceneHub:  hub.New("scene", hub.WithRetain()),
		statusHub: hub.New("status", hub.WithRetain()),
		logHub:    hub.New("logs"),
		cameraHub: hub.New("camera"),
		actionHub: hub.New("actions"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "qranchor",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	if opts.AssetsDir != "" {
		app.Static("/models", opts.AssetsDir)
	}
	if opts.StaticDir != "" {
		app.Static("/", opts.StaticDir)
	}

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/scene", s.handleScene)
	api.Get("/logs", s.handleGetLogs)
	api.Post("/command", s.handleCommand)
	api.Post("/rotate/:dir", s.handleRotate)
	api.Post("/pointer/:phase", s.handlePointer)
	api.Post("/detach", s.handleDetach)
	api.Post("/click", s.handleClick)
	api.Post("/controls", s.handleToggleControls)
	api.Post("/viewport", s.handleViewport)
	api.Post("/camera/retry", s.handleRetry)
	api.Get("/camera/config", s.handleGetCameraConfig)
	api.Post("/camera/config", s.handleSetCameraConfig)
	api.Get("/camera/presets", s.handleCameraPresets)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/scene", websocket.New(s.streamHandler(s.sceneHub)))
	app.Get("/ws/status", websocket.New(s.streamHandler(s.statusHub)))
	app.Get("/ws/logs", websocket.New(s.streamHandler(s.logHub)))
	app.Get("/ws/camera", websocket.New(s.streamHandler(s.cameraHub)))
	app.Get("/ws/actions", websocket.New(s.handleActionsWS))

	s.app = app
	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// SetControls connects the server to the anchoring loop.
func (s *Server) SetControls(c Controls) {
	s.controlsMu.Lock()
	s.controls = c
	s.controlsMu.Unlock()
}

func (s *Server) getControls() Controls {
	s.controlsMu.RLock()
	defer s.controlsMu.RUnlock()
	return s.controls
}

// Start runs the hubs and listens until ctx ends or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	for _, h := range []*hub.Hub{s.sceneHub, s.statusHub, s.logHub, s.cameraHub, s.actionHub} {
		go h.Run(ctx)
	}
	go func() {
		<-ctx.Done()
		if err := s.app.ShutdownWithTimeout(5 * time.Second); err != nil {
			log.Warn("web shutdown", "error", err)
		}
	}()

	log.Info("viewer listening", "url", fmt.Sprintf("http://localhost:%d", s.port))
	return s.app.Listen(fmt.Sprintf(":%d", s.port))
}

// Render broadcasts a scene snapshot to every viewer.
func (s *Server) Render(snap scene.Snapshot) error {
	return s.sceneHub.BroadcastJSON(snap)
}

// SetMessage updates the status line.
func (s *Server) SetMessage(msg string) {
	s.updateState(func(st *State) { st.Message = msg })
}

// SetLoading toggles the loading indicator.
func (s *Server) SetLoading(loading bool) {
	s.updateState(func(st *State) { st.Loading = loading })
}

// SetControlsVisible shows or hides the rotate buttons.
func (s *Server) SetControlsVisible(visible bool) {
	s.updateState(func(st *State) { st.ControlsVisible = visible })
}

// SetInfo publishes the controller summary.
func (s *Server) SetInfo(info anchor.Info) {
	s.updateState(func(st *State) { st.Info = info })
}

// Open asks viewers to follow a hotspot action.
func (s *Server) Open(action scene.Action) {
	if err := s.actionHub.BroadcastJSON(action); err != nil {
		log.Warn("encode action", "error", err)
	}
}

// State returns a copy of the current status.
func (s *Server) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

func (s *Server) updateState(update func(*State)) {
	s.stateMu.Lock()
	update(&s.state)
	state := s.state
	s.stateMu.Unlock()

	if err := s.statusHub.BroadcastJSON(state); err != nil {
		log.Warn("encode status", "error", err)
	}
}

// AddLog appends to the log ring and streams the entry to viewers.
func (s *Server) AddLog(level, message string) {
	entry := LogEntry{
		Time:    time.Now().Format("15:04:05"),
		Level:   level,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > maxLogs {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()

	// Broadcast only logs at debug level, so this cannot recurse through
	// LogHandler.
	_ = s.logHub.BroadcastJSON(entry)
}

// Logs returns a copy of the log ring.
func (s *Server) Logs() []LogEntry {
	s.logsMu.RLock()
	defer s.logsMu.RUnlock()
	return append([]LogEntry(nil), s.logs...)
}

// SendCameraFrame streams a JPEG preview frame.
func (s *Server) SendCameraFrame(jpegData []byte) {
	s.cameraHub.BroadcastBinary(jpegData)
}

// CameraClients reports how many viewers watch the preview, so callers
// can skip encoding when nobody does.
func (s *Server) CameraClients() int {
	return s.cameraHub.ClientCount()
}

// Shutdown stops the listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
