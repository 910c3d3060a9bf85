// Package anchor keeps a 3D model anchored to a QR code seen by the camera.
//
// A poll timer decodes frames and debounces presence; a render timer places
// the tracked model at the code's unprojected screen position. Everything
// runs on the goroutine that calls Run.
package anchor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/golang/geo/r3"
	"github.com/teslashibe/go-qranchor/internal/log"
	"github.com/teslashibe/go-qranchor/pkg/asset"
	"github.com/teslashibe/go-qranchor/pkg/camera"
	"github.com/teslashibe/go-qranchor/pkg/debug"
	"github.com/teslashibe/go-qranchor/pkg/qr"
	"github.com/teslashibe/go-qranchor/pkg/scene"
)

// Renderer draws a scene snapshot.
type Renderer interface {
	Render(scene.Snapshot) error
}

// StatusSink is the user-facing status surface.
type StatusSink interface {
	SetMessage(msg string)
	SetLoading(loading bool)
	SetControlsVisible(visible bool)
	SetInfo(info Info)
	Open(action scene.Action)
}

// Deps are the capabilities the controller drives.
// Scene, Renderer and Status may be nil.
type Deps struct {
	Source   camera.Source
	Decoder  qr.Decoder
	Loader   asset.Loader
	Scene    *scene.Scene
	Renderer Renderer
	Status   StatusSink
}

// Controller runs the QR anchoring lifecycle.
type Controller struct {
	config   Config
	source   camera.Source
	poller   *camera.Poller
	decoder  qr.Decoder
	loader   asset.Loader
	scene    *scene.Scene
	renderer Renderer
	status   StatusSink

	// OnFrame is called with every polled frame before decoding.
	// The frame buffer is reused; copy it to keep it.
	OnFrame func(*camera.Frame)

	// now is replaced in tests
	now func() time.Time
	ctx context.Context

	// State owned by the Run goroutine
	presence     Presence
	lastPayload  string
	anchor       *qr.Observation // last positive observation
	active       *Model          // tracked model, always StateAttached
	models       []*Model        // every model in the scene, oldest first
	pending      *asset.Future
	pendingFor   string // payload of the pending load
	press        LongPress
	cameraReady  bool
	opening      chan error // result of an Open in flight
	reopen       bool       // Retry arrived while opening
	controls     bool
	decodeErrors int
	frameW       int
	frameH       int

	cmds    chan func()
	stopped chan struct{}
	info    atomic.Pointer[Info]
}

// New creates a controller. It does nothing until Run.
func New(cfg Config, deps Deps) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Source == nil || deps.Decoder == nil || deps.Loader == nil {
		return nil, errors.New("anchor: source, decoder and loader are required")
	}
	if deps.Scene == nil {
		deps.Scene = scene.New(nil)
	}
	if deps.Renderer == nil {
		deps.Renderer = nopRenderer{}
	}
	if deps.Status == nil {
		deps.Status = NopStatus{}
	}

	c := &Controller{
		config:   cfg,
		source:   deps.Source,
		poller:   camera.NewPoller(deps.Source),
		decoder:  deps.Decoder,
		loader:   deps.Loader,
		scene:    deps.Scene,
		renderer: deps.Renderer,
		status:   deps.Status,
		now:      time.Now,
		ctx:      context.Background(),
		press:    LongPress{Threshold: cfg.LongPressDuration},
		controls: true,
		frameW:   cfg.DefaultWidth,
		frameH:   cfg.DefaultHeight,
		cmds:     make(chan func(), 16),
		stopped:  make(chan struct{}),
	}
	c.scene.Camera().SetViewport(c.frameW, c.frameH)
	c.info.Store(&Info{})
	return c, nil
}

// Scene returns the scene the controller places models in.
func (c *Controller) Scene() *scene.Scene {
	return c.scene
}

// Run acquires the camera and drives polling and rendering until ctx ends.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.stopped)
	defer c.shutdown()

	c.ctx = ctx
	c.acquire(ctx)

	pollTicker := time.NewTicker(c.config.PollInterval)
	renderTicker := time.NewTicker(c.config.RenderInterval)
	defer pollTicker.Stop()
	defer renderTicker.Stop()

	log.Info("anchor controller started",
		"poll", c.config.PollInterval,
		"render", c.config.RenderInterval,
		"stable", c.config.StableThreshold,
		"lost", c.config.LostThreshold)

	for {
		var loaded <-chan struct{}
		if c.pending != nil {
			loaded = c.pending.Done()
		}
		var opened <-chan error
		if c.opening != nil {
			opened = c.opening
		}

		select {
		case <-ctx.Done():
			log.Info("anchor controller stopped")
			return ctx.Err()

		case <-pollTicker.C:
			if c.cameraReady {
				c.poll()
			}

		case <-renderTicker.C:
			c.Tick(c.now())

		case err := <-opened:
			c.acquired(err)

		case fn := <-c.cmds:
			fn()

		case <-loaded:
			c.finishLoad()
		}

		c.publish()
	}
}

func (c *Controller) shutdown() {
	if c.opening != nil {
		// Close must not race an Open still in progress
		<-c.opening
		c.opening = nil
	}
	if c.pending != nil {
		c.pending.Cancel()
		c.pending = nil
	}
	if err := c.source.Close(); err != nil {
		log.Warn("camera close failed", "error", err)
	}
}

// acquire starts opening the camera in the background; Run hands the result
// to acquired. Failures are terminal until Retry.
func (c *Controller) acquire(ctx context.Context) {
	if c.opening != nil {
		c.reopen = true
		return
	}

	c.cameraReady = false
	c.status.SetLoading(true)
	c.status.SetMessage("starting camera…")

	done := make(chan error, 1)
	c.opening = done
	go func() {
		done <- c.source.Open(ctx)
	}()
}

// acquired applies the outcome of the Open started by acquire.
func (c *Controller) acquired(err error) {
	c.opening = nil
	if c.reopen {
		// Settings changed while opening; open again with the new ones
		c.reopen = false
		c.acquire(c.ctx)
		return
	}

	if err != nil {
		log.Error("camera acquisition failed", "error", err)
		c.status.SetLoading(false)
		c.status.SetMessage(fmt.Sprintf("camera error: %v", err))
		return
	}

	c.poller.Reset()
	c.cameraReady = true
	c.status.SetLoading(false)
	c.status.SetMessage("")
	c.status.SetControlsVisible(c.controls)
}

// poll reads one frame, decodes it and feeds the presence machine.
func (c *Controller) poll() {
	frame, ok, err := c.poller.Poll()
	if err != nil {
		debug.PollLog("anchor: %v", err)
		return
	}
	if !ok {
		return
	}

	if frame.Width != c.frameW || frame.Height != c.frameH {
		c.frameW, c.frameH = frame.Width, frame.Height
		c.scene.Camera().SetViewport(c.frameW, c.frameH)
	}

	if c.OnFrame != nil {
		c.OnFrame(frame)
	}

	code, err := qr.SafeDecode(c.decoder, frame.Pix, frame.Width, frame.Height)
	if err != nil {
		// A failed decode is neither a hit nor a miss
		c.decodeErrors++
		log.Warn("qr decode failed", "error", err)
		return
	}

	c.Observe(qr.Observe(code, frame.Width, frame.Height))
}

// Observe feeds one poll result into the presence machine; nil is a miss.
func (c *Controller) Observe(obs *qr.Observation) {
	if obs == nil {
		c.presence.Miss()
		debug.PollLog("anchor: miss (lost=%d)", c.presence.Lost)
		if c.presence.Lost == c.config.LostThreshold {
			c.lose()
		}
		return
	}

	c.presence.Hit()
	c.anchor = obs
	debug.PollLog("anchor: hit %s (visible=%d)", obs, c.presence.Visible)

	if c.presence.Visible < c.config.StableThreshold || obs.Data == c.lastPayload {
		return
	}
	if c.parked(obs.Data) {
		// Already in the scene as a detached model
		c.lastPayload = obs.Data
		return
	}
	c.create(obs.Data)
}

// create starts loading a model for payload, replacing the tracked one.
func (c *Controller) create(payload string) {
	c.lastPayload = payload

	if c.pending != nil {
		c.pending.Cancel()
		c.pending = nil
	}
	if c.active != nil {
		log.Info("replacing tracked model", "old", c.active.Payload, "new", payload)
		c.removeModel(c.active)
	}

	id := c.config.ModelFor(payload)
	log.Info("qr acquired, loading model", "payload", payload, "model", id)
	c.pending = asset.Go(c.ctx, c.loader, id)
	c.pendingFor = payload
	c.status.SetLoading(true)
}

// finishLoad adds the completed asset to the scene as the tracked model.
func (c *Controller) finishLoad() {
	f := c.pending
	c.pending = nil
	c.status.SetLoading(false)

	obj, err := f.Result()
	if err != nil {
		if errors.Is(err, asset.ErrCancelled) {
			return
		}
		log.Error("model load failed", "model", f.ID(), "error", err)
		c.status.SetMessage(fmt.Sprintf("model load error: %v", err))
		return
	}

	obj.Scale = 1
	if c.config.Hotspots.Enabled {
		scene.AttachHotspots(obj, c.config.Hotspots.Email, c.siteFor(c.pendingFor))
	}

	m := &Model{State: StateAttached, Object: obj, Payload: c.pendingFor}
	c.scene.Add(obj)
	c.models = append(c.models, m)
	c.active = m
	c.place(m)

	log.Info("model added", "payload", m.Payload, "model", f.ID(), "id", obj.ID)
	c.status.SetMessage("model added")
}

func (c *Controller) siteFor(payload string) string {
	if c.config.Hotspots.Site != "" {
		return c.config.Hotspots.Site
	}
	if strings.HasPrefix(payload, "http://") || strings.HasPrefix(payload, "https://") {
		return payload
	}
	return ""
}

// lose runs once when the code has been missing for LostThreshold polls.
func (c *Controller) lose() {
	switch {
	case c.active != nil:
		log.Info("qr lost, removing model", "payload", c.active.Payload)
		c.removeModel(c.active)
		c.lastPayload = ""
		c.status.SetMessage("model removed")
	case c.pending != nil:
		log.Info("qr lost while loading", "model", c.pending.ID())
		c.pending.Cancel()
		c.pending = nil
		c.lastPayload = ""
		c.status.SetLoading(false)
	case !c.parked(c.lastPayload):
		c.lastPayload = ""
	}
	c.anchor = nil
}

// parked reports whether a detached model exists for payload.
func (c *Controller) parked(payload string) bool {
	for _, m := range c.models {
		if m.State == StateDetached && m.Payload == payload {
			return true
		}
	}
	return false
}

func (c *Controller) removeModel(m *Model) {
	c.scene.Remove(m.Object)
	for i, existing := range c.models {
		if existing == m {
			c.models = append(c.models[:i], c.models[i+1:]...)
			break
		}
	}
	m.State = StateAbsent
	if c.active == m {
		c.active = nil
	}
}

// Tick advances one render frame at now.
func (c *Controller) Tick(now time.Time) {
	if c.press.Fired(now) {
		c.detach()
	}

	if c.active != nil {
		c.place(c.active)
	}

	for _, m := range c.models {
		m.spin += c.config.IdleSpin
		m.Object.Rotation = m.base
		m.Object.Rotation.Y += m.RotationOffset + m.spin
	}

	if err := c.renderer.Render(c.scene.Snapshot()); err != nil {
		debug.Log("anchor: render failed: %v", err)
	}
}

// place moves m to the anchor's unprojected position facing the camera.
func (c *Controller) place(m *Model) {
	cam := c.scene.Camera()
	m.Object.Position = c.anchorPoint()
	m.Object.LookAt(cam.Position)
	m.base = m.Object.Rotation
	m.base.X = c.config.TiltX
	m.Object.Rotation = m.base
	m.Object.Rotation.Y += m.RotationOffset + m.spin
}

// anchorPoint unprojects the code's center, falling back to a point
// DefaultDistance in front of the camera.
func (c *Controller) anchorPoint() r3.Vector {
	cam := c.scene.Camera()
	if c.anchor != nil {
		p, ok := cam.ScreenToWorldAt(c.anchor.Center.X, c.anchor.Center.Y,
			float64(c.anchor.FrameWidth), float64(c.anchor.FrameHeight), c.config.AnchorDepth)
		if ok {
			return p
		}
	}
	return cam.InFront(c.config.DefaultDistance)
}

// detach freezes the tracked model where it is.
func (c *Controller) detach() {
	if c.active == nil {
		return
	}
	m := c.active
	m.State = StateDetached
	c.active = nil
	log.Info("model detached", "payload", m.Payload)
	c.status.SetMessage("model detached")
}

// rotate adds dir*RotateStep to the tracked model, or the newest model.
func (c *Controller) rotate(dir float64) {
	m := c.active
	if m == nil && len(c.models) > 0 {
		m = c.models[len(c.models)-1]
	}
	if m == nil {
		return
	}
	m.RotationOffset += dir * c.config.RotateStep
	debug.Log("anchor: rotation offset %.3f", m.RotationOffset)
}

// click casts a ray through a screen point and dispatches the hotspot hit.
func (c *Controller) click(x, y, width, height float64) (scene.Action, bool) {
	if width <= 0 || height <= 0 {
		return scene.Action{}, false
	}
	nx, ny := scene.ScreenToNDC(x, y, width, height)
	hit, ok := c.scene.Raycast(nx, ny)
	if !ok {
		return scene.Action{}, false
	}
	action := hit.Object.Hotspot.Action
	log.Info("hotspot clicked", "hotspot", hit.Object.Name, "url", action.URL)
	c.status.Open(action)
	return action, true
}

func (c *Controller) tracking() ModelState {
	switch {
	case c.pending != nil:
		return StateLoading
	case c.active != nil:
		return c.active.State
	case len(c.models) > 0:
		return StateDetached
	default:
		return StateAbsent
	}
}

func (c *Controller) snapshotInfo() Info {
	return Info{
		Presence:        c.presence.State(c.config.StableThreshold, c.config.LostThreshold),
		Visible:         c.presence.Visible,
		Lost:            c.presence.Lost,
		Payload:         c.lastPayload,
		Tracking:        c.tracking(),
		Models:          len(c.models),
		CameraReady:     c.cameraReady,
		ControlsVisible: c.controls,
		DecodeErrors:    c.decodeErrors,
	}
}

// publish stores the current Info and forwards changes to the status sink.
func (c *Controller) publish() {
	info := c.snapshotInfo()
	if prev := c.info.Load(); prev != nil && *prev == info {
		return
	}
	c.info.Store(&info)
	c.status.SetInfo(info)
}

// Info returns the most recently published state. Safe for concurrent use.
func (c *Controller) Info() Info {
	return *c.info.Load()
}

type nopRenderer struct{}

func (nopRenderer) Render(scene.Snapshot) error { return nil }

// NopStatus discards status updates.
type NopStatus struct{}

func (NopStatus) SetMessage(string) {}
func (NopStatus) SetLoading(bool) {}
func (NopStatus) SetControlsVisible(bool) {}
func (NopStatus) SetInfo(Info) {}
func (NopStatus) Open(scene.Action) {}
