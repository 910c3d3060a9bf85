// Package capture implements camera.Source on top of OpenCV's VideoCapture.
package capture

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/teslashibe/go-qranchor/internal/log"
	"github.com/teslashibe/go-qranchor/pkg/camera"
	"gocv.io/x/gocv"
)

// Device indices used when no explicit device is configured.
const (
	BackDevice  = 0
	FrontDevice = 1
)

// readBackoff is the pause after a failed grab before trying again.
const readBackoff = 10 * time.Millisecond

// Source grabs frames continuously in a background goroutine and keeps the
// most recent one; ReadRGBA converts that frame on demand.
type Source struct {
	cfgMu sync.Mutex
	cfg   camera.Config

	mu     sync.Mutex // Protects latest, rgba, width, height
	latest gocv.Mat
	rgba   gocv.Mat
	width  int
	height int

	vc     *gocv.VideoCapture
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a capture source; nothing is opened until Open.
func New(cfg camera.Config) *Source {
	return &Source{cfg: cfg}
}

// Configure replaces the settings used by the next Open.
func (s *Source) Configure(cfg camera.Config) {
	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()
}

// device resolves the configured device into an OpenVideoCapture argument.
func device(cfg camera.Config) interface{} {
	if cfg.Device != "" {
		if idx, err := strconv.Atoi(cfg.Device); err == nil {
			return idx
		}
		return cfg.Device
	}
	if cfg.FacingMode == camera.FacingUser {
		return FrontDevice
	}
	return BackDevice
}

// Open starts capturing. It blocks until the first frame arrives so that a
// device which opens but never delivers frames is reported as an error.
func (s *Source) Open(ctx context.Context) error {
	s.Close()

	s.cfgMu.Lock()
	cfg := s.cfg
	s.cfgMu.Unlock()

	dev := device(cfg)
	name := fmt.Sprint(dev)

	vc, err := gocv.OpenVideoCapture(dev)
	if err != nil {
		return &camera.AcquisitionError{Device: name, Err: err}
	}
	if !vc.IsOpened() {
		vc.Close()
		return &camera.AcquisitionError{Device: name, Err: fmt.Errorf("device did not open")}
	}

	vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	vc.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))
	if cfg.Brightness != 0 {
		vc.Set(gocv.VideoCaptureBrightness, cfg.Brightness)
	}
	if cfg.ZoomLevel > 1 {
		vc.Set(gocv.VideoCaptureZoom, cfg.ZoomLevel)
	}
	if cfg.AutoFocus {
		vc.Set(gocv.VideoCaptureAutoFocus, 1)
	}

	first := gocv.NewMat()
	if ok := vc.Read(&first); !ok || first.Empty() {
		first.Close()
		vc.Close()
		return &camera.AcquisitionError{Device: name, Err: camera.ErrNoFrame}
	}

	s.mu.Lock()
	s.latest = first
	s.rgba = gocv.NewMat()
	s.width, s.height = first.Cols(), first.Rows()
	w, h := s.width, s.height
	s.mu.Unlock()

	loopCtx, cancel := context.WithCancel(ctx)
	s.vc = vc
	s.cancel = cancel
	s.wg.Add(1)
	go s.loop(loopCtx)

	log.Info("camera opened", "device", name, "width", w, "height", h)
	return nil
}

func (s *Source) loop(ctx context.Context) {
	defer s.wg.Done()

	frame := gocv.NewMat()
	defer frame.Close()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if ok := s.vc.Read(&frame); !ok || frame.Empty() {
			time.Sleep(readBackoff)
			continue
		}

		s.mu.Lock()
		s.latest, frame = frame, s.latest
		s.width, s.height = s.latest.Cols(), s.latest.Rows()
		s.mu.Unlock()
	}
}

// Dimensions reports the size of the latest frame, or zeros when closed.
func (s *Source) Dimensions() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// ReadRGBA converts the latest frame into dst.
func (s *Source) ReadRGBA(dst []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.width == 0 || s.latest.Empty() {
		return camera.ErrNoFrame
	}

	gocv.CvtColor(s.latest, &s.rgba, gocv.ColorBGRToRGBA)
	pix := s.rgba.ToBytes()
	if len(pix) != len(dst) {
		return fmt.Errorf("%w: have %d bytes, frame is %d", camera.ErrFrameSize, len(dst), len(pix))
	}
	copy(dst, pix)
	return nil
}

// Close stops capturing and releases the device. It is safe to call more than once.
func (s *Source) Close() error {
	if s.cancel != nil {
		s.cancel()
		s.wg.Wait()
		s.cancel = nil
	}

	var err error
	if s.vc != nil {
		err = s.vc.Close()
		s.vc = nil
	}

	s.mu.Lock()
	if s.width != 0 {
		s.latest.Close()
		s.rgba.Close()
	}
	s.width, s.height = 0, 0
	s.mu.Unlock()

	return err
}
