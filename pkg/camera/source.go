package camera

import (
	"context"
	"fmt"

	"github.com/teslashibe/go-qranchor/pkg/debug"
)

// Source is a live camera stream.
// Dimensions reports the native frame size, or zeros until the first frame
// arrives. ReadRGBA fills dst (len w*h*4) with the latest frame.
type Source interface {
	Open(ctx context.Context) error
	Dimensions() (width, height int)
	ReadRGBA(dst []byte) error
	Close() error
}

// Frame is one RGBA frame read by the Poller.
// Pix is owned by the Poller and reused on the next poll.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

// Poller reads frames from a Source into a reusable RGBA buffer.
// It is not safe for concurrent use; the anchor controller owns it.
type Poller struct {
	src   Source
	frame Frame
}

// NewPoller creates a poller reading from src.
func NewPoller(src Source) *Poller {
	return &Poller{src: src}
}

// Poll reads the current frame.
// It returns ok=false without error when the source has no valid
// dimensions yet. The buffer is reallocated only when the size changes.
func (p *Poller) Poll() (*Frame, bool, error) {
	if p.src == nil {
		return nil, false, nil
	}

	w, h := p.src.Dimensions()
	if w <= 0 || h <= 0 {
		return nil, false, nil
	}

	if p.frame.Width != w || p.frame.Height != h {
		debug.Log("camera: frame size %dx%d -> %dx%d", p.frame.Width, p.frame.Height, w, h)
		p.frame = Frame{Width: w, Height: h, Pix: make([]byte, w*h*4)}
	}

	if err := p.src.ReadRGBA(p.frame.Pix); err != nil {
		return nil, false, fmt.Errorf("camera: read frame: %w", err)
	}
	return &p.frame, true, nil
}

// Reset drops the cached buffer so the next Poll reallocates.
func (p *Poller) Reset() {
	p.frame = Frame{}
}
