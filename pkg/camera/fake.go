package camera

import (
	"context"
	"sync"
)

// Fake is an in-memory Source for tests and demos.
// Frames are filled with a single gray level so callers can tell reads apart.
type Fake struct {
	mu      sync.Mutex
	width   int
	height  int
	open    bool
	OpenErr error         // returned by Open when set
	ReadErr error         // returned by ReadRGBA when set
	Gate    chan struct{} // Open waits for a receive or close when set
	Level   byte
	Opens   int
	Reads   int
}

// NewFake creates a fake source that reports w x h once opened.
func NewFake(w, h int) *Fake {
	return &Fake{width: w, height: h}
}

func (f *Fake) Open(ctx context.Context) error {
	if f.Gate != nil {
		select {
		case <-f.Gate:
		case <-ctx.Done():
			return &AcquisitionError{Device: "fake", Err: ctx.Err()}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.Opens++
	if f.OpenErr != nil {
		return &AcquisitionError{Device: "fake", Err: f.OpenErr}
	}
	f.open = true
	return nil
}

// Resize changes the reported frame size.
func (f *Fake) Resize(w, h int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.width, f.height = w, h
}

func (f *Fake) Dimensions() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return 0, 0
	}
	return f.width, f.height
}

func (f *Fake) ReadRGBA(dst []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return ErrNotOpen
	}
	if f.ReadErr != nil {
		return f.ReadErr
	}
	if len(dst) != f.width*f.height*4 {
		return ErrFrameSize
	}
	for i := range dst {
		dst[i] = f.Level
	}
	f.Reads++
	return nil
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
	return nil
}
