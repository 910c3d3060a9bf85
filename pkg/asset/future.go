package asset

import (
	"context"

	"github.com/teslashibe/go-qranchor/pkg/scene"
)

// Future is an asset load running in its own goroutine.
// Result is valid once Done is closed.
type Future struct {
	id     string
	done   chan struct{}
	cancel context.CancelFunc

	obj *scene.Object
	err error
}

// Go starts loading id with l.
func Go(ctx context.Context, l Loader, id string) *Future {
	ctx, cancel := context.WithCancel(ctx)
	f := &Future{
		id:     id,
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		defer close(f.done)
		defer cancel()

		obj, err := l.Load(ctx, id)
		if ctx.Err() != nil {
			// Superseded or shut down: drop whatever the loader produced
			obj, err = nil, &LoadError{ID: id, Err: ErrCancelled}
		}
		f.obj, f.err = obj, err
	}()

	return f
}

// ID returns the model id being loaded.
func (f *Future) ID() string {
	return f.id
}

// Done is closed when the load has finished, failed or been cancelled.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result returns the loaded object. It must only be called after Done.
func (f *Future) Result() (*scene.Object, error) {
	return f.obj, f.err
}

// Cancel aborts the load. Done is still closed afterwards.
func (f *Future) Cancel() {
	f.cancel()
}
