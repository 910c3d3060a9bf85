package asset

import (
	"context"
	"sync"

	"github.com/teslashibe/go-qranchor/pkg/scene"
)

// Mock is a scripted Loader for tests.
// Ids listed in Errors fail; all others succeed. When Gate is non-nil,
// loads block until it is closed or the context ends.
type Mock struct {
	mu     sync.Mutex
	Errors map[string]error
	Gate   chan struct{}
	calls  []string
}

// NewMock creates a loader where every id succeeds.
func NewMock() *Mock {
	return &Mock{Errors: make(map[string]error)}
}

func (m *Mock) Load(ctx context.Context, id string) (*scene.Object, error) {
	m.mu.Lock()
	m.calls = append(m.calls, id)
	gate := m.Gate
	err := m.Errors[id]
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, &LoadError{ID: id, Err: ctx.Err()}
		}
	}

	if err != nil {
		return nil, &LoadError{ID: id, Err: err}
	}
	return scene.NewObject(id, DefaultURLPrefix+"/"+id+".glb"), nil
}

// Calls returns the ids requested so far.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
