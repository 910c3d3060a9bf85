package qr

import (
	"sync"
)

// Mock is a scripted Decoder for tests. Each Decode call consumes the next
// scripted result; once exhausted it reports no code.
type Mock struct {
	mu      sync.Mutex
	results []MockResult
	calls   int
	closed  bool
}

// MockResult is one scripted Decode outcome.
type MockResult struct {
	Code  *Code
	Err   error
	Panic any
}

// NewMock creates a decoder returning results in order.
func NewMock(results ...MockResult) *Mock {
	return &Mock{results: results}
}

// Hit is a scripted result containing a code with data centered at (x, y).
func Hit(data string, x, y float64) MockResult {
	const half = 20
	return MockResult{Code: &Code{
		Data: data,
		Location: Location{
			TopLeft:     Point{X: x - half, Y: y - half},
			TopRight:    Point{X: x + half, Y: y - half},
			BottomRight: Point{X: x + half, Y: y + half},
			BottomLeft:  Point{X: x - half, Y: y + half},
		},
	}}
}

// Miss is a scripted result with no code.
func Miss() MockResult {
	return MockResult{}
}

// Push appends more scripted results.
func (m *Mock) Push(results ...MockResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, results...)
}

// Decode implements Decoder.
func (m *Mock) Decode(pix []byte, width, height int) (*Code, error) {
	m.mu.Lock()
	m.calls++
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	if len(m.results) == 0 {
		m.mu.Unlock()
		return nil, nil
	}
	r := m.results[0]
	m.results = m.results[1:]
	m.mu.Unlock()

	if r.Panic != nil {
		panic(r.Panic)
	}
	return r.Code, r.Err
}

// Calls returns how many times Decode ran.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close implements Decoder.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
