package qr

import (
	"errors"
	"testing"
)

func TestLocation_Center(t *testing.T) {
	tests := []struct {
		name   string
		loc    Location
		expect Point
	}{
		{
			name: "axis aligned",
			loc: Location{
				TopLeft:     Point{X: 100, Y: 100},
				TopRight:    Point{X: 200, Y: 100},
				BottomRight: Point{X: 200, Y: 200},
				BottomLeft:  Point{X: 100, Y: 200},
			},
			expect: Point{X: 150, Y: 150},
		},
		{
			name: "rotated 45 degrees",
			loc: Location{
				TopLeft:     Point{X: 50, Y: 0},
				TopRight:    Point{X: 100, Y: 50},
				BottomRight: Point{X: 50, Y: 100},
				BottomLeft:  Point{X: 0, Y: 50},
			},
			expect: Point{X: 50, Y: 50},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.loc.Center()
			if got != tc.expect {
				t.Errorf("Center: got %+v, want %+v", got, tc.expect)
			}
		})
	}
}

func TestObserve(t *testing.T) {
	if obs := Observe(nil, 640, 480); obs != nil {
		t.Errorf("Observe(nil): got %+v, want nil", obs)
	}

	code := Hit("A", 320, 240).Code
	obs := Observe(code, 640, 480)
	if obs == nil {
		t.Fatal("Observe: expected observation")
	}
	if obs.Data != "A" {
		t.Errorf("Data: got %q, want %q", obs.Data, "A")
	}
	if obs.Center != (Point{X: 320, Y: 240}) {
		t.Errorf("Center: got %+v, want (320, 240)", obs.Center)
	}
	if obs.FrameWidth != 640 || obs.FrameHeight != 480 {
		t.Errorf("Frame: got %dx%d, want 640x480", obs.FrameWidth, obs.FrameHeight)
	}
}

func TestSafeDecode(t *testing.T) {
	pix := make([]byte, 4*2*4)

	t.Run("passes through result", func(t *testing.T) {
		m := NewMock(Hit("A", 1, 1))
		code, err := SafeDecode(m, pix, 4, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if code == nil || code.Data != "A" {
			t.Errorf("got %+v, want code A", code)
		}
	})

	t.Run("recovers panic", func(t *testing.T) {
		m := NewMock(MockResult{Panic: "boom"})
		code, err := SafeDecode(m, pix, 4, 2)
		if !errors.Is(err, ErrDecode) {
			t.Errorf("expected ErrDecode, got %v", err)
		}
		if code != nil {
			t.Errorf("expected nil code, got %+v", code)
		}
	})

	t.Run("rejects short buffer", func(t *testing.T) {
		m := NewMock()
		_, err := SafeDecode(m, pix[:3], 4, 2)
		if !errors.Is(err, ErrDecode) {
			t.Errorf("expected ErrDecode, got %v", err)
		}
		if m.Calls() != 0 {
			t.Errorf("decoder should not run on a bad buffer, ran %d times", m.Calls())
		}
	})
}

func TestMock_Exhausted(t *testing.T) {
	m := NewMock(Miss())
	for i := 0; i < 3; i++ {
		code, err := m.Decode(nil, 0, 0)
		if code != nil || err != nil {
			t.Errorf("call %d: got (%v, %v), want (nil, nil)", i, code, err)
		}
	}
	if m.Calls() != 3 {
		t.Errorf("Calls: got %d, want 3", m.Calls())
	}

	m.Close()
	if _, err := m.Decode(nil, 0, 0); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed after Close, got %v", err)
	}
}
