// Package qr defines QR code observations and the decoder interface used by
// the anchor controller. The OpenCV-backed decoder lives in qr/detect.
package qr

import (
	"fmt"
)

// Point is a position in frame pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Location holds the four corners of a decoded symbol.
type Location struct {
	TopLeft     Point `json:"top_left"`
	TopRight    Point `json:"top_right"`
	BottomRight Point `json:"bottom_right"`
	BottomLeft  Point `json:"bottom_left"`
}

// Center returns the mean of the four corners.
func (l Location) Center() Point {
	return Point{
		X: (l.TopLeft.X + l.TopRight.X + l.BottomRight.X + l.BottomLeft.X) / 4,
		Y: (l.TopLeft.Y + l.TopRight.Y + l.BottomRight.Y + l.BottomLeft.Y) / 4,
	}
}

// Code is a decoded QR symbol.
type Code struct {
	Data     string   `json:"data"`
	Location Location `json:"location"`
}

// Observation is one successful decode for a single frame.
type Observation struct {
	Data        string   `json:"data"`
	Center      Point    `json:"center"`
	Location    Location `json:"location"`
	FrameWidth  int      `json:"frame_width"`
	FrameHeight int      `json:"frame_height"`
}

// Observe turns a decode result into an observation. It returns nil when
// code is nil, which the controller treats as a miss.
func Observe(code *Code, width, height int) *Observation {
	if code == nil {
		return nil
	}
	return &Observation{
		Data:        code.Data,
		Center:      code.Location.Center(),
		Location:    code.Location,
		FrameWidth:  width,
		FrameHeight: height,
	}
}

func (o *Observation) String() string {
	return fmt.Sprintf("%q at (%.0f, %.0f) in %dx%d", o.Data, o.Center.X, o.Center.Y, o.FrameWidth, o.FrameHeight)
}

// Decoder finds a QR code in an RGBA pixel buffer.
type Decoder interface {
	// Decode returns nil, nil when no code is present.
	Decode(pix []byte, width, height int) (*Code, error)

	// Close releases resources
	Close() error
}

// SafeDecode calls d.Decode and converts a panic into ErrDecode so a bad
// frame never stops the polling loop.
func SafeDecode(d Decoder, pix []byte, width, height int) (code *Code, err error) {
	defer func() {
		if r := recover(); r != nil {
			code = nil
			err = fmt.Errorf("%w: %v", ErrDecode, r)
		}
	}()
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: buffer is %d bytes, want %d", ErrDecode, len(pix), width*height*4)
	}
	return d.Decode(pix, width, height)
}
