// Package detect provides a QR decoder backed by OpenCV's QRCodeDetector.
package detect

import (
	"fmt"
	"sync"

	"github.com/teslashibe/go-qranchor/pkg/debug"
	"github.com/teslashibe/go-qranchor/pkg/qr"
	"gocv.io/x/gocv"
)

// Detector decodes QR codes with gocv.QRCodeDetector.
type Detector struct {
	detector gocv.QRCodeDetector
	mu       sync.Mutex // Protects detector
	closed   bool
}

// New creates an OpenCV QR decoder.
func New() *Detector {
	return &Detector{detector: gocv.NewQRCodeDetector()}
}

// Decode implements qr.Decoder for an RGBA buffer of width x height pixels.
func (d *Detector) Decode(pix []byte, width, height int) (*qr.Code, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, qr.ErrClosed
	}

	rgba, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC4, pix)
	if err != nil {
		return nil, fmt.Errorf("%w: wrap frame: %v", qr.ErrDecode, err)
	}
	defer rgba.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(rgba, &gray, gocv.ColorRGBAToGray)

	points := gocv.NewMat()
	defer points.Close()
	straight := gocv.NewMat()
	defer straight.Close()

	data := d.detector.DetectAndDecode(gray, &points, &straight)
	if data == "" {
		return nil, nil
	}

	loc, err := corners(points)
	if err != nil {
		return nil, err
	}

	debug.PollLog("qr: decoded %q", data)
	return &qr.Code{Data: data, Location: loc}, nil
}

// corners reads the four symbol corners OpenCV reports in the order
// top-left, top-right, bottom-right, bottom-left.
func corners(points gocv.Mat) (qr.Location, error) {
	if points.Empty() {
		return qr.Location{}, fmt.Errorf("%w: no corner points", qr.ErrDecode)
	}
	vals, err := points.DataPtrFloat32()
	if err != nil {
		return qr.Location{}, fmt.Errorf("%w: corner points: %v", qr.ErrDecode, err)
	}
	if len(vals) < 8 {
		return qr.Location{}, fmt.Errorf("%w: got %d corner values, want 8", qr.ErrDecode, len(vals))
	}
	pt := func(i int) qr.Point {
		return qr.Point{X: float64(vals[2*i]), Y: float64(vals[2*i+1])}
	}
	return qr.Location{
		TopLeft:     pt(0),
		TopRight:    pt(1),
		BottomRight: pt(2),
		BottomLeft:  pt(3),
	}, nil
}

// Close releases the detector resources.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.detector.Close()
}
