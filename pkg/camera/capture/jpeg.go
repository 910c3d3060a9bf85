package capture

import (
	"fmt"

	"github.com/teslashibe/go-qranchor/pkg/camera"
	"gocv.io/x/gocv"
)

// EncodeJPEG compresses an RGBA frame for the browser preview stream.
func EncodeJPEG(frame *camera.Frame, quality int) ([]byte, error) {
	if frame == nil || len(frame.Pix) != frame.Width*frame.Height*4 {
		return nil, camera.ErrFrameSize
	}

	rgba, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC4, frame.Pix)
	if err != nil {
		return nil, fmt.Errorf("camera: wrap frame: %w", err)
	}
	defer rgba.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR)

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, bgr, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, fmt.Errorf("camera: encode jpeg: %w", err)
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}
