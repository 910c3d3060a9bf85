package camera

import (
	"errors"
	"fmt"
)

// Sentinel errors for frame acquisition.
var (
	// ErrAcquisition is wrapped by every AcquisitionError.
	ErrAcquisition = errors.New("camera: acquisition failed")

	// ErrNoFrame is returned by a Source that has no frame to read yet.
	ErrNoFrame = errors.New("camera: no frame available")

	// ErrFrameSize is returned when a destination buffer does not match the frame.
	ErrFrameSize = errors.New("camera: frame buffer size mismatch")

	// ErrNotOpen is returned when reading from a closed or unopened source.
	ErrNotOpen = errors.New("camera: source not open")
)

// AcquisitionError reports that the capture device could not be opened
// (missing device, permission denied, or no frames delivered).
type AcquisitionError struct {
	Device string
	Err    error
}

func (e *AcquisitionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("camera %q: %v", e.Device, e.Err)
	}
	return fmt.Sprintf("camera %q: acquisition failed", e.Device)
}

// Unwrap lets errors.Is match both ErrAcquisition and the cause.
func (e *AcquisitionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrAcquisition}
	}
	return []error{ErrAcquisition, e.Err}
}
