package asset

import (
	"errors"
	"fmt"
)

// Sentinel errors for asset loading.
var (
	ErrLoad        = errors.New("asset: load failed")
	ErrInvalidGLB  = errors.New("asset: invalid glTF binary")
	ErrCancelled   = errors.New("asset: load cancelled")
	ErrEmptyID     = errors.New("asset: empty model id")
	ErrUnsupported = errors.New("asset: unsupported glTF version")
)

// LoadError reports a failed model load.
type LoadError struct {
	ID  string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("model %q: %v", e.ID, e.Err)
}

// Unwrap lets errors.Is match both ErrLoad and the cause.
func (e *LoadError) Unwrap() []error {
	return []error{ErrLoad, e.Err}
}
