package qr

import "errors"

var (
	// ErrDecode is returned when the decoder fails on a frame.
	ErrDecode = errors.New("qr: decode failed")

	// ErrClosed is returned when decoding with a closed decoder.
	ErrClosed = errors.New("qr: decoder closed")
)
