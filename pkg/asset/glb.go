package asset

import (
	"encoding/binary"
	"fmt"
)

// glTF binary container header.
const (
	glbMagic      = 0x46546C67 // "glTF" little-endian
	glbVersion    = 2
	glbHeaderSize = 12
)

// Header is the 12-byte GLB header.
type Header struct {
	Magic   uint32
	Version uint32
	Length  uint32
}

// ParseHeader validates the GLB header of data.
// The declared length must match the payload size.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < glbHeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes is shorter than the header", ErrInvalidGLB, len(data))
	}

	h := Header{
		Magic:   binary.LittleEndian.Uint32(data[0:4]),
		Version: binary.LittleEndian.Uint32(data[4:8]),
		Length:  binary.LittleEndian.Uint32(data[8:12]),
	}

	if h.Magic != glbMagic {
		return h, fmt.Errorf("%w: bad magic 0x%08x", ErrInvalidGLB, h.Magic)
	}
	if h.Version != glbVersion {
		return h, fmt.Errorf("%w: version %d", ErrUnsupported, h.Version)
	}
	if int(h.Length) != len(data) {
		return h, fmt.Errorf("%w: header length %d, got %d bytes", ErrInvalidGLB, h.Length, len(data))
	}
	return h, nil
}
