package tile

import (
	"encoding/binary"
	"fmt"
)

const wmapSectionVersion uint16 = 1

// Wmap is the decoded WMAP section: a width*height*layers grid of u8
// blend weights.
type Wmap struct {
	Width   uint16
	Height  uint16
	Layers  uint16
	Weights []byte
}

// EncodeWmap serializes a Wmap payload.
func EncodeWmap(w Wmap) []byte {
	out := make([]byte, 0, 12+len(w.Weights))
	out = append(out, le16(wmapSectionVersion)...)
	out = append(out, le16(0)...)
	out = append(out, le16(w.Width)...)
	out = append(out, le16(w.Height)...)
	out = append(out, le16(w.Layers)...)
	out = append(out, le16(0)...) // reserved
	out = append(out, w.Weights...)
	return out
}

// DecodeWmap parses a WMAP section payload.
func DecodeWmap(b []byte) (Wmap, error) {
	if len(b) < 12 {
		return Wmap{}, fmt.Errorf("%w: WMAP section is %d bytes, want >= 12", ErrDecodeFailure, len(b))
	}
	version := binary.LittleEndian.Uint16(b[0:2])
	if version != wmapSectionVersion {
		return Wmap{}, fmt.Errorf("%w: unsupported WMAP version %d", ErrDecodeFailure, version)
	}
	width := binary.LittleEndian.Uint16(b[4:6])
	height := binary.LittleEndian.Uint16(b[6:8])
	layers := binary.LittleEndian.Uint16(b[8:10])
	expected := int(width) * int(height) * int(layers)
	weights := append([]byte(nil), b[12:]...)
	if len(weights) != expected {
		return Wmap{}, fmt.Errorf("%w: WMAP weight count mismatch, got %d want %d", ErrDecodeFailure, len(weights), expected)
	}
	return Wmap{Width: width, Height: height, Layers: layers, Weights: weights}, nil
}
