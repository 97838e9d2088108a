package tile

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// writeString appends a u16 length-prefixed UTF-8 string, as PROP records
// use for asset_namespace and asset_name.
func writeString(out []byte, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("%w: string is not valid UTF-8", ErrDecodeFailure)
	}
	if len(s) > 65535 {
		return nil, fmt.Errorf("%w: string of %d bytes exceeds 65535", ErrDecodeFailure, len(s))
	}
	var lenBytes [2]byte
	binary.LittleEndian.PutUint16(lenBytes[:], uint16(len(s)))
	out = append(out, lenBytes[:]...)
	out = append(out, s...)
	return out, nil
}

// readString reads a u16 length-prefixed UTF-8 string starting at offset,
// returning the string and the number of bytes consumed.
func readString(b []byte, offset int) (string, int, error) {
	if len(b) < offset+2 {
		return "", 0, fmt.Errorf("%w: string length truncated", ErrDecodeFailure)
	}
	n := int(binary.LittleEndian.Uint16(b[offset : offset+2]))
	start := offset + 2
	if len(b) < start+n {
		return "", 0, fmt.Errorf("%w: string data truncated", ErrDecodeFailure)
	}
	s := string(b[start : start+n])
	if !utf8.ValidString(s) {
		return "", 0, fmt.Errorf("%w: string is not valid UTF-8", ErrDecodeFailure)
	}
	return s, 2 + n, nil
}
