package tile

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// Codec identifies how a section's stored bytes relate to its decoded
// payload.
type Codec uint16

const (
	// CodecRaw stores decoded bytes unchanged; CRC-32 covers them directly.
	CodecRaw Codec = 0
	// CodecLZ4 runs the payload through an LZ4 block compressor. stored_len
	// is the compressed length, decoded_len the uncompressed length, and
	// CRC-32 is computed over the stored (compressed) bytes so a corrupted
	// stream is caught before decompression is attempted.
	CodecLZ4 Codec = 1
)

// encodeCodec compresses decoded per codec, returning the bytes to store.
func encodeCodec(codec Codec, decoded []byte) ([]byte, error) {
	switch codec {
	case CodecRaw:
		return decoded, nil
	case CodecLZ4:
		var c lz4.Compressor
		buf := make([]byte, lz4.CompressBlockBound(len(decoded)))
		n, err := c.CompressBlock(decoded, buf)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if n == 0 || n >= len(decoded) {
			// A result of 0, or one no shorter than the input, means the
			// payload did not compress. There is no raw fallback under the same codec
			// id, since decode needs to know which path was taken; callers
			// must not request LZ4 for inputs this can happen with and
			// should use CodecRaw instead.
			return nil, fmt.Errorf("%w: payload of %d bytes did not compress", ErrDecodeFailure, len(decoded))
		}
		return buf[:n], nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCodec, codec)
	}
}

// decodeCodec reverses encodeCodec given the declared decoded length.
func decodeCodec(codec Codec, stored []byte, decodedLen uint64) ([]byte, error) {
	switch codec {
	case CodecRaw:
		return stored, nil
	case CodecLZ4:
		dst := make([]byte, decodedLen)
		n, err := lz4.UncompressBlock(stored, dst)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4 decompress: %v", ErrDecodeFailure, err)
		}
		return dst[:n], nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCodec, codec)
	}
}
