package tile

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestEncodeDecodeCodecRaw(t *testing.T) {
	decoded := []byte("some decoded section bytes")
	stored, err := encodeCodec(CodecRaw, decoded)
	if err != nil {
		t.Fatalf("encodeCodec: %v", err)
	}
	got, err := decodeCodec(CodecRaw, stored, uint64(len(decoded)))
	if err != nil {
		t.Fatalf("decodeCodec: %v", err)
	}
	if !bytes.Equal(got, decoded) {
		t.Fatalf("round trip mismatch: got %v, want %v", got, decoded)
	}
}

func TestEncodeDecodeCodecLZ4(t *testing.T) {
	decoded := bytes.Repeat([]byte("abcdefgh"), 512)
	stored, err := encodeCodec(CodecLZ4, decoded)
	if err != nil {
		t.Fatalf("encodeCodec: %v", err)
	}
	if len(stored) >= len(decoded) {
		t.Fatalf("expected compression to shrink a repetitive payload: stored %d, decoded %d", len(stored), len(decoded))
	}
	got, err := decodeCodec(CodecLZ4, stored, uint64(len(decoded)))
	if err != nil {
		t.Fatalf("decodeCodec: %v", err)
	}
	if !bytes.Equal(got, decoded) {
		t.Fatalf("round trip mismatch")
	}
}

func TestEncodeCodecLZ4RejectsIncompressiblePayload(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	decoded := make([]byte, 32)
	r.Read(decoded)
	if _, err := encodeCodec(CodecLZ4, decoded); err == nil {
		t.Fatal("expected an error for a payload too small/random to compress")
	}
}

func TestEncodeCodecRejectsUnknownCodec(t *testing.T) {
	if _, err := encodeCodec(Codec(99), []byte("x")); err == nil {
		t.Fatal("expected an unknown-codec error")
	}
}
