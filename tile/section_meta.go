package tile

import (
	"encoding/binary"
	"fmt"

	"github.com/fenwick-studio/worldstore/ids"
)

// metaSectionVersion is the section_version META records are encoded at.
const metaSectionVersion uint16 = 1

// Meta is the decoded META section payload: it mirrors the enclosing
// header's tile identity so a tile remains self-describing even if read
// out of its expected directory location.
type Meta struct {
	FormatVersion    uint32
	TileID           ids.TileID
	RegionHash       uint64
	CreatedTimestamp uint64
}

// EncodeMeta serializes a Meta payload.
func EncodeMeta(m Meta) []byte {
	out := make([]byte, 0, 32)
	out = append(out, le16(metaSectionVersion)...)
	out = append(out, le16(0)...) // reserved
	out = append(out, le32(uint32(m.TileID.Coord.X))...)
	out = append(out, le32(uint32(m.TileID.Coord.Y))...)
	out = append(out, le64(m.RegionHash)...)
	out = append(out, le32(m.FormatVersion)...)
	out = append(out, le64(m.CreatedTimestamp)...)
	return out
}

// DecodeMeta parses a META section payload.
func DecodeMeta(b []byte) (Meta, error) {
	if len(b) < 32 {
		return Meta{}, fmt.Errorf("%w: META section is %d bytes, want >= 32", ErrDecodeFailure, len(b))
	}
	version := binary.LittleEndian.Uint16(b[0:2])
	if version != metaSectionVersion {
		return Meta{}, fmt.Errorf("%w: unsupported META version %d", ErrDecodeFailure, version)
	}
	tileX := int32(binary.LittleEndian.Uint32(b[4:8]))
	tileY := int32(binary.LittleEndian.Uint32(b[8:12]))
	regionHash := binary.LittleEndian.Uint64(b[12:20])
	formatVersion := binary.LittleEndian.Uint32(b[20:24])
	createdTimestamp := binary.LittleEndian.Uint64(b[24:32])
	return Meta{
		FormatVersion:    formatVersion,
		TileID:           ids.NewTileID(tileX, tileY),
		RegionHash:       regionHash,
		CreatedTimestamp: createdTimestamp,
	}, nil
}

func le16(v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return b[:]
}

func le32(v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return b[:]
}

func le64(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}
