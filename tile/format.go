// Package tile implements the binary per-tile container format: a fixed
// header, a tag-addressed CRC-protected section directory, and the
// section payload codecs layered on top of it.
package tile

import (
	"encoding/binary"
	"fmt"
)

// Magic is the 4-byte container signature.
var Magic = [4]byte{'T', 'I', 'L', 'E'}

const (
	// ContainerVersion is the version this build writes.
	ContainerVersion uint16 = 1
	// MinContainerVersion is the oldest version this build can still read.
	MinContainerVersion uint16 = 1
	// EndianLittle is the only endianness marker this format supports.
	EndianLittle uint16 = 1
	// HeaderSize is the fixed on-disk header size in bytes.
	HeaderSize = 128
	// DirEntrySize is the fixed on-disk size of one directory entry.
	DirEntrySize = 64
	// MaxSectionCount bounds the section directory length.
	MaxSectionCount uint32 = 256
	// Alignment is the required byte alignment of every section offset.
	Alignment uint64 = 64
)

// SectionTag is a 4-byte ASCII FourCC stored as a little-endian uint32.
type SectionTag uint32

// The closed set of section tags a container is allowed to carry.
var (
	TagMETA = TagFromString("META")
	TagHMAP = TagFromString("HMAP")
	TagWMAP = TagFromString("WMAP")
	TagLIQD = TagFromString("LIQD")
	TagPROP = TagFromString("PROP")
	TagSPLN = TagFromString("SPLN")
	TagADDX = TagFromString("ADDX")
)

// TagFromString builds a SectionTag from a 4-character ASCII string.
func TagFromString(s string) SectionTag {
	if len(s) != 4 {
		panic(fmt.Sprintf("section tag %q is not 4 bytes", s))
	}
	return SectionTag(binary.LittleEndian.Uint32([]byte(s)))
}

// Bytes returns the FourCC as its 4 raw bytes.
func (t SectionTag) Bytes() [4]byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(t))
	return b
}

// String renders the tag as its 4-character form, lossily if non-ASCII.
func (t SectionTag) String() string {
	b := t.Bytes()
	return string(b[:])
}

// IsASCIITag reports whether every byte of the tag is an ASCII uppercase
// letter, digit, or underscore (checked by the validator's directory pass).
func (t SectionTag) IsASCIITag() bool {
	b := t.Bytes()
	for _, c := range b {
		upper := c >= 'A' && c <= 'Z'
		digit := c >= '0' && c <= '9'
		if !upper && !digit && c != '_' {
			return false
		}
	}
	return true
}

// canonicalRank orders the closed tag set for the on-disk canonical
// section order: META, HMAP, WMAP, LIQD, PROP, SPLN, ADDX,
// then any unknown tag sorted by raw tag value.
func canonicalRank(t SectionTag) int {
	switch t {
	case TagMETA:
		return 0
	case TagHMAP:
		return 1
	case TagWMAP:
		return 2
	case TagLIQD:
		return 3
	case TagPROP:
		return 4
	case TagSPLN:
		return 5
	case TagADDX:
		return 6
	default:
		return 7
	}
}

// CompareTags orders two tags per the canonical section order.
func CompareTags(a, b SectionTag) int {
	ra, rb := canonicalRank(a), canonicalRank(b)
	if ra != rb {
		return ra - rb
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Header is the fixed 128-byte container header.
type Header struct {
	ContainerVersion uint16
	Flags            uint32
	TileX            int32
	TileY            int32
	RegionHash       uint64
	WorldSpecHash    uint64
	SectionCount     uint32
	SectionDirOffset uint64
	CreatedTimestamp uint64
}

// ToBytes encodes the header into its fixed 128-byte on-disk form.
func (h Header) ToBytes() [HeaderSize]byte {
	var b [HeaderSize]byte
	copy(b[0:4], Magic[:])
	binary.LittleEndian.PutUint16(b[4:6], h.ContainerVersion)
	binary.LittleEndian.PutUint16(b[6:8], EndianLittle)
	binary.LittleEndian.PutUint32(b[8:12], h.Flags)
	binary.LittleEndian.PutUint32(b[12:16], uint32(h.TileX))
	binary.LittleEndian.PutUint32(b[16:20], uint32(h.TileY))
	binary.LittleEndian.PutUint64(b[20:28], h.RegionHash)
	binary.LittleEndian.PutUint64(b[28:36], h.WorldSpecHash)
	binary.LittleEndian.PutUint32(b[36:40], h.SectionCount)
	binary.LittleEndian.PutUint64(b[40:48], h.SectionDirOffset)
	binary.LittleEndian.PutUint64(b[48:56], h.CreatedTimestamp)
	// bytes 56..128 are reserved and stay zero.
	return b
}

// HeaderFromBytes parses a Header from its fixed on-disk form.
func HeaderFromBytes(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: header is %d bytes, want %d", ErrInvalidMagic, len(b), HeaderSize)
	}
	if string(b[0:4]) != string(Magic[:]) {
		return Header{}, ErrInvalidMagic
	}
	endian := binary.LittleEndian.Uint16(b[6:8])
	if endian != EndianLittle {
		return Header{}, fmt.Errorf("%w: marker %d", ErrUnsupportedEndian, endian)
	}
	h := Header{
		ContainerVersion: binary.LittleEndian.Uint16(b[4:6]),
		Flags:            binary.LittleEndian.Uint32(b[8:12]),
		TileX:            int32(binary.LittleEndian.Uint32(b[12:16])),
		TileY:            int32(binary.LittleEndian.Uint32(b[16:20])),
		RegionHash:       binary.LittleEndian.Uint64(b[20:28]),
		WorldSpecHash:    binary.LittleEndian.Uint64(b[28:36]),
		SectionCount:     binary.LittleEndian.Uint32(b[36:40]),
		SectionDirOffset: binary.LittleEndian.Uint64(b[40:48]),
		CreatedTimestamp: binary.LittleEndian.Uint64(b[48:56]),
	}
	if h.SectionCount > MaxSectionCount {
		return Header{}, fmt.Errorf("%w: %d", ErrSectionCountExceedsCap, h.SectionCount)
	}
	return h, nil
}

// DirEntry is one 64-byte section directory entry.
type DirEntry struct {
	Tag            SectionTag
	SectionVersion uint16
	Codec          uint16
	Flags          uint32
	Offset         uint64
	StoredLen      uint64
	DecodedLen     uint64
	CRC32          uint32
}

// ToBytes encodes the entry into its fixed 64-byte on-disk form.
func (e DirEntry) ToBytes() [DirEntrySize]byte {
	var b [DirEntrySize]byte
	binary.LittleEndian.PutUint32(b[0:4], uint32(e.Tag))
	binary.LittleEndian.PutUint16(b[4:6], e.SectionVersion)
	binary.LittleEndian.PutUint16(b[6:8], e.Codec)
	binary.LittleEndian.PutUint32(b[8:12], e.Flags)
	binary.LittleEndian.PutUint64(b[12:20], e.Offset)
	binary.LittleEndian.PutUint64(b[20:28], e.StoredLen)
	binary.LittleEndian.PutUint64(b[28:36], e.DecodedLen)
	binary.LittleEndian.PutUint32(b[36:40], e.CRC32)
	// bytes 40..64 are reserved and stay zero.
	return b
}

// DirEntryFromBytes parses one directory entry from its fixed on-disk form.
func DirEntryFromBytes(b []byte) (DirEntry, error) {
	if len(b) < DirEntrySize {
		return DirEntry{}, fmt.Errorf("directory entry is %d bytes, want %d", len(b), DirEntrySize)
	}
	return DirEntry{
		Tag:            SectionTag(binary.LittleEndian.Uint32(b[0:4])),
		SectionVersion: binary.LittleEndian.Uint16(b[4:6]),
		Codec:          binary.LittleEndian.Uint16(b[6:8]),
		Flags:          binary.LittleEndian.Uint32(b[8:12]),
		Offset:         binary.LittleEndian.Uint64(b[12:20]),
		StoredLen:      binary.LittleEndian.Uint64(b[20:28]),
		DecodedLen:     binary.LittleEndian.Uint64(b[28:36]),
		CRC32:          binary.LittleEndian.Uint32(b[36:40]),
	}, nil
}

// AlignmentPadding returns how many zero bytes must follow offset so that
// the next write starts on an alignment boundary.
func AlignmentPadding(offset, alignment uint64) uint64 {
	remainder := offset % alignment
	if remainder == 0 {
		return 0
	}
	return alignment - remainder
}
