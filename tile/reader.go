package tile

import (
	"fmt"
	"hash/crc32"
	"os"
)

// Reader holds a parsed container's header and directory, giving O(1)
// lookup by tag without re-parsing on every Section/DecodeSection call.
type Reader struct {
	Header  Header
	entries map[SectionTag]DirEntry
	order   []SectionTag
	data    []byte
}

// ReadTile loads and validates a container's header and directory.
// Section payloads are not decoded until DecodeSection is called.
func ReadTile(path string) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read container: %w", err)
	}
	return ParseTile(data)
}

// ParseTile parses an already-loaded container image.
func ParseTile(data []byte) (*Reader, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: container is %d bytes, want >= %d", ErrInvalidMagic, len(data), HeaderSize)
	}
	header, err := HeaderFromBytes(data[:HeaderSize])
	if err != nil {
		return nil, err
	}
	if header.ContainerVersion < MinContainerVersion || header.ContainerVersion > ContainerVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, header.ContainerVersion)
	}

	dirStart := header.SectionDirOffset
	dirLen := uint64(header.SectionCount) * DirEntrySize
	if dirStart < HeaderSize {
		return nil, fmt.Errorf("%w: directory offset %d precedes header", ErrDirectoryOutOfBounds, dirStart)
	}
	if dirStart > uint64(len(data)) || dirLen > uint64(len(data))-dirStart {
		return nil, fmt.Errorf("%w: directory at %d+%d exceeds container length %d", ErrDirectoryOutOfBounds, dirStart, dirLen, len(data))
	}

	entries := make(map[SectionTag]DirEntry, header.SectionCount)
	order := make([]SectionTag, 0, header.SectionCount)
	hasMeta := false

	for i := uint32(0); i < header.SectionCount; i++ {
		entryStart := dirStart + uint64(i)*DirEntrySize
		entry, err := DirEntryFromBytes(data[entryStart : entryStart+DirEntrySize])
		if err != nil {
			return nil, err
		}
		if _, dup := entries[entry.Tag]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTag, entry.Tag)
		}
		if entry.Tag == TagMETA {
			hasMeta = true
		}

		entries[entry.Tag] = entry
		order = append(order, entry.Tag)
	}

	if !hasMeta {
		return nil, ErrMissingMeta
	}

	return &Reader{Header: header, entries: entries, order: order, data: data}, nil
}

// Tags returns every section tag present, in directory order (the
// canonical section order for containers written by WriteTile).
func (r *Reader) Tags() []SectionTag {
	return append([]SectionTag(nil), r.order...)
}

// Section reports the directory entry for tag, if present.
func (r *Reader) Section(tag SectionTag) (DirEntry, bool) {
	e, ok := r.entries[tag]
	return e, ok
}

// Len returns the total size in bytes of the parsed container image, for
// callers (the validator's directory-geometry checks) that need to check
// section offsets against the real file length rather than one derived
// from the directory entries themselves.
func (r *Reader) Len() int {
	return len(r.data)
}

// DecodeSection verifies a section's CRC-32 over its stored bytes, then
// runs its codec to recover the decoded payload bytes. Callers then pass
// the result to the matching DecodeXxx in this package. Directory-entry
// geometry (alignment, overlap) is not ParseTile's concern, so this bounds
// check exists only to fail cleanly instead of slicing out of range.
func (r *Reader) DecodeSection(tag SectionTag) ([]byte, error) {
	entry, ok := r.entries[tag]
	if !ok {
		return nil, fmt.Errorf("section %s not present", tag)
	}
	end := entry.Offset + entry.StoredLen
	if entry.Offset > uint64(len(r.data)) || end > uint64(len(r.data)) || end < entry.Offset {
		return nil, fmt.Errorf("%w: section %s at %d+%d exceeds container length %d", ErrSectionOutOfBounds, tag, entry.Offset, entry.StoredLen, len(r.data))
	}
	stored := r.data[entry.Offset:end]
	if crc32.ChecksumIEEE(stored) != entry.CRC32 {
		return nil, fmt.Errorf("%w: section %s", ErrCrcMismatch, tag)
	}
	return decodeCodec(Codec(entry.Codec), stored, entry.DecodedLen)
}
