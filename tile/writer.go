package tile

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// Section is one section payload ready to be written: already encoded to
// its section-specific byte form, not yet compressed or CRC'd.
type Section struct {
	Tag            SectionTag
	SectionVersion uint16
	Codec          Codec
	Decoded        []byte
}

// WriteOptions controls atomic-writer behavior the caller may want to vary
// in tests (an injectable clock) or per-call (an explicit codec override).
type WriteOptions struct {
	// DefaultCodec is used for any Section whose Codec field is left at its
	// zero value (CodecRaw), so callers that don't care can omit it.
	DefaultCodec Codec
	// Now returns the creation timestamp stamped into the header. Defaults
	// to a real wall-clock read if nil.
	Now func() uint64
}

// TileHeaderInput carries the identity fields SaveTile must stamp into the
// container header; everything else (section count, directory offset) is
// computed by WriteTile itself.
type TileHeaderInput struct {
	TileX         int32
	TileY         int32
	RegionHash    uint64
	WorldSpecHash uint64
}

// WriteTile builds a complete container image from header fields and a set
// of sections, then writes it to path using the atomic tmp-fsync-rename
// protocol: write to path+".tmp", fsync, back up any
// existing file to path+".bak" (replacing a stale one), then rename
// tmp to path. Byte-identical inputs and timestamp always produce
// byte-identical output, which is why padding between sections is written
// out explicitly rather than left as a sparse hole.
func WriteTile(path string, hdrIn TileHeaderInput, sections []Section, opts WriteOptions) error {
	ordered := append([]Section(nil), sections...)
	sort.Slice(ordered, func(i, j int) bool {
		return CompareTags(ordered[i].Tag, ordered[j].Tag) < 0
	})

	seen := make(map[SectionTag]bool, len(ordered))
	hasMeta := false
	for _, s := range ordered {
		if seen[s.Tag] {
			return fmt.Errorf("%w: %s", ErrDuplicateTag, s.Tag)
		}
		seen[s.Tag] = true
		if s.Tag == TagMETA {
			hasMeta = true
		}
	}
	if !hasMeta {
		return ErrMissingMeta
	}
	if uint32(len(ordered)) > MaxSectionCount {
		return fmt.Errorf("%w: %d", ErrSectionCountExceedsCap, len(ordered))
	}

	now := uint64(time.Now().Unix())
	if opts.Now != nil {
		now = opts.Now()
	}

	// The directory sits immediately after the header; every section
	// offset is computed relative to the directory's end.
	dirOffset := uint64(HeaderSize)
	dirEnd := dirOffset + uint64(len(ordered))*DirEntrySize

	var body bytes.Buffer
	entries := make([]DirEntry, 0, len(ordered))
	offset := dirEnd
	for _, s := range ordered {
		codec := s.Codec
		if codec == CodecRaw && opts.DefaultCodec != CodecRaw {
			codec = opts.DefaultCodec
		}
		stored, err := encodeCodec(codec, s.Decoded)
		if err != nil {
			return fmt.Errorf("encode section %s: %w", s.Tag, err)
		}

		pad := AlignmentPadding(offset, Alignment)
		if pad > 0 {
			body.Write(make([]byte, pad))
			offset += pad
		}

		entries = append(entries, DirEntry{
			Tag:            s.Tag,
			SectionVersion: s.SectionVersion,
			Codec:          uint16(codec),
			Offset:         offset,
			StoredLen:      uint64(len(stored)),
			DecodedLen:     uint64(len(s.Decoded)),
			CRC32:          crc32.ChecksumIEEE(stored),
		})
		body.Write(stored)
		offset += uint64(len(stored))
	}

	header := Header{
		ContainerVersion: ContainerVersion,
		TileX:            hdrIn.TileX,
		TileY:            hdrIn.TileY,
		RegionHash:       hdrIn.RegionHash,
		WorldSpecHash:    hdrIn.WorldSpecHash,
		SectionCount:     uint32(len(entries)),
		SectionDirOffset: dirOffset,
		CreatedTimestamp: now,
	}

	var out bytes.Buffer
	headerBytes := header.ToBytes()
	out.Write(headerBytes[:])
	for _, e := range entries {
		entryBytes := e.ToBytes()
		out.Write(entryBytes[:])
	}
	out.Write(body.Bytes())

	return atomicWriteFile(path, out.Bytes())
}

// atomicWriteFile implements the tmp-fsync-backup-rename sequence shared by
// every container write.
func atomicWriteFile(path string, data []byte) error {
	tmpPath := path + ".tmp"
	bakPath := path + ".bak"

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create temp container: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temp container: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("fsync temp container: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp container: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := os.Stat(bakPath); err == nil {
			if err := os.Remove(bakPath); err != nil {
				return fmt.Errorf("remove stale backup: %w", err)
			}
		}
		if err := os.Rename(path, bakPath); err != nil {
			return fmt.Errorf("rotate backup: %w", err)
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp container into place: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"path":  path,
		"bytes": len(data),
	}).Debug("wrote tile container")
	return nil
}
