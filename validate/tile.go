package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/fenwick-studio/worldstore/ids"
	"github.com/fenwick-studio/worldstore/layout"
	"github.com/fenwick-studio/worldstore/manifest"
	"github.com/fenwick-studio/worldstore/quarantine"
	"github.com/fenwick-studio/worldstore/tile"
)

func scanRegionTiles(
	world layout.World,
	region manifest.RegionManifest,
	expectedSpecHash, legacySpecHash uint64,
	expectedSpec manifest.WorldSpec,
	quarantineMode bool,
) []Issue {
	var issues []Issue
	regionLayout := world.Region(region.RegionID)

	if _, err := os.Stat(regionLayout.TilesDirPath()); err != nil {
		return []Issue{newIssue("region tiles directory missing").withPath(regionLayout.TilesDirPath())}
	}

	entries, err := os.ReadDir(regionLayout.TilesDirPath())
	if err != nil {
		return []Issue{newIssue(fmt.Sprintf("read region tiles failed: %v", err)).withPath(regionLayout.TilesDirPath())}
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".tile") {
			continue
		}
		tilePath := filepath.Join(regionLayout.TilesDirPath(), name)

		tileID, ok := ids.ParseTileFileName(name)
		if !ok {
			issue := newIssue(fmt.Sprintf("invalid tile filename: %s", name)).withPath(tilePath)
			issues = append(issues, issue)
			logIssue(issue)
			continue
		}

		tileIssues := validateTileContainer(world, region.RegionID, tileID, tilePath, expectedSpecHash, legacySpecHash, expectedSpec)
		issues = append(issues, tileIssues...)

		if quarantineMode && len(tileIssues) > 0 {
			if _, err := quarantine.Move(world, region.RegionID, tileID, time.Now().UnixMilli()); err != nil {
				issue := newIssue(fmt.Sprintf("quarantine move failed: %v", err)).withPath(tilePath)
				issues = append(issues, issue)
				logIssue(issue)
			}
		}
	}
	return issues
}

func validateTileContainer(
	world layout.World,
	regionID string,
	tileID ids.TileID,
	tilePath string,
	expectedSpecHash, legacySpecHash uint64,
	expectedSpec manifest.WorldSpec,
) []Issue {
	var issues []Issue

	reader, err := tile.ReadTile(tilePath)
	if err != nil {
		issue := newIssue(fmt.Sprintf("tile header read failed: %v", err)).withPath(tilePath)
		issues = append(issues, issue)
		logIssue(issue)
		return issues
	}

	if reader.Header.SectionCount > tile.MaxSectionCount {
		issue := newIssue(fmt.Sprintf("section_count %d exceeds cap", reader.Header.SectionCount)).withPath(tilePath)
		issues = append(issues, issue)
		logIssue(issue)
	}
	if reader.Header.ContainerVersion < tile.MinContainerVersion {
		issue := newIssue(fmt.Sprintf(
			"container version %d below minimum %d", reader.Header.ContainerVersion, tile.MinContainerVersion,
		)).withPath(tilePath)
		issues = append(issues, issue)
		logIssue(issue)
	}
	if reader.Header.ContainerVersion > tile.ContainerVersion {
		issue := newIssue(fmt.Sprintf(
			"container version %d exceeds supported %d", reader.Header.ContainerVersion, tile.ContainerVersion,
		)).withPath(tilePath)
		issues = append(issues, issue)
		logIssue(issue)
	}
	if reader.Header.SectionDirOffset < tile.HeaderSize {
		issue := newIssue("section directory overlaps header").withPath(tilePath)
		issues = append(issues, issue)
		logIssue(issue)
	}

	expectedRegionHash := tile.HashRegion(regionID)
	if reader.Header.RegionHash != expectedRegionHash {
		issue := newIssue("region hash mismatch").withPath(tilePath)
		issues = append(issues, issue)
		logIssue(issue)
	}
	if reader.Header.WorldSpecHash != expectedSpecHash && reader.Header.WorldSpecHash != legacySpecHash {
		issue := newIssue("world spec hash mismatch").withPath(tilePath)
		issues = append(issues, issue)
		logIssue(issue)
	}
	if reader.Header.TileX != tileID.Coord.X || reader.Header.TileY != tileID.Coord.Y {
		issue := newIssue("tile_id does not match filename").withPath(tilePath)
		issues = append(issues, issue)
		logIssue(issue)
	}

	issues = append(issues, validateDirectory(reader, tilePath)...)
	issues = append(issues, validateSections(reader, tilePath, expectedSpec)...)

	return issues
}

// validateDirectory checks directory-entry geometry — ASCII tag shape,
// alignment, bounds against the real container length, and overlap — using
// a bitset over the container's bytes to catch overlap in a single pass.
// ParseTile itself only parses entries and checks duplicate-tag/missing-META;
// this is where the directory contract is actually enforced, so a tile with
// a misaligned or overlapping section still accumulates every other issue
// instead of failing closed on the first one.
func validateDirectory(reader *tile.Reader, tilePath string) []Issue {
	var issues []Issue

	dirEnd := reader.Header.SectionDirOffset + uint64(reader.Header.SectionCount)*tile.DirEntrySize
	fileLen := uint64(reader.Len())
	occupied := bitset.New(uint(fileLen))

	for _, tag := range reader.Tags() {
		entry, _ := reader.Section(tag)

		if !tag.IsASCIITag() {
			issue := newIssue(fmt.Sprintf("section tag %s is not ASCII FourCC", tag)).withPath(tilePath)
			issues = append(issues, issue)
			logIssue(issue)
		}
		if entry.Offset < dirEnd {
			issue := newIssue(fmt.Sprintf("section %s overlaps directory region", tag)).withPath(tilePath)
			issues = append(issues, issue)
			logIssue(issue)
		}
		if entry.StoredLen == 0 {
			issue := newIssue(fmt.Sprintf("section %s has zero length", tag)).withPath(tilePath)
			issues = append(issues, issue)
			logIssue(issue)
		}
		end := entry.Offset + entry.StoredLen
		if entry.Offset > fileLen || end > fileLen || end < entry.Offset {
			issue := newIssue(fmt.Sprintf("section %s out of bounds", tag)).withPath(tilePath)
			issues = append(issues, issue)
			logIssue(issue)
			continue
		}
		if entry.Offset%tile.Alignment != 0 {
			issue := newIssue(fmt.Sprintf("section %s not aligned", tag)).withPath(tilePath)
			issues = append(issues, issue)
			logIssue(issue)
		}

		overlapped := false
		for pos := entry.Offset; pos < end; pos++ {
			if occupied.Test(uint(pos)) {
				overlapped = true
			}
			occupied.Set(uint(pos))
		}
		if overlapped {
			issue := newIssue(fmt.Sprintf("section overlap: %s overlaps a preceding section", tag)).withPath(tilePath)
			issues = append(issues, issue)
			logIssue(issue)
		}
	}

	return issues
}
