package validate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fenwick-studio/worldstore/ids"
	"github.com/fenwick-studio/worldstore/layout"
	"github.com/fenwick-studio/worldstore/manifest"
	"github.com/fenwick-studio/worldstore/tile"
)

func newValidProject(t *testing.T) (string, layout.Project, manifest.WorldManifest) {
	t.Helper()
	root := t.TempDir()
	project := layout.NewProject(root)
	pm := manifest.NewProjectManifest("p")
	if err := manifest.WriteProjectManifest(root, pm); err != nil {
		t.Fatalf("WriteProjectManifest: %v", err)
	}
	if err := os.MkdirAll(project.WorldsDirPath(), 0o755); err != nil {
		t.Fatalf("mkdir worlds: %v", err)
	}

	wm := manifest.NewWorldManifest("w", manifest.DefaultWorldSpec)
	wm.Regions = append(wm.Regions, manifest.RegionManifest{
		RegionID: "forest_01",
		Name:     "Forest",
		Bounds:   manifest.NewRegionBounds(0, 0, 4, 4),
	})
	world := project.World(wm.WorldID)
	if err := manifest.WriteWorldManifest(world.Root, wm); err != nil {
		t.Fatalf("WriteWorldManifest: %v", err)
	}

	region := world.Region("forest_01")
	if err := os.MkdirAll(region.TilesDirPath(), 0o755); err != nil {
		t.Fatalf("mkdir tiles: %v", err)
	}

	tileID := ids.NewTileID(1, 1)
	meta := tile.Meta{FormatVersion: 1, TileID: tileID, RegionHash: tile.HashRegion("forest_01"), CreatedTimestamp: 1}
	sections := []tile.Section{{Tag: tile.TagMETA, SectionVersion: 1, Decoded: tile.EncodeMeta(meta)}}
	hdrIn := tile.TileHeaderInput{
		TileX:         tileID.Coord.X,
		TileY:         tileID.Coord.Y,
		RegionHash:    tile.HashRegion("forest_01"),
		WorldSpecHash: tile.HashWorldSpecFromManifest(wm),
	}
	if err := tile.WriteTile(region.TilePath(tileID), hdrIn, sections, tile.WriteOptions{Now: func() uint64 { return 1 }}); err != nil {
		t.Fatalf("WriteTile: %v", err)
	}

	return root, project, wm
}

func TestProjectReportsNoIssuesForWellFormedTree(t *testing.T) {
	root, _, _ := newValidProject(t)
	issues := Project(root)
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
}

func TestProjectReportsMissingWorldsDir(t *testing.T) {
	root := t.TempDir()
	pm := manifest.NewProjectManifest("p")
	if err := manifest.WriteProjectManifest(root, pm); err != nil {
		t.Fatalf("WriteProjectManifest: %v", err)
	}
	issues := Project(root)
	if len(issues) != 1 || issues[0].Message != "worlds directory missing" {
		t.Fatalf("issues = %+v", issues)
	}
}

func TestProjectReportsRegionHashMismatch(t *testing.T) {
	root, project, wm := newValidProject(t)
	world := project.World(wm.WorldID)
	region := world.Region("forest_01")
	tileID := ids.NewTileID(1, 1)

	meta := tile.Meta{FormatVersion: 1, TileID: tileID, RegionHash: tile.HashRegion("forest_01"), CreatedTimestamp: 1}
	sections := []tile.Section{{Tag: tile.TagMETA, SectionVersion: 1, Decoded: tile.EncodeMeta(meta)}}
	hdrIn := tile.TileHeaderInput{
		TileX:         tileID.Coord.X,
		TileY:         tileID.Coord.Y,
		RegionHash:    tile.HashRegion("some_other_region"),
		WorldSpecHash: tile.HashWorldSpecFromManifest(wm),
	}
	if err := tile.WriteTile(region.TilePath(tileID), hdrIn, sections, tile.WriteOptions{Now: func() uint64 { return 1 }}); err != nil {
		t.Fatalf("WriteTile: %v", err)
	}

	issues := Project(root)
	found := false
	for _, issue := range issues {
		if issue.Message == "region hash mismatch" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a region hash mismatch issue, got %+v", issues)
	}
}

func TestProjectAndQuarantineRelocatesCorruptTile(t *testing.T) {
	root, project, wm := newValidProject(t)
	world := project.World(wm.WorldID)
	region := world.Region("forest_01")
	tileID := ids.NewTileID(2, 2)
	corruptPath := region.TilePath(tileID)
	if err := os.WriteFile(corruptPath, []byte("short"), 0o644); err != nil {
		t.Fatalf("write corrupt tile: %v", err)
	}

	issues := ProjectAndQuarantine(root)
	if len(issues) == 0 {
		t.Fatal("expected at least one issue for the corrupt tile")
	}
	if _, err := os.Stat(corruptPath); !os.IsNotExist(err) {
		t.Fatalf("expected corrupt tile to be moved, stat err: %v", err)
	}
	quarantineDir := world.QuarantineDirPath()
	entries, err := os.ReadDir(quarantineDir)
	if err != nil || len(entries) == 0 {
		t.Fatalf("expected a quarantine entry: entries=%v err=%v", entries, err)
	}
}

func TestProjectJSONReturnsEmptyArrayForCleanProject(t *testing.T) {
	root, _, _ := newValidProject(t)
	text, err := ProjectJSON(root)
	if err != nil {
		t.Fatalf("ProjectJSON: %v", err)
	}
	if text != "[]" {
		t.Fatalf("ProjectJSON() = %q, want []", text)
	}
}

func TestProjectReportsUnlistedRegionDirectory(t *testing.T) {
	root, project, wm := newValidProject(t)
	world := project.World(wm.WorldID)
	strayRegionDir := filepath.Join(world.RegionsDirPath(), "stray_region")
	if err := os.MkdirAll(strayRegionDir, 0o755); err != nil {
		t.Fatalf("mkdir stray region: %v", err)
	}

	issues := Project(root)
	found := false
	for _, issue := range issues {
		if issue.Message == "region directory not listed in world manifest" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an unlisted-region issue, got %+v", issues)
	}
}

func TestProjectAccumulatesDirectoryGeometryIssuesInsteadOfShortCircuiting(t *testing.T) {
	root, project, wm := newValidProject(t)
	world := project.World(wm.WorldID)
	region := world.Region("forest_01")
	tileID := ids.NewTileID(3, 3)

	meta := tile.Meta{FormatVersion: 1, TileID: tileID, RegionHash: tile.HashRegion("forest_01"), CreatedTimestamp: 1}
	hmap := tile.Hmap{Width: 1, Height: 1, Samples: []float32{0}}
	sections := []tile.Section{
		{Tag: tile.TagMETA, SectionVersion: 1, Decoded: tile.EncodeMeta(meta)},
		{Tag: tile.TagHMAP, SectionVersion: 1, Decoded: tile.EncodeHmap(hmap)},
	}
	hdrIn := tile.TileHeaderInput{
		TileX:         tileID.Coord.X,
		TileY:         tileID.Coord.Y,
		RegionHash:    tile.HashRegion("forest_01"),
		WorldSpecHash: tile.HashWorldSpecFromManifest(wm),
	}
	tilePath := region.TilePath(tileID)
	if err := tile.WriteTile(tilePath, hdrIn, sections, tile.WriteOptions{Now: func() uint64 { return 1 }}); err != nil {
		t.Fatalf("WriteTile: %v", err)
	}

	data, err := os.ReadFile(tilePath)
	if err != nil {
		t.Fatalf("read tile: %v", err)
	}
	header, err := tile.HeaderFromBytes(data[:tile.HeaderSize])
	if err != nil {
		t.Fatalf("HeaderFromBytes: %v", err)
	}

	// Move the second directory entry's offset back by 40 bytes, from 320 to
	// 280: it stops being 64-byte aligned and now overlaps the last 8 bytes
	// of the 32-byte META section at 256, so its stored bytes won't match
	// their recorded CRC either. A reader
	// that fails closed on the first defect would never reach the section
	// decode pass that reports the CRC mismatch.
	entryOffset := header.SectionDirOffset + uint64(header.SectionCount-1)*tile.DirEntrySize
	entry, err := tile.DirEntryFromBytes(data[entryOffset : entryOffset+tile.DirEntrySize])
	if err != nil {
		t.Fatalf("DirEntryFromBytes: %v", err)
	}
	entry.Offset -= 40
	entryBytes := entry.ToBytes()
	copy(data[entryOffset:entryOffset+tile.DirEntrySize], entryBytes[:])
	if err := os.WriteFile(tilePath, data, 0o644); err != nil {
		t.Fatalf("write corrupted tile: %v", err)
	}

	issues := Project(root)
	var sawMisaligned, sawOverlap, sawCrcOrDecodeFailure bool
	for _, issue := range issues {
		switch {
		case strings.Contains(issue.Message, "not aligned"):
			sawMisaligned = true
		case strings.Contains(issue.Message, "overlap"):
			sawOverlap = true
		case strings.Contains(issue.Message, "read failed") || strings.Contains(issue.Message, "decode failed"):
			sawCrcOrDecodeFailure = true
		}
	}
	if !sawMisaligned || !sawOverlap || !sawCrcOrDecodeFailure {
		t.Fatalf("expected alignment, overlap, and a section failure to all be reported together, got %+v", issues)
	}
}
