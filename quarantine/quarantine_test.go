package quarantine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fenwick-studio/worldstore/ids"
	"github.com/fenwick-studio/worldstore/layout"
)

func TestMoveRelocatesTileAndCreatesDirectories(t *testing.T) {
	projectRoot := t.TempDir()
	world := layout.NewProject(projectRoot).World("world-1")
	tileID := ids.NewTileID(1, 1)
	region := world.Region("forest_01")

	if err := os.MkdirAll(region.TilesDirPath(), 0o755); err != nil {
		t.Fatalf("mkdir tiles dir: %v", err)
	}
	src := region.TilePath(tileID)
	if err := os.WriteFile(src, []byte("tile bytes"), 0o644); err != nil {
		t.Fatalf("write source tile: %v", err)
	}

	dest, err := Move(world, "forest_01", tileID, 1_700_000_000_000)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("expected source tile to be gone, stat err: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read quarantined tile: %v", err)
	}
	if string(data) != "tile bytes" {
		t.Fatalf("quarantined tile contents = %q", data)
	}
	if filepath.Dir(filepath.Dir(filepath.Dir(dest))) != world.QuarantineDirPath() {
		t.Fatalf("quarantined tile not under world's quarantine dir: %s", dest)
	}
}

func TestMoveNeverCollidesWithinSameMillisecond(t *testing.T) {
	projectRoot := t.TempDir()
	world := layout.NewProject(projectRoot).World("world-1")
	region := world.Region("forest_01")
	if err := os.MkdirAll(region.TilesDirPath(), 0o755); err != nil {
		t.Fatalf("mkdir tiles dir: %v", err)
	}

	var dests []string
	for i := 0; i < 3; i++ {
		tileID := ids.NewTileID(int32(i), 0)
		src := region.TilePath(tileID)
		if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
			t.Fatalf("write source tile %d: %v", i, err)
		}
		dest, err := Move(world, "forest_01", tileID, 1_700_000_000_000)
		if err != nil {
			t.Fatalf("Move %d: %v", i, err)
		}
		dests = append(dests, dest)
	}

	seen := map[string]bool{}
	for _, d := range dests {
		if seen[d] {
			t.Fatalf("duplicate quarantine destination: %s", d)
		}
		seen[d] = true
	}
}
