package tile

import (
	"testing"

	"github.com/fenwick-studio/worldstore/manifest"
)

func TestHashRegionIsStableAndSensitiveToInput(t *testing.T) {
	a := HashRegion("forest_01")
	b := HashRegion("forest_01")
	if a != b {
		t.Fatal("HashRegion is not deterministic")
	}
	if a == HashRegion("forest_02") {
		t.Fatal("HashRegion did not change for a different region id")
	}
}

func TestHashWorldSpecCurrentAndLegacyDiffer(t *testing.T) {
	spec := manifest.DefaultWorldSpec
	current := HashWorldSpec(spec)
	legacy := HashWorldSpecLegacy(spec)
	if current == legacy {
		t.Fatal("current and legacy world-spec hashes should not collide for the default spec")
	}

	other := spec
	other.ChunksPerTile = spec.ChunksPerTile + 1
	if HashWorldSpec(other) == current {
		t.Fatal("changing chunks_per_tile should change the current hash")
	}
	if HashWorldSpecLegacy(other) != legacy {
		t.Fatal("legacy hash must be insensitive to chunks_per_tile")
	}
}
