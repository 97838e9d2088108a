package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-test/deep"
)

func TestProjectManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := NewProjectManifest("Dunebreak")
	if err := WriteProjectManifest(dir, m); err != nil {
		t.Fatalf("WriteProjectManifest: %v", err)
	}
	got, err := ReadProjectManifest(dir)
	if err != nil {
		t.Fatalf("ReadProjectManifest: %v", err)
	}
	if diff := deep.Equal(got, m); diff != nil {
		t.Fatalf("round trip mismatch: %v", diff)
	}
}

func TestReadProjectManifestAppliesDefaultsForMissingKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectManifestFile)
	raw := "format_version = 1\nproject_id = \"p1\"\nproject_name = \"bare\"\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write raw manifest: %v", err)
	}
	got, err := ReadProjectManifest(dir)
	if err != nil {
		t.Fatalf("ReadProjectManifest: %v", err)
	}
	if got.WorldsDir != "worlds" || got.AssetsDir != "assets" || got.ExportsDir != "exports" || got.CacheDir != "cache" {
		t.Fatalf("defaults not applied: %+v", got)
	}
}

func TestWorldManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := NewWorldManifest("Overworld", DefaultWorldSpec)
	m.Regions = append(m.Regions, RegionManifest{
		RegionID: "forest_01",
		Name:     "Forest",
		Bounds:   NewRegionBounds(0, 0, 3, 3),
	})
	if err := WriteWorldManifest(dir, m); err != nil {
		t.Fatalf("WriteWorldManifest: %v", err)
	}
	got, err := ReadWorldManifest(dir)
	if err != nil {
		t.Fatalf("ReadWorldManifest: %v", err)
	}
	if diff := deep.Equal(got, m); diff != nil {
		t.Fatalf("round trip mismatch: %v", diff)
	}
}

func TestRegionBoundsIsValid(t *testing.T) {
	if !NewRegionBounds(0, 0, 1, 1).IsValid() {
		t.Fatal("expected min <= max bounds to be valid")
	}
	if NewRegionBounds(2, 0, 1, 1).IsValid() {
		t.Fatal("expected min_x > max_x to be invalid")
	}
}
