// Package manifest defines the versioned project/world/region manifest
// records and their TOML on-disk representation.
package manifest

import (
	uuid "github.com/satori/go.uuid"
)

// ProjectFormatVersion is the current ProjectManifest schema version.
const ProjectFormatVersion uint32 = 1

// WorldFormatVersion is the current WorldManifest schema version.
const WorldFormatVersion uint32 = 1

// DefaultWorldSpec seeds newly created worlds and is used across tests.
var DefaultWorldSpec = WorldSpec{
	TileSizeMeters:      512.0,
	ChunksPerTile:       16,
	HeightfieldSamples:  513,
	WeightmapResolution: 256,
	LiquidsResolution:   256,
}

// ProjectManifest is stored at "<project>/project.toml".
type ProjectManifest struct {
	FormatVersion uint32 `toml:"format_version"`
	ProjectID     string `toml:"project_id"`
	ProjectName   string `toml:"project_name"`
	CreatedUnixMs uint64 `toml:"created_unix_ms"`
	WorldsDir     string `toml:"worlds_dir"`
	AssetsDir     string `toml:"assets_dir"`
	ExportsDir    string `toml:"exports_dir"`
	CacheDir      string `toml:"cache_dir"`
}

// NewProjectManifest returns a ProjectManifest with a fresh identity and the
// default subdirectory names, ready to be named and saved.
func NewProjectManifest(name string) ProjectManifest {
	return ProjectManifest{
		FormatVersion: ProjectFormatVersion,
		ProjectID:     uuid.NewV4().String(),
		ProjectName:   name,
		WorldsDir:     "worlds",
		AssetsDir:     "assets",
		ExportsDir:    "exports",
		CacheDir:      "cache",
	}
}

// applyDefaults fills in zero-valued fields after a TOML decode, matching
// the `#[serde(default)]` behavior of the original schema: unknown or
// missing keys fall back to the values NewProjectManifest would produce.
func (p *ProjectManifest) applyDefaults() {
	if p.WorldsDir == "" {
		p.WorldsDir = "worlds"
	}
	if p.AssetsDir == "" {
		p.AssetsDir = "assets"
	}
	if p.ExportsDir == "" {
		p.ExportsDir = "exports"
	}
	if p.CacheDir == "" {
		p.CacheDir = "cache"
	}
}

// WorldManifest is stored at "<project>/worlds/<world_id>/world.toml".
type WorldManifest struct {
	FormatVersion uint32           `toml:"format_version"`
	WorldID       string           `toml:"world_id"`
	WorldName     string           `toml:"world_name"`
	WorldSpec     WorldSpec        `toml:"world_spec"`
	Regions       []RegionManifest `toml:"regions"`
}

// NewWorldManifest returns a WorldManifest with a fresh identity and the
// supplied spec.
func NewWorldManifest(name string, spec WorldSpec) WorldManifest {
	return WorldManifest{
		FormatVersion: WorldFormatVersion,
		WorldID:       uuid.NewV4().String(),
		WorldName:     name,
		WorldSpec:     spec,
		Regions:       nil,
	}
}

// WorldSpec is the numeric spec that seeds the tile-container world-spec
// hash. Immutable once any tile exists under the owning world.
type WorldSpec struct {
	TileSizeMeters      float32 `toml:"tile_size_meters"`
	ChunksPerTile       uint16  `toml:"chunks_per_tile"`
	HeightfieldSamples  uint16  `toml:"heightfield_samples"`
	WeightmapResolution uint16  `toml:"weightmap_resolution"`
	LiquidsResolution   uint16  `toml:"liquids_resolution"`
}

// RegionManifest is one entry in WorldManifest.Regions.
type RegionManifest struct {
	RegionID string       `toml:"region_id"`
	Name     string       `toml:"name"`
	Bounds   RegionBounds `toml:"bounds"`
}

// RegionBounds is an inclusive rectangle of tile coordinates.
type RegionBounds struct {
	MinX int32 `toml:"min_x"`
	MinY int32 `toml:"min_y"`
	MaxX int32 `toml:"max_x"`
	MaxY int32 `toml:"max_y"`
}

// NewRegionBounds builds a RegionBounds from its four corners.
func NewRegionBounds(minX, minY, maxX, maxY int32) RegionBounds {
	return RegionBounds{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// IsValid reports whether min <= max on both axes.
func (b RegionBounds) IsValid() bool {
	return b.MinX <= b.MaxX && b.MinY <= b.MaxY
}
