package tile

import (
	"fmt"
	"hash/fnv"

	"github.com/fenwick-studio/worldstore/manifest"
)

// HashRegion is the FNV-1a-64 digest of the region_id string.
func HashRegion(regionID string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(regionID))
	return h.Sum64()
}

// HashWorldSpec is the FNV-1a-64 digest of the canonical decimal rendering
// of a WorldSpec. This is the variant writers emit.
func HashWorldSpec(spec manifest.WorldSpec) uint64 {
	return fnv1a64([]byte(canonicalWorldSpecString(spec)))
}

// HashWorldSpecFromManifest is a convenience wrapper over HashWorldSpec.
func HashWorldSpecFromManifest(m manifest.WorldManifest) uint64 {
	return HashWorldSpec(m.WorldSpec)
}

// HashWorldSpecLegacy reproduces the world-spec hash an earlier manifest
// draft produced, before chunks_per_tile existed as a distinct field from
// heightfield_samples. Readers must accept either this or the current
// hash; writers never emit it.
func HashWorldSpecLegacy(spec manifest.WorldSpec) uint64 {
	data := fmt.Sprintf(
		"tile_size_meters=%s;heightfield_samples=%d;weightmap_resolution=%d;liquids_resolution=%d",
		formatFloat32(spec.TileSizeMeters), spec.HeightfieldSamples, spec.WeightmapResolution, spec.LiquidsResolution,
	)
	return fnv1a64([]byte(data))
}

func canonicalWorldSpecString(spec manifest.WorldSpec) string {
	return fmt.Sprintf(
		"tile_size_meters=%s;chunks_per_tile=%d;heightfield_samples=%d;weightmap_resolution=%d;liquids_resolution=%d",
		formatFloat32(spec.TileSizeMeters), spec.ChunksPerTile, spec.HeightfieldSamples, spec.WeightmapResolution, spec.LiquidsResolution,
	)
}

// formatFloat32 renders a float32 with %g: the shortest decimal that round
// trips, with no fractional part for whole values (512.0 renders as "512")
// and exponent form for very large or very small magnitudes.
func formatFloat32(v float32) string {
	s := fmt.Sprintf("%g", v)
	return s
}

func fnv1a64(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return h.Sum64()
}
