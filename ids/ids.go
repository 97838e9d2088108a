// Package ids holds the stable value-type identifiers shared across the
// world storage engine: tiles, chunks, layers, placed instances, and assets.
package ids

import (
	"fmt"
	"strconv"
	"strings"
)

// TileCoord is a world tile coordinate in a 2D grid.
type TileCoord struct {
	X int32
	Y int32
}

// TileID identifies a single tile container.
type TileID struct {
	Coord TileCoord
}

// NewTileID builds a TileID from raw coordinates.
func NewTileID(x, y int32) TileID {
	return TileID{Coord: TileCoord{X: x, Y: y}}
}

// FileName returns the canonical "x<X>_y<Y>.tile" name for this tile.
func (t TileID) FileName() string {
	return fmt.Sprintf("x%d_y%d.tile", t.Coord.X, t.Coord.Y)
}

func (t TileID) String() string {
	return fmt.Sprintf("(%d,%d)", t.Coord.X, t.Coord.Y)
}

// ParseTileFileName parses the "x<X>_y<Y>.tile" form FileName produces,
// reporting ok=false for anything else.
func ParseTileFileName(name string) (TileID, bool) {
	stem := strings.TrimSuffix(name, ".tile")
	if stem == name {
		return TileID{}, false
	}
	parts := strings.SplitN(stem, "_", 2)
	if len(parts) != 2 {
		return TileID{}, false
	}
	xPart, yPart := parts[0], parts[1]
	if !strings.HasPrefix(xPart, "x") || !strings.HasPrefix(yPart, "y") {
		return TileID{}, false
	}
	x, err := strconv.ParseInt(xPart[1:], 10, 32)
	if err != nil {
		return TileID{}, false
	}
	y, err := strconv.ParseInt(yPart[1:], 10, 32)
	if err != nil {
		return TileID{}, false
	}
	return NewTileID(int32(x), int32(y)), true
}

// ChunkCoord addresses a chunk within a tile.
type ChunkCoord struct {
	X uint16
	Y uint16
}

// ChunkID identifies a chunk within a specific tile. Chunks are not yet an
// addressable on-disk section of their own; this type exists because
// WorldSpec.ChunksPerTile already carves each tile into a chunk grid and
// future layers will need a stable handle into it.
type ChunkID struct {
	Tile  TileID
	Coord ChunkCoord
}

// LayerID identifies a logical layer (terrain, liquids, props, ...).
type LayerID uint32

// InstanceID identifies a single placed prop/doodad instance. Stored as the
// sort key for PROP records.
type InstanceID uint64

// AssetID is a namespaced, stable reference to an asset on disk or in the
// asset database (out of scope here; only the reference is persisted).
type AssetID struct {
	Namespace string
	Name      string
}

// NewAssetID builds an AssetID from its two components.
func NewAssetID(namespace, name string) AssetID {
	return AssetID{Namespace: namespace, Name: name}
}

func (a AssetID) String() string {
	return fmt.Sprintf("%s:%s", a.Namespace, a.Name)
}
