// Package layout centralizes the on-disk directory conventions a project
// follows, so every other package addresses project files through one
// place instead of hand-building paths.
package layout

import (
	"fmt"
	"path/filepath"

	"github.com/fenwick-studio/worldstore/ids"
)

// Project-relative directory and file names.
const (
	ProjectManifestName = "project.toml"
	EditorDir           = ".editor"
	EditorStateName     = "editor_state.toml"
	BackupsDir          = "backups"
	WorldsDir           = "worlds"
	WorldManifestName   = "world.toml"
	RegionsDir          = "regions"
	TilesDir            = "tiles"
	QuarantineDirName   = "_quarantine"
	AssetsDir           = "assets"
	ExportsDir          = "exports"
	CacheDir            = "cache"
)

// Project describes a project rooted at Root and exposes its fixed
// subdirectory layout.
type Project struct {
	Root string
}

// NewProject returns a Project rooted at root.
func NewProject(root string) Project {
	return Project{Root: root}
}

// ManifestPath is <root>/project.toml.
func (p Project) ManifestPath() string {
	return filepath.Join(p.Root, ProjectManifestName)
}

// EditorDirPath is <root>/.editor.
func (p Project) EditorDirPath() string {
	return filepath.Join(p.Root, EditorDir)
}

// EditorStatePath is <root>/.editor/editor_state.toml.
func (p Project) EditorStatePath() string {
	return filepath.Join(p.EditorDirPath(), EditorStateName)
}

// BackupsDirPath is <root>/.editor/backups.
func (p Project) BackupsDirPath() string {
	return filepath.Join(p.EditorDirPath(), BackupsDir)
}

// BackupSnapshotPath is <root>/.editor/backups/<unixMs>.
func (p Project) BackupSnapshotPath(unixMs int64) string {
	return filepath.Join(p.BackupsDirPath(), fmt.Sprintf("%d", unixMs))
}

// WorldsDirPath is <root>/worlds.
func (p Project) WorldsDirPath() string {
	return filepath.Join(p.Root, WorldsDir)
}

// World returns the World rooted at this project's worlds/<worldID>.
func (p Project) World(worldID string) World {
	return World{Root: filepath.Join(p.WorldsDirPath(), worldID)}
}

// AssetsDirPath is <root>/assets.
func (p Project) AssetsDirPath() string {
	return filepath.Join(p.Root, AssetsDir)
}

// ExportsDirPath is <root>/exports.
func (p Project) ExportsDirPath() string {
	return filepath.Join(p.Root, ExportsDir)
}

// CacheDirPath is <root>/cache.
func (p Project) CacheDirPath() string {
	return filepath.Join(p.Root, CacheDir)
}

// World describes one world rooted at worlds/<world_id> within a project.
type World struct {
	Root string
}

// ManifestPath is <world root>/world.toml.
func (w World) ManifestPath() string {
	return filepath.Join(w.Root, WorldManifestName)
}

// RegionsDirPath is <world root>/regions.
func (w World) RegionsDirPath() string {
	return filepath.Join(w.Root, RegionsDir)
}

// Region returns the Region rooted at regions/<regionID> within this world.
func (w World) Region(regionID string) Region {
	return Region{Root: filepath.Join(w.RegionsDirPath(), regionID)}
}

// QuarantineDirPath is <world root>/regions/_quarantine. Region ids are
// not checked against this name; the validator skips this directory when
// matching region directories to the world manifest.
func (w World) QuarantineDirPath() string {
	return filepath.Join(w.RegionsDirPath(), QuarantineDirName)
}

// Region describes one region rooted at regions/<region_id>.
type Region struct {
	Root string
}

// TilesDirPath is <region root>/tiles.
func (r Region) TilesDirPath() string {
	return filepath.Join(r.Root, TilesDir)
}

// TilePath is <region root>/tiles/x<X>_y<Y>.tile.
func (r Region) TilePath(tileID ids.TileID) string {
	return filepath.Join(r.TilesDirPath(), tileID.FileName())
}
