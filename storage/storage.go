// Package storage exposes the host-facing Core API: the small set of
// entry points a world editor calls into to open/create projects and
// worlds, save and load tiles, run validation, and drive autosave.
// Everything else in this module is implementation detail reached only
// through these calls.
package storage

import (
	"fmt"
	"os"

	"github.com/fenwick-studio/worldstore/backup"
	"github.com/fenwick-studio/worldstore/editorstate"
	"github.com/fenwick-studio/worldstore/ids"
	"github.com/fenwick-studio/worldstore/layout"
	"github.com/fenwick-studio/worldstore/manifest"
	"github.com/fenwick-studio/worldstore/migrate"
	"github.com/fenwick-studio/worldstore/quarantine"
	"github.com/fenwick-studio/worldstore/tile"
	"github.com/fenwick-studio/worldstore/validate"
	"github.com/sirupsen/logrus"
)

// ProjectInfo is what OpenProject reports back: the decoded manifest and
// the project's resolved directory layout.
type ProjectInfo struct {
	Manifest manifest.ProjectManifest
	Layout   layout.Project
}

// OpenProject reads an existing project's manifest and migrates it
// in-memory to the current format version.
func OpenProject(root string) (ProjectInfo, error) {
	m, err := manifest.ReadProjectManifest(root)
	if err != nil {
		return ProjectInfo{}, fmt.Errorf("open project: %w", err)
	}
	if err := migrate.MigrateProject(&m); err != nil {
		return ProjectInfo{}, fmt.Errorf("open project: migrate manifest: %w", err)
	}
	return ProjectInfo{Manifest: m, Layout: layout.NewProject(root)}, nil
}

// CreateProject writes a fresh project manifest at root and creates its
// reserved subdirectories.
func CreateProject(root string, m manifest.ProjectManifest) (layout.Project, error) {
	project := layout.NewProject(root)
	if err := manifest.WriteProjectManifest(root, m); err != nil {
		return layout.Project{}, fmt.Errorf("create project: %w", err)
	}
	for _, dir := range []string{
		project.WorldsDirPath(),
		project.AssetsDirPath(),
		project.ExportsDirPath(),
		project.CacheDirPath(),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return layout.Project{}, fmt.Errorf("create project: %w", err)
		}
	}
	logrus.WithField("root", root).Info("created project")
	return project, nil
}

// WorldInfo is what CreateWorld reports back.
type WorldInfo struct {
	Manifest manifest.WorldManifest
	Layout   layout.World
}

// CreateWorld writes a fresh world manifest under project and creates its
// regions directory.
func CreateWorld(project layout.Project, m manifest.WorldManifest) (WorldInfo, error) {
	world := project.World(m.WorldID)
	if err := manifest.WriteWorldManifest(world.Root, m); err != nil {
		return WorldInfo{}, fmt.Errorf("create world: %w", err)
	}
	if err := os.MkdirAll(world.RegionsDirPath(), 0o755); err != nil {
		return WorldInfo{}, fmt.Errorf("create world: %w", err)
	}
	logrus.WithFields(logrus.Fields{"world": m.WorldID, "name": m.WorldName}).Info("created world")
	return WorldInfo{Manifest: m, Layout: world}, nil
}

// TileStub is the in-memory content a host assembles before SaveTile
// writes it out as a container. Every field is optional; only sections
// with a non-nil value are written, always alongside a generated META.
type TileStub struct {
	Heightfield *tile.Hmap
	Weightmap   *tile.Wmap
	Liquids     *tile.Liqd
	Props       *tile.Prop
}

// SaveTile encodes stub's populated sections into a tile container and
// writes it atomically under world/regions/<regionID>/tiles.
func SaveTile(world layout.World, worldManifest manifest.WorldManifest, regionID string, tileID ids.TileID, stub TileStub, now uint64) error {
	region := world.Region(regionID)
	if err := os.MkdirAll(region.TilesDirPath(), 0o755); err != nil {
		return fmt.Errorf("save tile: %w", err)
	}

	sections := []tile.Section{
		{
			Tag:            tile.TagMETA,
			SectionVersion: 1,
			Decoded: tile.EncodeMeta(tile.Meta{
				FormatVersion:    manifest.WorldFormatVersion,
				TileID:           tileID,
				RegionHash:       tile.HashRegion(regionID),
				CreatedTimestamp: now,
			}),
		},
	}

	if stub.Heightfield != nil {
		sections = append(sections, tile.Section{
			Tag:            tile.TagHMAP,
			SectionVersion: 1,
			Decoded:        tile.EncodeHmap(*stub.Heightfield),
		})
	}
	if stub.Weightmap != nil {
		sections = append(sections, tile.Section{
			Tag:            tile.TagWMAP,
			SectionVersion: 1,
			Decoded:        tile.EncodeWmap(*stub.Weightmap),
		})
	}
	if stub.Liquids != nil {
		sections = append(sections, tile.Section{
			Tag:            tile.TagLIQD,
			SectionVersion: 1,
			Decoded:        tile.EncodeLiqd(*stub.Liquids),
		})
	}
	if stub.Props != nil {
		p := *stub.Props
		p.SortInstances()
		encoded, err := tile.EncodeProp(p)
		if err != nil {
			return fmt.Errorf("save tile: %w", err)
		}
		sections = append(sections, tile.Section{Tag: tile.TagPROP, SectionVersion: 1, Decoded: encoded})
	}

	hdrIn := tile.TileHeaderInput{
		TileX:         tileID.Coord.X,
		TileY:         tileID.Coord.Y,
		RegionHash:    tile.HashRegion(regionID),
		WorldSpecHash: tile.HashWorldSpecFromManifest(worldManifest),
	}
	path := region.TilePath(tileID)
	if err := tile.WriteTile(path, hdrIn, sections, tile.WriteOptions{Now: func() uint64 { return now }}); err != nil {
		return fmt.Errorf("save tile: %w", err)
	}
	logrus.WithFields(logrus.Fields{"region": regionID, "tile": tileID.String()}).Debug("saved tile")
	return nil
}

// LoadedTile is what LoadTile decodes back out of a container: every
// section present, decoded to its typed form.
type LoadedTile struct {
	Meta        tile.Meta
	Heightfield *tile.Hmap
	Weightmap   *tile.Wmap
	Liquids     *tile.Liqd
	Props       *tile.Prop
}

// LoadTile reads and fully decodes the container at
// world/regions/<regionID>/tiles/x<X>_y<Y>.tile.
func LoadTile(world layout.World, regionID string, tileID ids.TileID) (LoadedTile, error) {
	path := world.Region(regionID).TilePath(tileID)
	reader, err := tile.ReadTile(path)
	if err != nil {
		return LoadedTile{}, fmt.Errorf("load tile: %w", err)
	}

	metaBytes, err := reader.DecodeSection(tile.TagMETA)
	if err != nil {
		return LoadedTile{}, fmt.Errorf("load tile: %w", err)
	}
	meta, err := tile.DecodeMeta(metaBytes)
	if err != nil {
		return LoadedTile{}, fmt.Errorf("load tile: %w", err)
	}
	out := LoadedTile{Meta: meta}

	if _, ok := reader.Section(tile.TagHMAP); ok {
		b, err := reader.DecodeSection(tile.TagHMAP)
		if err != nil {
			return LoadedTile{}, fmt.Errorf("load tile: %w", err)
		}
		h, err := tile.DecodeHmap(b)
		if err != nil {
			return LoadedTile{}, fmt.Errorf("load tile: %w", err)
		}
		out.Heightfield = &h
	}
	if _, ok := reader.Section(tile.TagWMAP); ok {
		b, err := reader.DecodeSection(tile.TagWMAP)
		if err != nil {
			return LoadedTile{}, fmt.Errorf("load tile: %w", err)
		}
		w, err := tile.DecodeWmap(b)
		if err != nil {
			return LoadedTile{}, fmt.Errorf("load tile: %w", err)
		}
		out.Weightmap = &w
	}
	if _, ok := reader.Section(tile.TagLIQD); ok {
		b, err := reader.DecodeSection(tile.TagLIQD)
		if err != nil {
			return LoadedTile{}, fmt.Errorf("load tile: %w", err)
		}
		l, err := tile.DecodeLiqd(b)
		if err != nil {
			return LoadedTile{}, fmt.Errorf("load tile: %w", err)
		}
		out.Liquids = &l
	}
	if _, ok := reader.Section(tile.TagPROP); ok {
		b, err := reader.DecodeSection(tile.TagPROP)
		if err != nil {
			return LoadedTile{}, fmt.Errorf("load tile: %w", err)
		}
		p, err := tile.DecodeProp(b)
		if err != nil {
			return LoadedTile{}, fmt.Errorf("load tile: %w", err)
		}
		out.Props = &p
	}

	return out, nil
}

// ValidateProject runs a read-only validation sweep.
func ValidateProject(root string) []validate.Issue {
	return validate.Project(root)
}

// ValidateProjectAndQuarantine runs validation and relocates any tile
// that accumulates at least one issue.
func ValidateProjectAndQuarantine(root string) []validate.Issue {
	return validate.ProjectAndQuarantine(root)
}

// QuarantineTile exposes the quarantine move directly, for hosts that
// already know which tile failed outside the bulk validator sweep.
func QuarantineTile(world layout.World, regionID string, tileID ids.TileID, nowUnixMs int64) (string, error) {
	return quarantine.Move(world, regionID, tileID, nowUnixMs)
}

// AutosaveTick drives one autosave check through a Snapshotter. Returns whether a snapshot was actually taken this call.
func AutosaveTick(s *backup.Snapshotter, nowUnix int64, project manifest.ProjectManifest, worlds []backup.WorldSave, state editorstate.State) (bool, error) {
	return s.Tick(nowUnix, project, worlds, state)
}

// RecoveryPointer reports the most recent backup snapshot a host can offer
// to restore from, if any exists yet.
func RecoveryPointer(project layout.Project) (dir string, ok bool, err error) {
	return backup.RecoveryPointer(project)
}

// RestoreProject restores a project's manifests and editor state from a
// backup snapshot directory, leaving every world's region and tile data
// untouched.
func RestoreProject(project layout.Project, snapshotDir string) error {
	return backup.Restore(project, snapshotDir)
}
