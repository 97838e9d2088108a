// Package backup implements the autosave/backup snapshotter: an
// interval-gated tick that writes out manifests and keeps a bounded
// history of full project snapshots for recovery.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/fenwick-studio/worldstore/editorstate"
	"github.com/fenwick-studio/worldstore/layout"
	"github.com/fenwick-studio/worldstore/manifest"
	"github.com/sirupsen/logrus"
	times "gopkg.in/djherbis/times.v1"
)

// DefaultIntervalSeconds is how often AutosaveTick actually does work when
// called more often than that.
const DefaultIntervalSeconds = 60

// Retention is the number of snapshot directories kept under
// .editor/backups before the oldest are pruned.
const Retention = 5

// Snapshotter drives autosave ticks for one project.
type Snapshotter struct {
	Project          layout.Project
	IntervalSeconds  int64
	lastSnapshotUnix int64
}

// NewSnapshotter returns a Snapshotter using DefaultIntervalSeconds.
func NewSnapshotter(project layout.Project) *Snapshotter {
	return &Snapshotter{Project: project, IntervalSeconds: DefaultIntervalSeconds}
}

// WorldSave pairs a world's manifest root with the manifest to persist,
// so AutosaveTick can save every open world in one pass.
type WorldSave struct {
	WorldID  string
	Manifest manifest.WorldManifest
}

// Tick runs an autosave pass if at least IntervalSeconds have elapsed
// since the last one. nowUnix is supplied by the caller rather than read
// from the wall clock, keeping autosave timing deterministic under test.
// The first call always runs. A pass writes the current manifests, then
// takes a full snapshot named by nowUnix in milliseconds and prunes old
// ones; a skipped call writes nothing.
func (s *Snapshotter) Tick(nowUnix int64, project manifest.ProjectManifest, worlds []WorldSave, state editorstate.State) (bool, error) {
	if s.lastSnapshotUnix != 0 && nowUnix-s.lastSnapshotUnix < s.IntervalSeconds {
		return false, nil
	}

	if err := manifest.WriteProjectManifest(s.Project.Root, project); err != nil {
		return false, fmt.Errorf("autosave project manifest: %w", err)
	}
	for _, w := range worlds {
		worldRoot := s.Project.World(w.WorldID).Root
		if err := manifest.WriteWorldManifest(worldRoot, w.Manifest); err != nil {
			return false, fmt.Errorf("autosave world manifest %s: %w", w.WorldID, err)
		}
	}

	if err := s.snapshot(nowUnix*1000, project, worlds, state); err != nil {
		return false, fmt.Errorf("take backup snapshot: %w", err)
	}
	if err := s.prune(); err != nil {
		return false, fmt.Errorf("prune old backups: %w", err)
	}

	s.lastSnapshotUnix = nowUnix
	logrus.WithField("project", s.Project.Root).Info("autosave tick complete")
	return true, nil
}

// snapshot writes one full .editor/backups/<unixMs> directory.
func (s *Snapshotter) snapshot(unixMs int64, project manifest.ProjectManifest, worlds []WorldSave, state editorstate.State) error {
	dir := s.Project.BackupSnapshotPath(unixMs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := manifest.WriteProjectManifest(dir, project); err != nil {
		return err
	}
	if err := editorstate.Save(filepath.Join(dir, layout.EditorStateName), state); err != nil {
		return err
	}
	for _, w := range worlds {
		worldDir := filepath.Join(dir, layout.WorldsDir, w.WorldID)
		if err := manifest.WriteWorldManifest(worldDir, w.Manifest); err != nil {
			return err
		}
	}
	return nil
}

// prune keeps the Retention most recent snapshot directories, ordered by
// their directory-name timestamp, and removes the rest.
func (s *Snapshotter) prune() error {
	entries, err := os.ReadDir(s.Project.BackupsDirPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var stamps []int64
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		ts, err := strconv.ParseInt(e.Name(), 10, 64)
		if err != nil {
			continue
		}
		stamps = append(stamps, ts)
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i] < stamps[j] })

	if len(stamps) <= Retention {
		return nil
	}
	toRemove := stamps[:len(stamps)-Retention]
	for _, ts := range toRemove {
		dir := s.Project.BackupSnapshotPath(ts)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove old backup %s: %w", dir, err)
		}
	}
	return nil
}

// RecoveryPointer returns the most recent snapshot directory, the one a
// restore would use, or ok=false if no snapshot exists yet.
func RecoveryPointer(project layout.Project) (dir string, ok bool, err error) {
	entries, err := os.ReadDir(project.BackupsDirPath())
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	var best int64 = -1
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		ts, err := strconv.ParseInt(e.Name(), 10, 64)
		if err != nil {
			continue
		}
		if ts > best {
			best = ts
		}
	}
	if best < 0 {
		return "", false, nil
	}
	return project.BackupSnapshotPath(best), true, nil
}

// Restore copies a snapshot's manifests and editor state back over the
// project's live files. It only ever touches project.toml, world.toml
// files, and editor_state.toml: region and tile data under each world's
// regions/ directory is never read or written, so a restore cannot
// resurrect or discard any tile content.
func Restore(project layout.Project, snapshotDir string) error {
	snapshotManifest, err := manifest.ReadProjectManifest(snapshotDir)
	if err != nil {
		return fmt.Errorf("read snapshot project manifest: %w", err)
	}
	if err := manifest.WriteProjectManifest(project.Root, snapshotManifest); err != nil {
		return fmt.Errorf("restore project manifest: %w", err)
	}

	snapshotStatePath := filepath.Join(snapshotDir, layout.EditorStateName)
	state, err := editorstate.Load(snapshotStatePath)
	if err != nil {
		return fmt.Errorf("read snapshot editor state: %w", err)
	}
	if err := editorstate.Save(project.EditorStatePath(), state); err != nil {
		return fmt.Errorf("restore editor state: %w", err)
	}

	snapshotWorldsDir := filepath.Join(snapshotDir, layout.WorldsDir)
	entries, err := os.ReadDir(snapshotWorldsDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("list snapshot worlds: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		worldID := e.Name()
		worldManifest, err := manifest.ReadWorldManifest(filepath.Join(snapshotWorldsDir, worldID))
		if err != nil {
			return fmt.Errorf("read snapshot world manifest %s: %w", worldID, err)
		}
		if err := manifest.WriteWorldManifest(project.World(worldID).Root, worldManifest); err != nil {
			return fmt.Errorf("restore world manifest %s: %w", worldID, err)
		}
	}
	logrus.WithFields(logrus.Fields{
		"project":  project.Root,
		"snapshot": snapshotDir,
	}).Info("restored project from backup snapshot")
	return nil
}

// Diagnostics reports filesystem-reported creation/modification times for
// a snapshot directory, used for operator-facing "last backed up" display
// rather than for any restore decision.
type Diagnostics struct {
	ModTime      string
	HasBirthTime bool
	BirthTime    string
}

// Inspect reads birth/modification times for path via the times package,
// falling back gracefully on platforms that don't report a birth time.
func Inspect(path string) (Diagnostics, error) {
	t, err := times.Stat(path)
	if err != nil {
		return Diagnostics{}, fmt.Errorf("stat %s: %w", path, err)
	}
	d := Diagnostics{ModTime: t.ModTime().Format("2006-01-02T15:04:05Z07:00")}
	if t.HasBirthTime() {
		d.HasBirthTime = true
		d.BirthTime = t.BirthTime().Format("2006-01-02T15:04:05Z07:00")
	}
	return d, nil
}
