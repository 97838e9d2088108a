// Package migrate implements bounded, monotonic manifest upgrade chains:
// one linear registry per manifest type, each migration named by the
// version it starts from and the version it lands on, applied in
// sequence until the manifest reaches the target version.
package migrate

import (
	"fmt"

	"github.com/fenwick-studio/worldstore/manifest"
)

// MinProjectFormatVersion is the oldest ProjectManifest version this build
// can still migrate forward.
const MinProjectFormatVersion uint32 = 1

// MinWorldFormatVersion is the oldest WorldManifest version this build can
// still migrate forward.
const MinWorldFormatVersion uint32 = 1

// ProjectMigration upgrades a ProjectManifest from one format version to
// the next.
type ProjectMigration struct {
	From  uint32
	To    uint32
	Apply func(*manifest.ProjectManifest) error
}

// WorldMigration upgrades a WorldManifest from one format version to the
// next.
type WorldMigration struct {
	From  uint32
	To    uint32
	Apply func(*manifest.WorldManifest) error
}

// projectMigrations is empty: the schema has not changed since version 1.
// Add entries here, keyed by From, the day ProjectFormatVersion increments.
var projectMigrations []ProjectMigration

// worldMigrations is empty for the same reason.
var worldMigrations []WorldMigration

// NoMigrationFromError reports that no registered migration starts at the
// manifest's current version, even though one is required to reach target.
type NoMigrationFromError struct {
	Kind string
	From uint32
}

func (e *NoMigrationFromError) Error() string {
	return fmt.Sprintf("no %s migration registered from version %d", e.Kind, e.From)
}

// MigrateProject walks m forward to manifest.ProjectFormatVersion, applying
// registered migrations in order. Fails immediately (without mutating m) if
// the manifest is older than MinProjectFormatVersion or newer than the
// target version.
func MigrateProject(m *manifest.ProjectManifest) error {
	if m.FormatVersion < MinProjectFormatVersion {
		return fmt.Errorf("project manifest format version %d is below minimum %d", m.FormatVersion, MinProjectFormatVersion)
	}
	if m.FormatVersion > manifest.ProjectFormatVersion {
		return fmt.Errorf("project manifest format version %d is newer than supported %d", m.FormatVersion, manifest.ProjectFormatVersion)
	}
	for m.FormatVersion < manifest.ProjectFormatVersion {
		from := m.FormatVersion
		mig := findProjectMigration(from)
		if mig == nil {
			return &NoMigrationFromError{Kind: "project", From: from}
		}
		if err := mig.Apply(m); err != nil {
			return fmt.Errorf("apply project migration %d->%d: %w", mig.From, mig.To, err)
		}
		m.FormatVersion = mig.To
	}
	return nil
}

// MigrateWorld walks m forward to manifest.WorldFormatVersion the same way
// MigrateProject does for project manifests.
func MigrateWorld(m *manifest.WorldManifest) error {
	if m.FormatVersion < MinWorldFormatVersion {
		return fmt.Errorf("world manifest format version %d is below minimum %d", m.FormatVersion, MinWorldFormatVersion)
	}
	if m.FormatVersion > manifest.WorldFormatVersion {
		return fmt.Errorf("world manifest format version %d is newer than supported %d", m.FormatVersion, manifest.WorldFormatVersion)
	}
	for m.FormatVersion < manifest.WorldFormatVersion {
		from := m.FormatVersion
		mig := findWorldMigration(from)
		if mig == nil {
			return &NoMigrationFromError{Kind: "world", From: from}
		}
		if err := mig.Apply(m); err != nil {
			return fmt.Errorf("apply world migration %d->%d: %w", mig.From, mig.To, err)
		}
		m.FormatVersion = mig.To
	}
	return nil
}

func findProjectMigration(from uint32) *ProjectMigration {
	for i := range projectMigrations {
		if projectMigrations[i].From == from {
			return &projectMigrations[i]
		}
	}
	return nil
}

func findWorldMigration(from uint32) *WorldMigration {
	for i := range worldMigrations {
		if worldMigrations[i].From == from {
			return &worldMigrations[i]
		}
	}
	return nil
}
