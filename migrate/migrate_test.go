package migrate

import (
	"testing"

	"github.com/fenwick-studio/worldstore/manifest"
)

func TestMigrateProjectNoopAtCurrentVersion(t *testing.T) {
	m := manifest.NewProjectManifest("x")
	if err := MigrateProject(&m); err != nil {
		t.Fatalf("MigrateProject: %v", err)
	}
	if m.FormatVersion != manifest.ProjectFormatVersion {
		t.Fatalf("FormatVersion = %d, want %d", m.FormatVersion, manifest.ProjectFormatVersion)
	}
}

func TestMigrateProjectRejectsVersionBelowMinimum(t *testing.T) {
	m := manifest.NewProjectManifest("x")
	m.FormatVersion = 0
	if err := MigrateProject(&m); err == nil {
		t.Fatal("expected an error for a format version below the minimum")
	}
}

func TestMigrateProjectRejectsVersionNewerThanSupported(t *testing.T) {
	m := manifest.NewProjectManifest("x")
	m.FormatVersion = manifest.ProjectFormatVersion + 1
	if err := MigrateProject(&m); err == nil {
		t.Fatal("expected an error for a format version newer than supported")
	}
}

func TestMigrateProjectAppliesRegisteredChainAndTerminates(t *testing.T) {
	origTarget := manifest.ProjectFormatVersion
	origMigrations := projectMigrations
	defer func() { projectMigrations = origMigrations }()

	// Simulate a future schema bump: register a two-step chain from the
	// current version up to a higher one, confirming the loop walks every
	// step in order and then terminates instead of looping forever.
	const bumped = 3
	applied := []uint32{}
	projectMigrations = []ProjectMigration{
		{From: origTarget, To: origTarget + 1, Apply: func(m *manifest.ProjectManifest) error {
			applied = append(applied, m.FormatVersion)
			return nil
		}},
		{From: origTarget + 1, To: bumped, Apply: func(m *manifest.ProjectManifest) error {
			applied = append(applied, m.FormatVersion)
			return nil
		}},
	}

	m := manifest.NewProjectManifest("x")
	m.FormatVersion = origTarget

	// MigrateProject targets manifest.ProjectFormatVersion, which we cannot
	// reassign (it's a const), so drive the same loop logic directly against
	// our bumped target via the exported migration application path: call
	// the registered migrations by hand through MigrateProject's invariants.
	for m.FormatVersion < bumped {
		from := m.FormatVersion
		mig := findProjectMigration(from)
		if mig == nil {
			t.Fatalf("no migration registered from %d", from)
		}
		if err := mig.Apply(&m); err != nil {
			t.Fatalf("apply migration %d->%d: %v", mig.From, mig.To, err)
		}
		m.FormatVersion = mig.To
	}
	if len(applied) != 2 {
		t.Fatalf("expected 2 migrations applied, got %d", len(applied))
	}
	if m.FormatVersion != bumped {
		t.Fatalf("FormatVersion = %d, want %d", m.FormatVersion, bumped)
	}
}

func TestFindProjectMigrationReportsMissingStep(t *testing.T) {
	origMigrations := projectMigrations
	defer func() { projectMigrations = origMigrations }()
	projectMigrations = []ProjectMigration{{From: 5, To: 6, Apply: func(*manifest.ProjectManifest) error { return nil }}}

	if mig := findProjectMigration(1); mig != nil {
		t.Fatalf("expected no migration registered from version 1, got %+v", mig)
	}
	if mig := findProjectMigration(5); mig == nil || mig.To != 6 {
		t.Fatalf("expected the registered migration from 5, got %+v", mig)
	}
}

func TestNoMigrationFromErrorMessage(t *testing.T) {
	err := &NoMigrationFromError{Kind: "project", From: 7}
	want := "no project migration registered from version 7"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestMigrateWorldNoopAtCurrentVersion(t *testing.T) {
	m := manifest.NewWorldManifest("x", manifest.DefaultWorldSpec)
	if err := MigrateWorld(&m); err != nil {
		t.Fatalf("MigrateWorld: %v", err)
	}
	if m.FormatVersion != manifest.WorldFormatVersion {
		t.Fatalf("FormatVersion = %d, want %d", m.FormatVersion, manifest.WorldFormatVersion)
	}
}
