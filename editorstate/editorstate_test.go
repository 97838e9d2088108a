package editorstate

import (
	"path/filepath"
	"testing"
)

func TestLoadReturnsDefaultWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editor_state.toml")
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != Default() {
		t.Fatalf("Load() = %+v, want %+v", got, Default())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "editor_state.toml")
	state := State{DockLayout: "layout-a", LastWorldID: "world-1", AutosaveEnabled: false}
	if err := Save(path, state); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != state {
		t.Fatalf("Load() = %+v, want %+v", got, state)
	}
}
