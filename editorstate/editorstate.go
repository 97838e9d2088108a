// Package editorstate persists host-editor UI state that has nothing to
// do with world content: dock layout, last opened world, autosave toggle.
// The host is responsible for deciding when to save; this package only
// defines the file and its defaults.
package editorstate

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
)

// State is the decoded contents of .editor/editor_state.toml.
type State struct {
	DockLayout      string `toml:"dock_layout"`
	LastWorldID     string `toml:"last_world_id"`
	AutosaveEnabled bool   `toml:"autosave_enabled"`
}

// Default returns the state a project gets before any editor_state.toml
// has ever been written.
func Default() State {
	return State{AutosaveEnabled: true}
}

// Load reads path, returning Default() rather than an error when the file
// does not yet exist.
func Load(path string) (State, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return State{}, fmt.Errorf("read editor state %s: %w", path, err)
	}
	var s State
	if err := toml.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("decode editor state %s: %w", path, err)
	}
	return s, nil
}

// Save writes state to path, creating its parent directory if needed.
func Save(path string, state State) error {
	data, err := toml.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode editor state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create editor state directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write editor state %s: %w", path, err)
	}
	logrus.WithField("path", path).Debug("wrote editor state")
	return nil
}
