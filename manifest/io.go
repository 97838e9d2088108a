package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
)

// ProjectManifestFile is the file name of a project's manifest.
const ProjectManifestFile = "project.toml"

// WorldManifestFile is the file name of a world's manifest.
const WorldManifestFile = "world.toml"

// WriteProjectManifest creates projectRoot if needed and writes the
// manifest as pretty TOML.
func WriteProjectManifest(projectRoot string, m ProjectManifest) error {
	if err := os.MkdirAll(projectRoot, 0o755); err != nil {
		return fmt.Errorf("create project root %s: %w", projectRoot, err)
	}
	path := filepath.Join(projectRoot, ProjectManifestFile)
	text, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal project manifest: %w", err)
	}
	if err := os.WriteFile(path, text, 0o644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	logrus.WithField("path", path).Debug("wrote project manifest")
	return nil
}

// ReadProjectManifest reads and decodes "<projectRoot>/project.toml".
// Unknown keys are ignored; missing keys fall back to defaults.
func ReadProjectManifest(projectRoot string) (ProjectManifest, error) {
	path := filepath.Join(projectRoot, ProjectManifestFile)
	text, err := os.ReadFile(path)
	if err != nil {
		return ProjectManifest{}, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m ProjectManifest
	if err := toml.Unmarshal(text, &m); err != nil {
		return ProjectManifest{}, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	m.applyDefaults()
	return m, nil
}

// WriteWorldManifest creates worldRoot if needed and writes the manifest as
// pretty TOML.
func WriteWorldManifest(worldRoot string, m WorldManifest) error {
	if err := os.MkdirAll(worldRoot, 0o755); err != nil {
		return fmt.Errorf("create world root %s: %w", worldRoot, err)
	}
	path := filepath.Join(worldRoot, WorldManifestFile)
	text, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal world manifest: %w", err)
	}
	if err := os.WriteFile(path, text, 0o644); err != nil {
		return fmt.Errorf("write world manifest %s: %w", path, err)
	}
	logrus.WithField("path", path).Debug("wrote world manifest")
	return nil
}

// ReadWorldManifest reads and decodes "<worldRoot>/world.toml".
func ReadWorldManifest(worldRoot string) (WorldManifest, error) {
	path := filepath.Join(worldRoot, WorldManifestFile)
	text, err := os.ReadFile(path)
	if err != nil {
		return WorldManifest{}, fmt.Errorf("read world manifest %s: %w", path, err)
	}
	var m WorldManifest
	if err := toml.Unmarshal(text, &m); err != nil {
		return WorldManifest{}, fmt.Errorf("decode world manifest %s: %w", path, err)
	}
	return m, nil
}
