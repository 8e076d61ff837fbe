package content

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PackManifest describes a content pack: a named collection of JSON files
// loaded in a fixed order, for the flat, multi-type record files this
// engine's content loaders consume.
type PackManifest struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Files       []string `yaml:"files"`
}

// LoadPackManifest reads and parses a pack.yaml file. Files are interpreted
// relative to the manifest's directory.
func LoadPackManifest(path string) (*PackManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: reading pack manifest: %w", err)
	}

	var m PackManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("content: parsing pack manifest YAML: %w", err)
	}
	if m.Name == "" {
		return nil, fmt.Errorf("content: pack manifest %s: name is required", path)
	}
	if len(m.Files) == 0 {
		return nil, fmt.Errorf("content: pack manifest %s: at least one file is required", path)
	}
	return &m, nil
}

// ReadPackFiles reads every file named in the manifest, in declared order,
// relative to dir (typically the manifest's own directory). It returns the
// raw bytes of each file paired with its path, for callers to hand to
// ParseRecords per content type.
func ReadPackFiles(dir string, m *PackManifest) ([][]byte, error) {
	out := make([][]byte, 0, len(m.Files))
	for _, f := range m.Files {
		data, err := os.ReadFile(filepath.Join(dir, f))
		if err != nil {
			return nil, fmt.Errorf("content: reading pack file %s: %w", f, err)
		}
		out = append(out, data)
	}
	return out, nil
}

// LoadPackDirectory loads pack.yaml from dir and reads every file it lists,
// returning their raw contents in load order. This is the ambient file
// discovery layer around the core JSON record model: the loaders themselves
// only ever see an in-memory byte slice.
func LoadPackDirectory(dir string) ([][]byte, error) {
	manifestPath := filepath.Join(dir, "pack.yaml")
	if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
		manifestPath = filepath.Join(dir, "pack.yml")
	}
	m, err := LoadPackManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	return ReadPackFiles(dir, m)
}
