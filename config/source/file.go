// Package source provides the standard configuration sources: YAML files,
// environment variables and command-line flags.
package source

import (
	"context"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/barkit/barkit/config"
)

// FileSource loads YAML configuration from a directory. The base file is
// bar.yaml (or bar.yml); when Profile is set, bar.{profile}.yaml overlays
// it top-level-key-wise. A missing profile file is ignored.
type FileSource struct {
	// BasePath is the directory holding the configuration files.
	BasePath string
	// Profile selects an optional overlay, e.g. "laptop" for
	// bar.laptop.yaml.
	Profile string
}

func (f *FileSource) Name() string { return "file" }

// Load reads the base file and the optional profile overlay. Returns
// os.ErrNotExist when no base file is present.
func (f *FileSource) Load(ctx context.Context) (map[string]any, error) {
	baseFile := findYAMLFile(f.BasePath, "bar")
	if baseFile == "" {
		return nil, os.ErrNotExist
	}

	data := map[string]any{}
	if err := readYAML(baseFile, data); err != nil {
		return nil, err
	}

	if f.Profile != "" {
		if overlay := findYAMLFile(f.BasePath, "bar."+f.Profile); overlay != "" {
			if err := readYAML(overlay, data); err != nil {
				return nil, err
			}
		}
	}
	return data, nil
}

// Watch is not supported for files.
func (f *FileSource) Watch(ctx context.Context, ch chan<- config.Event) error { return nil }

func findYAMLFile(dir, basename string) string {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(dir, basename+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func readYAML(path string, out map[string]any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, &out)
}
