package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileNames are the project config files looked up, in order.
var FileNames = []string{".weave.yml", ".weave.yaml"}

// ProjectConfig holds project-level settings loaded from .weave.yml.
type ProjectConfig struct {
	Keyword         string `yaml:"keyword,omitempty"`
	UnchangedMarker string `yaml:"unchanged_marker,omitempty"`
	ArchiveDir      string `yaml:"archive_dir,omitempty"`
	DiffContext     int    `yaml:"diff_context,omitempty"`
}

// Load reads .weave.yml or .weave.yaml from dir. Returns a zero-value
// config (not an error) if no config file exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range FileNames {
		cfg, err := LoadFile(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return &ProjectConfig{}, nil
}

// LoadFile reads one config file.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if cfg.DiffContext < 0 {
		return nil, fmt.Errorf("invalid config %s: diff_context must not be negative", path)
	}
	return &cfg, nil
}
