// Package config loads rpack settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kk-code-lab/rpack/internal/errkind"
	"gopkg.in/yaml.v3"
)

// FileName is the config file inside the user config dir.
const FileName = "config.yaml"

// Config holds every tunable of a session.
type Config struct {
	ChunkSize      int      `yaml:"chunk_size"`
	OutputDir      string   `yaml:"output_dir"`
	ArchivePattern string   `yaml:"archive_pattern"`
	CacheFile      string   `yaml:"cache_file"`
	StructureFile  string   `yaml:"structure_file"`
	WritePrompts   bool     `yaml:"write_prompts"`
	SkipHidden     bool     `yaml:"skip_hidden"`
	Exclude        []string `yaml:"exclude"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ChunkSize:      10,
		OutputDir:      "rpack_files",
		ArchivePattern: "project_archive_%d.zip",
		CacheFile:      ".rpack_cache.json",
		StructureFile:  "directory_structure.txt",
		WritePrompts:   true,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/rpack/config.yaml or its platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user config directory: %w", err)
	}
	return filepath.Join(dir, "rpack", FileName), nil
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings no session could run with.
func (c Config) Validate() error {
	if c.ChunkSize < 1 {
		return errkind.Param("chunk_size", c.ChunkSize)
	}
	names := []struct{ param, value string }{
		{"output_dir", c.OutputDir},
		{"archive_pattern", c.ArchivePattern},
		{"cache_file", c.CacheFile},
		{"structure_file", c.StructureFile},
	}
	for _, n := range names {
		if err := checkName(n.param, n.value); err != nil {
			return err
		}
	}
	if strings.Count(c.ArchivePattern, "%") != 1 || !strings.Contains(c.ArchivePattern, "%d") {
		return errkind.Param("archive_pattern", c.ArchivePattern)
	}
	return nil
}

// checkName accepts a single path element relative to the tree root.
func checkName(param, value string) error {
	if value == "" || value == "." || value == ".." || strings.ContainsAny(value, `/\`) {
		return errkind.Param(param, value)
	}
	return nil
}

// Marshal renders c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteDefault creates path with the default settings. An existing file is
// left alone unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config %s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := Default().Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
