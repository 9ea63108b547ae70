package config

// Configuration loading and validation for aoiunit runs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tturner/aoiunit/internal/errors"
	"github.com/tturner/aoiunit/internal/logging"
)

// DefaultTagPrefix is prepended to the AOI name when no instance tag is given.
const DefaultTagPrefix = "AT_"

// RunConfig describes one test run
type RunConfig struct {
	// Definition is the L5X export holding the AOI definition.
	Definition string `yaml:"definition"`
	// AOI selects the definition by name; empty uses the vectors file's aoi,
	// then the first definition in the export.
	AOI string `yaml:"aoi,omitempty"`
	// Vectors is the YAML test vector suite.
	Vectors string `yaml:"vectors"`
	// Tag is the AOI instance tag under test.
	Tag string `yaml:"tag,omitempty"`

	// Snapshot is a YAML tag snapshot used as controller memory.
	Snapshot string `yaml:"snapshot,omitempty"`
	// UpdateSnapshot writes the final tag memory back to Snapshot.
	UpdateSnapshot bool `yaml:"update_snapshot,omitempty"`

	ReportJSON string `yaml:"report_json,omitempty"`
	LogFile    string `yaml:"log_file,omitempty"`
	LogLevel   string `yaml:"log_level,omitempty"`
}

// CreateDefaultRunConfig creates a default run configuration
func CreateDefaultRunConfig() *RunConfig {
	return &RunConfig{
		Definition: "AOI_Add.L5X",
		AOI:        "AOI_Add",
		Vectors:    "AOI_Add.vectors.yaml",
		Tag:        DefaultTagPrefix + "AOI_Add",
		Snapshot:   "tags.yaml",
		LogLevel:   "info",
	}
}

// WriteDefaultRunConfig writes a default run configuration to a file
func WriteDefaultRunConfig(path string) error {
	cfg := CreateDefaultRunConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// LoadRunConfig loads and validates a run configuration from a YAML file.
func LoadRunConfig(path string) (*RunConfig, error) {
	cfg, err := ReadRunConfig(path)
	if err != nil {
		return nil, err
	}
	ApplyRunDefaults(cfg)
	if err := ValidateRunConfig(cfg); err != nil {
		return nil, errors.WrapConfigError(err, path)
	}
	return cfg, nil
}

// ReadRunConfig parses a run configuration without applying defaults or
// validating it, so callers can layer flag overrides on top first.
// Relative paths inside the file are resolved against the file's directory.
func ReadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapConfigError(
				fmt.Errorf("config file not found: %s", path),
				path,
			)
		}
		return nil, errors.WrapConfigError(
			fmt.Errorf("read config file: %w", err),
			path,
		)
	}

	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapConfigError(fmt.Errorf("parse YAML: %w", err), path)
	}

	base := filepath.Dir(path)
	for _, p := range []*string{&cfg.Definition, &cfg.Vectors, &cfg.Snapshot, &cfg.ReportJSON, &cfg.LogFile} {
		*p = resolvePath(base, *p)
	}
	return &cfg, nil
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// ApplyRunDefaults fills unset optional fields
func ApplyRunDefaults(cfg *RunConfig) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// ResolveTag returns the configured tag, or the default instance tag for aoi
func (cfg *RunConfig) ResolveTag(aoi string) string {
	if cfg.Tag != "" {
		return cfg.Tag
	}
	return DefaultTagPrefix + aoi
}

// ValidateRunConfig validates a run configuration
func ValidateRunConfig(cfg *RunConfig) error {
	if strings.TrimSpace(cfg.Definition) == "" {
		return fmt.Errorf("definition is required")
	}
	if strings.TrimSpace(cfg.Vectors) == "" {
		return fmt.Errorf("vectors is required")
	}
	if cfg.UpdateSnapshot && cfg.Snapshot == "" {
		return fmt.Errorf("update_snapshot requires snapshot")
	}
	if strings.ContainsAny(cfg.Tag, " \t.[]") {
		return fmt.Errorf("tag %q must be a base tag name", cfg.Tag)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}
