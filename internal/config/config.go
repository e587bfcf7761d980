// Package config loads anchorix.yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up when --config is not given.
const DefaultFile = "anchorix.yaml"

// Mode selects how handler errors are reported.
type Mode string

const (
	// ModeFailFast stops a module at its first malformed handler.
	ModeFailFast Mode = "fail_fast"
	// ModeCollectAll reports every malformed handler.
	ModeCollectAll Mode = "collect_all"
)

// Config holds scanner settings. Zero values are filled by Load.
type Config struct {
	// ProgramAttribute is the attribute marking program modules.
	ProgramAttribute string `yaml:"program_attribute"`

	// ContextType, when set, requires the context parameter to be this
	// type (e.g. "Context").
	ContextType string `yaml:"context_type,omitempty"`

	Mode Mode `yaml:"mode"`

	// Workers bounds concurrent handler validation. 1 scans sequentially,
	// 0 means unbounded.
	Workers int `yaml:"workers"`

	// Store is the scan history database. Empty disables recording.
	Store string `yaml:"store,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ProgramAttribute: "program",
		Mode:             ModeFailFast,
		Workers:          1,
	}
}

// Load reads a config file. A missing file yields Default.
// Unknown fields are rejected so typos surface early.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeFailFast, ModeCollectAll:
	default:
		return fmt.Errorf("mode %q: must be %q or %q", c.Mode, ModeFailFast, ModeCollectAll)
	}
	if c.ProgramAttribute == "" {
		return errors.New("program_attribute must not be empty")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	return nil
}
