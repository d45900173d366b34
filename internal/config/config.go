// Package config loads the two configuration documents the
// test-generation pipeline is driven by: TestGenConfig (enumerator tuning)
// and TestCodeGenConfig (emitted-source shape), in YAML, TOML, or JSON
// form.
package config

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/comalice/stateproof/internal/enumerator"
)

// TestGenConfig is the serialized enumerator-tuning document.
type TestGenConfig struct {
	MaxVisitsPerState    int    `json:"max_visits_per_state" yaml:"max_visits_per_state" toml:"max_visits_per_state"`
	MaxPathDepth         *int   `json:"max_path_depth,omitempty" yaml:"max_path_depth,omitempty" toml:"max_path_depth,omitempty"`
	IncludeTerminalPaths bool   `json:"include_terminal_paths" yaml:"include_terminal_paths" toml:"include_terminal_paths"`
	HashAlgorithm        string `json:"hash_algorithm" yaml:"hash_algorithm" toml:"hash_algorithm"`
}

// ToEnumeratorConfig translates the serialized document into
// enumerator.Config, resolving hash_algorithm's string form ("CRC16"/"CRC32").
func (c TestGenConfig) ToEnumeratorConfig() (enumerator.Config, error) {
	cfg := enumerator.Config{
		MaxVisitsPerState:    c.MaxVisitsPerState,
		MaxPathDepth:         c.MaxPathDepth,
		IncludeTerminalPaths: c.IncludeTerminalPaths,
	}
	switch c.HashAlgorithm {
	case "CRC16", "":
		cfg.HashAlgorithm = enumerator.CRC16
	case "CRC32":
		cfg.HashAlgorithm = enumerator.CRC32
	default:
		return enumerator.Config{}, fmt.Errorf("config: unknown hash_algorithm %q", c.HashAlgorithm)
	}
	if c.MaxVisitsPerState < 1 {
		return enumerator.Config{}, fmt.Errorf("config: max_visits_per_state must be >= 1, got %d", c.MaxVisitsPerState)
	}
	return cfg, nil
}

// TestCodeGenConfig describes the shape of the emitted test source.
type TestCodeGenConfig struct {
	PackageName         string   `json:"package_name" yaml:"package_name" toml:"package_name"`
	TestClassName       string   `json:"test_class_name" yaml:"test_class_name" toml:"test_class_name"`
	EventClassPrefix    string   `json:"event_class_prefix" yaml:"event_class_prefix" toml:"event_class_prefix"`
	StateMachineFactory string   `json:"state_machine_factory" yaml:"state_machine_factory" toml:"state_machine_factory"`
	AdditionalImports   []string `json:"additional_imports" yaml:"additional_imports" toml:"additional_imports"`
	UseBlockingRunner   bool     `json:"use_blocking_runner" yaml:"use_blocking_runner" toml:"use_blocking_runner"`
}

// LoadJSON decodes a TestGenConfig or TestCodeGenConfig document from r.
func LoadJSON(r io.Reader, out any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("config: decode json: %w", err)
	}
	return nil
}

// LoadYAML decodes a TestGenConfig or TestCodeGenConfig document from r.
func LoadYAML(r io.Reader, out any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("config: decode yaml: %w", err)
	}
	return nil
}

// LoadTOML decodes a TestGenConfig or TestCodeGenConfig document from r.
func LoadTOML(r io.Reader, out any) error {
	if _, err := toml.NewDecoder(r).Decode(out); err != nil {
		return fmt.Errorf("config: decode toml: %w", err)
	}
	return nil
}
