package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/anchorix/internal/config"
)

// Scenario defines one scan and what it must produce.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// Source is the Rust file to scan. LoadScenario resolves it relative
	// to the scenario file.
	Source string `yaml:"source"`

	// Module restricts the scan to one module. Empty scans every program.
	Module string `yaml:"module,omitempty"`

	// Mode is fail_fast (default) or collect_all.
	Mode config.Mode `yaml:"mode,omitempty"`

	// Workers is passed to the engine. Zero means sequential here, unlike
	// the config file, so scenarios stay deterministic by default.
	Workers int `yaml:"workers,omitempty"`

	Assertions []Assertion `yaml:"assertions"`
}

// Assertion checks one property of a scan result.
type Assertion struct {
	Type string `yaml:"type"`

	// Count is used by program_count.
	Count int `yaml:"count,omitempty"`

	// Program names the program (instruction, instruction_order).
	Program string `yaml:"program,omitempty"`

	// Name, ContextIdent and Args are used by instruction. Args lists
	// argument names in order; nil skips the check, [] requires none.
	Name         string   `yaml:"name,omitempty"`
	ContextIdent string   `yaml:"context_ident,omitempty"`
	Args         []string `yaml:"args,omitempty,flow"`

	// Names is used by instruction_order.
	Names []string `yaml:"names,omitempty,flow"`

	// Kind is the compiler error kind (error_kind, diagnostic).
	Kind string `yaml:"kind,omitempty"`

	// Field is the handler name (diagnostic).
	Field string `yaml:"field,omitempty"`
}

// Assertion type constants.
const (
	AssertProgramCount     = "program_count"
	AssertInstruction      = "instruction"
	AssertInstructionOrder = "instruction_order"
	AssertErrorKind        = "error_kind"
	AssertDiagnostic       = "diagnostic"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Source != "" && !filepath.IsAbs(scenario.Source) {
		scenario.Source = filepath.Join(filepath.Dir(path), scenario.Source)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Source == "" {
		return fmt.Errorf("source is required")
	}
	if _, err := os.Stat(s.Source); os.IsNotExist(err) {
		return fmt.Errorf("source file not found: %s", s.Source)
	}

	switch s.Mode {
	case "", config.ModeFailFast, config.ModeCollectAll:
	default:
		return fmt.Errorf("mode %q: must be %q or %q", s.Mode, config.ModeFailFast, config.ModeCollectAll)
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", s.Workers)
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertProgramCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be >= 0", index)
		}
	case AssertInstruction:
		if a.Program == "" || a.Name == "" {
			return fmt.Errorf("assertions[%d]: program and name are required for instruction", index)
		}
	case AssertInstructionOrder:
		if a.Program == "" {
			return fmt.Errorf("assertions[%d]: program is required for instruction_order", index)
		}
	case AssertErrorKind:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for error_kind", index)
		}
	case AssertDiagnostic:
		if a.Field == "" || a.Kind == "" {
			return fmt.Errorf("assertions[%d]: field and kind are required for diagnostic", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown type %q", index, a.Type)
	}
	return nil
}
