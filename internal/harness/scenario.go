package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colesegura/HorizonFrame2-sub000/internal/engine"
	"github.com/colesegura/HorizonFrame2-sub000/internal/milestone"
)

// Scenario represents a conformance test scenario loaded from YAML.
// A scenario fixes the clock, the timezone and the records, evaluates them
// through the engine and checks the outcome with assertions.
type Scenario struct {
	// Name is the unique identifier for this scenario (used for golden files).
	Name string `yaml:"name"`

	// Description explains what behavior this scenario validates.
	Description string `yaml:"description"`

	// Timezone is the IANA zone days are bucketed in. Defaults to UTC.
	Timezone string `yaml:"timezone,omitempty"`

	// Now is the evaluation instant.
	Now time.Time `yaml:"now"`

	// ClockPolicy is "reject" (default) or "clamp".
	ClockPolicy string `yaml:"clock_policy,omitempty"`

	// ConsistencyCap bounds the consistency window. Zero means the default.
	ConsistencyCap int `yaml:"consistency_cap,omitempty"`

	// Catalog is a CUE milestone catalog path. Relative paths resolve
	// against the scenario file's directory.
	Catalog string `yaml:"catalog,omitempty"`

	// Milestones is an inline catalog. It takes precedence over Catalog.
	Milestones []milestone.Rule `yaml:"milestones,omitempty"`

	// Level configures threshold-based level advancement. Without it
	// interests never advance.
	Level *LevelSpec `yaml:"level,omitempty"`

	// Input is the record snapshot handed to the engine.
	Input engine.Input `yaml:"input"`

	// Assertions validate the evaluation.
	Assertions []Assertion `yaml:"assertions"`
}

// LevelSpec is the YAML form of level.ThresholdPolicy.
type LevelSpec struct {
	MinSamples int             `yaml:"min_samples"`
	Bars       map[int]float64 `yaml:"bars"`
}

// Assertion represents a check run against the evaluation.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Metric is a dotted path into the metric snapshot, e.g.
	// "current_streak" or "goal_streaks.g1.grace" (metric).
	Metric string `yaml:"metric,omitempty"`

	// Value is the expected metric value (metric).
	Value *float64 `yaml:"value,omitempty"`

	// IDs are the expected milestone ids (newly_unlocked).
	IDs []string `yaml:"ids,omitempty"`

	// LevelUps are the expected level changes (level_ups).
	LevelUps []LevelUpExpect `yaml:"level_ups,omitempty"`

	// Code is the expected runtime error code (error).
	Code string `yaml:"code,omitempty"`
}

// LevelUpExpect is one expected level change.
type LevelUpExpect struct {
	Interest string `yaml:"interest"`
	From     int    `yaml:"from"`
	To       int    `yaml:"to"`
}

// Assertion types.
const (
	AssertMetric        = "metric"
	AssertNewlyUnlocked = "newly_unlocked"
	AssertLevelUps      = "level_ups"
	AssertError         = "error"
	// AssertStable re-evaluates with the new unlocks merged in and expects
	// nothing further to unlock.
	AssertStable = "stable"
)

// LoadScenario loads a scenario file, resolving its catalog next to it.
// Unknown YAML keys are errors.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath is LoadScenario with an explicit directory for
// relative catalog paths.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Catalog != "" && !filepath.IsAbs(scenario.Catalog) && basePath != "" {
		scenario.Catalog = filepath.Join(basePath, scenario.Catalog)
	}
	if scenario.Catalog != "" {
		if _, err := os.Stat(scenario.Catalog); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: catalog file not found: %s", scenario.Catalog)
		}
	}

	return scenario, nil
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return errors.New("name is required")
	}

	if s.Description == "" {
		return errors.New("description is required")
	}

	if s.Now.IsZero() {
		return errors.New("now is required")
	}

	if _, err := engine.ParseClockPolicy(s.ClockPolicy); err != nil {
		return err
	}

	if len(s.Assertions) == 0 {
		return errors.New("at least one assertion is required")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion checks the fields each assertion type needs.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertMetric:
		if a.Metric == "" {
			return fmt.Errorf("assertions[%d]: metric is required for metric", index)
		}
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for metric", index)
		}
	case AssertNewlyUnlocked, AssertLevelUps, AssertStable:
		// Empty lists are meaningful: they assert that nothing happened.
	case AssertError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
