package harness

import (
	"errors"
	"fmt"

	"github.com/colesegura/HorizonFrame2-sub000/internal/engine"
	"github.com/colesegura/HorizonFrame2-sub000/internal/level"
	"github.com/colesegura/HorizonFrame2-sub000/internal/milestone"
)

// Run executes a test scenario and returns the result.
//
// Execution flow:
//  1. Build an engine from the scenario's timezone, catalog and policies
//  2. Evaluate the input at the scenario's fixed "now"
//  3. Check every assertion against the evaluation
//
// Engine errors with a runtime code (bad timezone, clock skew, bad catalog)
// are part of the result so that error assertions can match them. Any
// other failure is returned as an error.
func Run(scenario *Scenario) (*Result, error) {
	result := NewResult()

	eng, err := newEngine(scenario)
	if err == nil {
		result.Evaluation, err = eng.Evaluate(scenario.Now, scenario.Input)
	}
	if err != nil {
		code, ok := errorCode(err)
		if !ok {
			return nil, err
		}
		result.ErrorCode = code
	}

	actx := &AssertionContext{Engine: eng, Scenario: scenario}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	// An unexpected engine error fails the scenario even when no assertion
	// looked at it.
	if result.ErrorCode != "" && !expectsError(scenario.Assertions) {
		result.AddError(fmt.Sprintf("unexpected engine error %s: %v", result.ErrorCode, err))
	}

	return result, nil
}

func newEngine(s *Scenario) (*engine.Engine, error) {
	policy, err := engine.ParseClockPolicy(s.ClockPolicy)
	if err != nil {
		return nil, err
	}
	opts := []engine.EngineOption{
		engine.WithClockPolicy(policy),
		engine.WithConsistencyCap(s.ConsistencyCap),
	}

	switch {
	case len(s.Milestones) > 0:
		opts = append(opts, engine.WithCatalog(s.Milestones))
	case s.Catalog != "":
		rules, err := milestone.LoadCatalogFile(s.Catalog)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		opts = append(opts, engine.WithCatalog(rules))
	}

	if s.Level != nil {
		opts = append(opts, engine.WithLevelPolicy(level.ThresholdPolicy{
			MinSamples: s.Level.MinSamples,
			Bars:       s.Level.Bars,
		}))
	}

	zone := s.Timezone
	if zone == "" {
		zone = "UTC"
	}
	return engine.NewForZone(zone, opts...)
}

func errorCode(err error) (string, bool) {
	var rtErr *engine.RuntimeError
	if errors.As(err, &rtErr) {
		return string(rtErr.Code), true
	}
	return "", false
}

func expectsError(assertions []Assertion) bool {
	for _, a := range assertions {
		if a.Type == AssertError {
			return true
		}
	}
	return false
}
