package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/colesegura/HorizonFrame2-sub000/internal/engine"
	"github.com/colesegura/HorizonFrame2-sub000/internal/record"
)

// EvaluationSnapshot captures the engine output for a scenario.
// The input hash is left out: it changes whenever a scenario file is edited
// and is covered by the engine's own determinism tests.
type EvaluationSnapshot struct {
	ScenarioName string
	Evaluation   *engine.Result
	ErrorCode    string
}

// toCanonicalMap converts the snapshot to a map[string]any for canonical
// JSON serialization.
func (s *EvaluationSnapshot) toCanonicalMap() map[string]any {
	out := map[string]any{
		"scenario_name": s.ScenarioName,
	}
	if s.Evaluation != nil {
		eval := s.Evaluation.Canonical()
		delete(eval, "input_hash")
		out["evaluation"] = eval
	}
	if s.ErrorCode != "" {
		out["error_code"] = s.ErrorCode
	}
	return out
}

// SnapshotJSON renders the golden form of a result as canonical JSON.
func SnapshotJSON(scenarioName string, result *Result) ([]byte, error) {
	snapshot := EvaluationSnapshot{
		ScenarioName: scenarioName,
		Evaluation:   result.Evaluation,
		ErrorCode:    result.ErrorCode,
	}
	return record.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden runs scenario and fails t when its snapshot differs from
// testdata/golden/<name>.golden. Pass -update to rewrite the goldens.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := SnapshotJSON(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
