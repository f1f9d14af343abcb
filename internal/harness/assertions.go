package harness

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/colesegura/HorizonFrame2-sub000/internal/engine"
	"github.com/colesegura/HorizonFrame2-sub000/internal/record"
)

// metricTolerance absorbs float rounding in consistency and progress values.
const metricTolerance = 1e-9

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// AssertionContext carries what the stable assertion needs to re-evaluate.
type AssertionContext struct {
	Engine   *engine.Engine
	Scenario *Scenario
}

// EvaluateAssertions checks every assertion and returns failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		if assertion.Type != AssertError && result.Evaluation == nil {
			err = fmt.Errorf("assertion[%d]: %s needs an evaluation but the engine failed with %s",
				i, assertion.Type, result.ErrorCode)
			errors = append(errors, err.Error())
			continue
		}

		switch assertion.Type {
		case AssertMetric:
			err = assertMetric(result.Evaluation.Metrics, assertion)
		case AssertNewlyUnlocked:
			err = assertNewlyUnlocked(result.Evaluation, assertion)
		case AssertLevelUps:
			err = assertLevelUps(result.Evaluation, assertion)
		case AssertError:
			err = assertErrorCode(result, assertion)
		case AssertStable:
			if actx == nil || actx.Engine == nil || actx.Scenario == nil {
				err = fmt.Errorf("assertion[%d]: stable requires an engine context", i)
			} else {
				err = assertStable(actx, result.Evaluation)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

// assertMetric resolves a dotted path in the canonical snapshot and compares
// it numerically.
func assertMetric(snap engine.Snapshot, assertion Assertion) error {
	actual, err := lookupMetric(snap.Canonical(), assertion.Metric)
	if err != nil {
		return &AssertionError{
			Type:     AssertMetric,
			Expected: fmt.Sprintf("%s = %v", assertion.Metric, *assertion.Value),
			Actual:   err.Error(),
		}
	}
	if math.Abs(actual-*assertion.Value) > metricTolerance {
		return &AssertionError{
			Type:     AssertMetric,
			Expected: fmt.Sprintf("%s = %v", assertion.Metric, *assertion.Value),
			Actual:   fmt.Sprintf("%s = %v", assertion.Metric, actual),
		}
	}
	return nil
}

func lookupMetric(tree map[string]any, path string) (float64, error) {
	var cur any = tree
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return 0, fmt.Errorf("%s: %q is not an object", path, part)
		}
		cur, ok = m[part]
		if !ok {
			return 0, fmt.Errorf("%s: no field %q (have %s)", path, part, strings.Join(slices.Sorted(maps.Keys(m)), ", "))
		}
	}
	switch v := cur.(type) {
	case int:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("%s: not a number (%T)", path, cur)
	}
}

func assertNewlyUnlocked(res *engine.Result, assertion Assertion) error {
	want := assertion.IDs
	if want == nil {
		want = []string{}
	}
	if !slices.Equal(res.NewlyUnlocked, want) {
		return &AssertionError{
			Type:     AssertNewlyUnlocked,
			Expected: fmt.Sprintf("%v", want),
			Actual:   fmt.Sprintf("%v", res.NewlyUnlocked),
		}
	}
	return nil
}

func assertLevelUps(res *engine.Result, assertion Assertion) error {
	actual := make([]LevelUpExpect, len(res.LevelUps))
	for i, up := range res.LevelUps {
		actual[i] = LevelUpExpect{Interest: up.InterestID, From: up.From, To: up.To}
	}
	want := assertion.LevelUps
	if want == nil {
		want = []LevelUpExpect{}
	}
	if !slices.Equal(actual, want) {
		return &AssertionError{
			Type:     AssertLevelUps,
			Expected: fmt.Sprintf("%+v", want),
			Actual:   fmt.Sprintf("%+v", actual),
		}
	}
	return nil
}

func assertErrorCode(result *Result, assertion Assertion) error {
	if result.ErrorCode != assertion.Code {
		actual := result.ErrorCode
		if actual == "" {
			actual = "no error"
		}
		return &AssertionError{
			Type:     AssertError,
			Expected: assertion.Code,
			Actual:   actual,
		}
	}
	return nil
}

// assertStable merges the first evaluation's unlocks into the input and
// evaluates again. Nothing may unlock twice.
func assertStable(actx *AssertionContext, first *engine.Result) error {
	in := actx.Scenario.Input
	unlocked := make([]record.UnlockedMilestone, 0, len(in.Unlocked)+len(first.Unlocks))
	unlocked = append(unlocked, in.Unlocked...)
	unlocked = append(unlocked, first.Unlocks...)
	in.Unlocked = unlocked

	second, err := actx.Engine.Evaluate(actx.Scenario.Now, in)
	if err != nil {
		return fmt.Errorf("stable: re-evaluation failed: %w", err)
	}
	if len(second.NewlyUnlocked) > 0 {
		return &AssertionError{
			Type:     AssertStable,
			Expected: "no milestones on re-evaluation",
			Actual:   fmt.Sprintf("%v", second.NewlyUnlocked),
		}
	}
	return nil
}
