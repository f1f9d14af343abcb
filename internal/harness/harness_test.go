package harness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colesegura/HorizonFrame2-sub000/internal/engine"
	"github.com/colesegura/HorizonFrame2-sub000/internal/milestone"
	"github.com/colesegura/HorizonFrame2-sub000/internal/record"
	"github.com/colesegura/HorizonFrame2-sub000/internal/testutil"
)

func value(f float64) *float64 { return &f }

func jul(day, hour int) time.Time {
	return testutil.Date(time.UTC, 2024, time.July, day, hour)
}

func TestRun_MinimalScenario(t *testing.T) {
	scenario := &Scenario{
		Name:        "minimal",
		Description: "Three consecutive days",
		Now:         jul(3, 20),
		Input:       engine.Input{Events: testutil.Daily(jul(1, 9), 3)},
		Assertions: []Assertion{
			{Type: AssertMetric, Metric: "current_streak", Value: value(3)},
			{Type: AssertNewlyUnlocked, IDs: []string{"first_step", "streak_3"}},
			{Type: AssertStable},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	require.NotNil(t, result.Evaluation)
	assert.Equal(t, 3, result.Evaluation.Metrics.LongestStreak)
}

func TestRun_FailingAssertionsAreReported(t *testing.T) {
	scenario := &Scenario{
		Name:        "failing",
		Description: "Wrong expectations",
		Now:         jul(3, 20),
		Input:       engine.Input{Events: testutil.Daily(jul(1, 9), 3)},
		Assertions: []Assertion{
			{Type: AssertMetric, Metric: "current_streak", Value: value(4)},
			{Type: AssertNewlyUnlocked, IDs: []string{}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "current_streak = 3")
	assert.Contains(t, result.Errors[1], "[first_step streak_3]")
}

func TestRun_ExpectedErrorCode(t *testing.T) {
	scenario := &Scenario{
		Name:        "skew",
		Description: "Clock behind the log",
		Now:         jul(1, 20),
		Input:       engine.Input{Events: []record.AlignmentEvent{testutil.Completed("ev", jul(5, 9))}},
		Assertions:  []Assertion{{Type: AssertError, Code: string(engine.ErrCodeClockSkew)}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "CLOCK_SKEW", result.ErrorCode)
	assert.Nil(t, result.Evaluation)
}

func TestRun_UnexpectedErrorFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "skew",
		Description: "Clock behind the log",
		Now:         jul(1, 20),
		Input:       engine.Input{Events: []record.AlignmentEvent{testutil.Completed("ev", jul(5, 9))}},
		Assertions:  []Assertion{{Type: AssertMetric, Metric: "total_events", Value: value(1)}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "engine failed with CLOCK_SKEW")
	assert.Contains(t, result.Errors[1], "unexpected engine error CLOCK_SKEW")
}

func TestRun_InvalidTimezoneIsAnErrorCode(t *testing.T) {
	scenario := &Scenario{
		Name:        "tz",
		Description: "Unknown zone",
		Timezone:    "Mars/Olympus_Mons",
		Now:         jul(1, 20),
		Assertions:  []Assertion{{Type: AssertError, Code: "INVALID_TIMEZONE"}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_ExpectedErrorMissing(t *testing.T) {
	scenario := &Scenario{
		Name:        "no_error",
		Description: "Expects skew that never happens",
		Now:         jul(3, 20),
		Assertions:  []Assertion{{Type: AssertError, Code: "CLOCK_SKEW"}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "no error")
}

func TestRun_InlineMilestonesAndLevelPolicy(t *testing.T) {
	scenario := &Scenario{
		Name:        "inline",
		Description: "Inline catalog and level bars",
		Now:         jul(5, 20),
		Milestones: []milestone.Rule{
			{ID: "five", Kind: milestone.KindTotalEvents, Threshold: 5, Title: "Five"},
		},
		Level: &LevelSpec{MinSamples: 3, Bars: map[int]float64{1: 6}},
		Input: engine.Input{
			Events: testutil.Daily(jul(1, 9), 5),
			Interests: []record.TrackedInterest{
				{ID: "focus", CurrentLevel: 1, WeeklyScores: []int{7, 7, 7}},
			},
		},
		Assertions: []Assertion{
			{Type: AssertNewlyUnlocked, IDs: []string{"five"}},
			{Type: AssertLevelUps, LevelUps: []LevelUpExpect{{Interest: "focus", From: 1, To: 2}}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_CatalogLoadFailureIsReturned(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad_catalog",
		Description: "Catalog file missing",
		Now:         jul(3, 20),
		Catalog:     "/nonexistent/catalog.cue",
		Assertions:  []Assertion{{Type: AssertStable}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load catalog")
}

func TestRun_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/zero_window_goal.yaml")
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first.Evaluation, second.Evaluation)
}

// TestScenarios runs every scenario file under testdata/scenarios.
func TestScenarios(t *testing.T) {
	files, err := FindScenarioFiles("testdata/scenarios", "")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		scenario, err := LoadScenario(file)
		require.NoError(t, err, "failed to load %s", file)

		t.Run(scenario.Name, func(t *testing.T) {
			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "scenario should pass: errors=%v", result.Errors)
		})
	}
}
