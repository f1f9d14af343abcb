package harness

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes content to dir/test.yaml.
func writeScenario(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: test_scenario
description: "Test scenario for validation"
timezone: Europe/Berlin
now: 2024-07-03T20:00:00Z
input:
  events:
    - { id: ev-1, occurred_at: 2024-07-03T09:00:00Z, completed: true, goal_ids: [g1] }
  journal:
    - { id: s-1, date: 2024-07-03T21:00:00Z, category: evening, interest_id: reading, progress_score: 7, completed: true }
assertions:
  - { type: metric, metric: current_streak, value: 1 }
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Europe/Berlin", scenario.Timezone)
	assert.True(t, scenario.Now.Equal(time.Date(2024, 7, 3, 20, 0, 0, 0, time.UTC)))
	require.Len(t, scenario.Input.Events, 1)
	assert.Equal(t, []string{"g1"}, scenario.Input.Events[0].GoalIDs)
	require.Len(t, scenario.Input.Journal, 1)
	score, ok := scenario.Input.Journal[0].Score()
	assert.True(t, ok)
	assert.Equal(t, 7, score)
	require.Len(t, scenario.Assertions, 1)
	assert.Equal(t, 1.0, *scenario.Assertions[0].Value)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: test
description: "Typo in assertions"
now: 2024-07-03T20:00:00Z
assertion:
  - { type: stable }
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name: "missing name",
			content: `
description: "x"
now: 2024-07-03T20:00:00Z
assertions: [{ type: stable }]
`,
			want: "name is required",
		},
		{
			name: "missing description",
			content: `
name: x
now: 2024-07-03T20:00:00Z
assertions: [{ type: stable }]
`,
			want: "description is required",
		},
		{
			name: "missing now",
			content: `
name: x
description: "x"
assertions: [{ type: stable }]
`,
			want: "now is required",
		},
		{
			name: "no assertions",
			content: `
name: x
description: "x"
now: 2024-07-03T20:00:00Z
`,
			want: "at least one assertion is required",
		},
		{
			name: "bad clock policy",
			content: `
name: x
description: "x"
now: 2024-07-03T20:00:00Z
clock_policy: ignore
assertions: [{ type: stable }]
`,
			want: "unknown clock policy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, t.TempDir(), tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_AssertionValidation(t *testing.T) {
	tests := []struct {
		assertion string
		want      string
	}{
		{`{ metric: current_streak, value: 1 }`, "type is required"},
		{`{ type: metric, value: 1 }`, "metric is required"},
		{`{ type: metric, metric: current_streak }`, "value is required"},
		{`{ type: error }`, "code is required"},
		{`{ type: trace_contains }`, `unknown assertion type "trace_contains"`},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), `
name: x
description: "x"
now: 2024-07-03T20:00:00Z
assertions:
  - `+tt.assertion+`
`)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "assertions[0]")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_CatalogResolvedRelativeToScenario(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cat.cue"), []byte(`milestone: a: { title: "A", kind: "total-events", threshold: 1 }`), 0644))
	path := writeScenario(t, dir, `
name: x
description: "x"
now: 2024-07-03T20:00:00Z
catalog: cat.cue
assertions: [{ type: stable }]
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cat.cue"), scenario.Catalog)
}

func TestLoadScenario_CatalogNotFound(t *testing.T) {
	path := writeScenario(t, t.TempDir(), `
name: x
description: "x"
now: 2024-07-03T20:00:00Z
catalog: missing.cue
assertions: [{ type: stable }]
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog file not found")
}

func TestFindScenarioFiles(t *testing.T) {
	files, err := FindScenarioFiles("testdata/scenarios", "")
	require.NoError(t, err)
	assert.Contains(t, files, filepath.Join("testdata", "scenarios", "three_day_run.yaml"))
	assert.IsNonDecreasing(t, files)

	files, err = FindScenarioFiles("testdata/scenarios", "clock_*")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("testdata", "scenarios", "clock_skew_clamp.yaml"),
		filepath.Join("testdata", "scenarios", "clock_skew_reject.yaml"),
	}, files)

	_, err = FindScenarioFiles("testdata/scenarios", "[")
	require.Error(t, err)
}

func TestGoldenPath(t *testing.T) {
	got := GoldenPath(filepath.Join("testdata", "scenarios", "three_day_run.yaml"), "three_day_run")
	assert.Equal(t, filepath.Join("testdata", "golden", "three_day_run.golden"), got)
}
