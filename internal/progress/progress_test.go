package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colesegura/HorizonFrame2-sub000/internal/record"
)

var created = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func TestTimeProgressMidway(t *testing.T) {
	target := created.Add(10 * 24 * time.Hour)
	f, ok := TimeProgress(created, &target, created.Add(5*24*time.Hour))
	require.True(t, ok)
	assert.InDelta(t, 0.5, f, 1e-12)
}

func TestTimeProgressClamped(t *testing.T) {
	target := created.Add(10 * 24 * time.Hour)

	f, ok := TimeProgress(created, &target, created.Add(-time.Hour))
	require.True(t, ok)
	assert.Equal(t, 0.0, f)

	f, ok = TimeProgress(created, &target, target.Add(48*time.Hour))
	require.True(t, ok)
	assert.Equal(t, 1.0, f)
}

func TestTimeProgressZeroLengthWindow(t *testing.T) {
	f, ok := TimeProgress(created, ptr(created), created)
	require.True(t, ok)
	assert.Equal(t, 1.0, f)
}

func TestTimeProgressTargetBeforeCreation(t *testing.T) {
	f, ok := TimeProgress(created, ptr(created.Add(-24*time.Hour)), created.Add(time.Hour))
	require.True(t, ok)
	assert.Equal(t, 1.0, f)
}

func TestTimeProgressNoTarget(t *testing.T) {
	_, ok := TimeProgress(created, nil, created)
	assert.False(t, ok)
}

func TestPerGoalSkipsArchivedAndUndated(t *testing.T) {
	now := created.Add(5 * 24 * time.Hour)
	goals := []record.Goal{
		{ID: "dated", CreatedAt: created, TargetDate: ptr(created.Add(10 * 24 * time.Hour))},
		{ID: "undated", CreatedAt: created},
		{ID: "archived", CreatedAt: created, TargetDate: ptr(created.Add(24 * time.Hour)), IsArchived: true},
	}

	got := PerGoal(goals, now)
	assert.Equal(t, map[string]float64{"dated": 0.5}, got)
}

func TestAggregate(t *testing.T) {
	assert.Equal(t, 0.0, Aggregate(nil))
	assert.Equal(t, 0.0, Aggregate(map[string]float64{}))
	assert.InDelta(t, 0.5, Aggregate(map[string]float64{"a": 0.25, "b": 0.75}), 1e-12)
	assert.Equal(t, 1.0, Aggregate(map[string]float64{"a": 1}))
}

func TestAggregateIgnoresUndatedGoals(t *testing.T) {
	now := created.Add(5 * 24 * time.Hour)
	goals := []record.Goal{
		{ID: "a", CreatedAt: created, TargetDate: ptr(created.Add(10 * 24 * time.Hour))},
		{ID: "b", CreatedAt: created},
	}
	// Mean over the one dated goal, not (0.5 + 0) / 2.
	assert.InDelta(t, 0.5, Aggregate(PerGoal(goals, now)), 1e-12)
}
