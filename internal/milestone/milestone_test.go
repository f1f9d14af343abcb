package milestone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateUnlocksOnceThenIdempotent(t *testing.T) {
	rules := []Rule{{ID: "five_events", Kind: KindTotalEvents, Threshold: 5, Title: "Five"}}
	m := Metrics{TotalEvents: 5}

	first := Evaluate(rules, m, map[string]bool{})
	assert.Equal(t, []string{"five_events"}, first)

	unlocked := map[string]bool{"five_events": true}
	second := Evaluate(rules, m, unlocked)
	assert.Empty(t, second)
}

func TestEvaluateBelowThreshold(t *testing.T) {
	rules := []Rule{{ID: "five_events", Kind: KindTotalEvents, Threshold: 5}}
	assert.Empty(t, Evaluate(rules, Metrics{TotalEvents: 4}, nil))
}

func TestEvaluateUnsortedSharedKinds(t *testing.T) {
	rules := []Rule{
		{ID: "s30", Kind: KindCurrentStreak, Threshold: 30},
		{ID: "s3", Kind: KindCurrentStreak, Threshold: 3},
		{ID: "s7", Kind: KindCurrentStreak, Threshold: 7},
		{ID: "also_s3", Kind: KindCurrentStreak, Threshold: 3},
		{ID: "goals", Kind: KindActiveGoalCount, Threshold: 2},
		{ID: "longest", Kind: KindLongestStreak, Threshold: 10},
	}
	m := Metrics{CurrentStreak: 8, LongestStreak: 12, ActiveGoals: 1}

	got := Evaluate(rules, m, nil)
	assert.Equal(t, []string{"also_s3", "longest", "s3", "s7"}, got)
}

func TestEvaluateNeverRevokes(t *testing.T) {
	rules := []Rule{{ID: "s7", Kind: KindCurrentStreak, Threshold: 7}}
	unlocked := map[string]bool{}

	for _, id := range Evaluate(rules, Metrics{CurrentStreak: 7}, unlocked) {
		unlocked[id] = true
	}
	// The streak breaks: nothing new, and the earlier unlock stays.
	delta := Evaluate(rules, Metrics{CurrentStreak: 0}, unlocked)
	assert.Empty(t, delta)
	assert.True(t, unlocked["s7"])
}

func TestEvaluateMonotonicSuperset(t *testing.T) {
	rules := DefaultCatalog()
	already := map[string]bool{"events_100": true}
	m := Metrics{CurrentStreak: 3, LongestStreak: 3, TotalEvents: 3, ActiveGoals: 1}

	delta := Evaluate(rules, m, already)
	merged := map[string]bool{}
	for id := range already {
		merged[id] = true
	}
	for _, id := range delta {
		merged[id] = true
	}
	for id := range already {
		assert.True(t, merged[id])
	}
	assert.Empty(t, Evaluate(rules, m, merged))
}

func TestEvaluateDuplicateRuleIDsReportedOnce(t *testing.T) {
	rules := []Rule{
		{ID: "dup", Kind: KindTotalEvents, Threshold: 1},
		{ID: "dup", Kind: KindCurrentStreak, Threshold: 1},
	}
	got := Evaluate(rules, Metrics{TotalEvents: 1, CurrentStreak: 1}, nil)
	assert.Equal(t, []string{"dup"}, got)
}

func TestEvaluateSkipsUnknownKind(t *testing.T) {
	rules := []Rule{{ID: "odd", Kind: "moon-phase", Threshold: 0}}
	assert.Empty(t, Evaluate(rules, Metrics{}, nil))
}

func TestMetricsValue(t *testing.T) {
	m := Metrics{CurrentStreak: 1, LongestStreak: 2, TotalEvents: 3, ActiveGoals: 4}
	for kind, want := range map[Kind]int{
		KindCurrentStreak:   1,
		KindLongestStreak:   2,
		KindTotalEvents:     3,
		KindActiveGoalCount: 4,
	} {
		got, err := m.Value(kind)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := m.Value("nope")
	assert.Error(t, err)
}

func TestUnlocksAndUnlockedSet(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	unlocks := Unlocks([]string{"a", "b"}, now)
	require.Len(t, unlocks, 2)
	assert.Equal(t, "a", unlocks[0].MilestoneID)
	assert.Equal(t, now, unlocks[1].UnlockedAt)

	set := UnlockedSet(unlocks)
	assert.Equal(t, map[string]bool{"a": true, "b": true}, set)
}
