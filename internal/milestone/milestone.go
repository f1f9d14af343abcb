// Package milestone decides which awards a user has newly earned.
//
// Each milestone moves Locked -> Unlocked exactly once. Evaluate only ever
// adds to the unlocked set: a metric that later drops (a broken streak, an
// archived goal) never revokes an award. Re-running Evaluate with the
// previous result merged into alreadyUnlocked yields nothing, so hosts can
// re-evaluate on every foreground without duplicate notifications.
package milestone

import (
	"fmt"
	"slices"
	"time"

	"github.com/colesegura/HorizonFrame2-sub000/internal/record"
)

// Kind names the metric a rule is compared against.
type Kind string

const (
	KindCurrentStreak   Kind = "current-streak"
	KindLongestStreak   Kind = "longest-streak"
	KindTotalEvents     Kind = "total-events"
	KindActiveGoalCount Kind = "active-goal-count"
)

// Kinds lists every supported kind.
var Kinds = []Kind{KindCurrentStreak, KindLongestStreak, KindTotalEvents, KindActiveGoalCount}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	return slices.Contains(Kinds, k)
}

// Rule is a static catalog entry. Title and Icon are display metadata only.
type Rule struct {
	ID        string `json:"id" yaml:"id"`
	Kind      Kind   `json:"kind" yaml:"kind"`
	Threshold int    `json:"threshold" yaml:"threshold"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	Icon      string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Metrics are the values rules are compared against.
type Metrics struct {
	CurrentStreak int
	LongestStreak int
	TotalEvents   int
	ActiveGoals   int
}

// Value returns the metric named by k.
func (m Metrics) Value(k Kind) (int, error) {
	switch k {
	case KindCurrentStreak:
		return m.CurrentStreak, nil
	case KindLongestStreak:
		return m.LongestStreak, nil
	case KindTotalEvents:
		return m.TotalEvents, nil
	case KindActiveGoalCount:
		return m.ActiveGoals, nil
	default:
		return 0, fmt.Errorf("unknown milestone kind %q", k)
	}
}

// Evaluate returns the IDs of rules satisfied by m that are not already in
// alreadyUnlocked. The result is sorted and has no duplicates. Rules may
// appear in any order and may share kinds or thresholds; rules with an
// unknown kind never fire.
func Evaluate(rules []Rule, m Metrics, alreadyUnlocked map[string]bool) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rules {
		if alreadyUnlocked[r.ID] || seen[r.ID] {
			continue
		}
		v, err := m.Value(r.Kind)
		if err != nil {
			continue
		}
		if v >= r.Threshold {
			seen[r.ID] = true
			out = append(out, r.ID)
		}
	}
	slices.Sort(out)
	return out
}

// Unlocks stamps newly unlocked IDs with the evaluation time.
func Unlocks(ids []string, now time.Time) []record.UnlockedMilestone {
	out := make([]record.UnlockedMilestone, 0, len(ids))
	for _, id := range ids {
		out = append(out, record.UnlockedMilestone{MilestoneID: id, UnlockedAt: now})
	}
	return out
}

// UnlockedSet builds the lookup Evaluate expects from persisted unlocks.
func UnlockedSet(unlocked []record.UnlockedMilestone) map[string]bool {
	set := make(map[string]bool, len(unlocked))
	for _, u := range unlocked {
		set[u.MilestoneID] = true
	}
	return set
}
