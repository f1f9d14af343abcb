package engine

import (
	"time"

	"github.com/colesegura/HorizonFrame2-sub000/internal/milestone"
	"github.com/colesegura/HorizonFrame2-sub000/internal/record"
	"github.com/colesegura/HorizonFrame2-sub000/internal/streak"
)

// inputHash fingerprints everything that determines a Result except the
// level policy, which is code rather than data.
func (e *Engine) inputHash(now time.Time, in Input) (string, error) {
	return record.InputHash(map[string]any{
		"now":             now,
		"timezone":        e.cfg.Location.String(),
		"consistency_cap": e.cfg.ConsistencyCap,
		"clock_policy":    e.cfg.ClockPolicy.String(),
		"catalog":         rulesCanonical(e.cfg.Catalog),
		"input":           in.Canonical(),
	})
}

func rulesCanonical(rules []milestone.Rule) []any {
	out := make([]any, len(rules))
	for i, r := range rules {
		m := map[string]any{
			"id":        r.ID,
			"kind":      string(r.Kind),
			"threshold": r.Threshold,
		}
		if r.Title != "" {
			m["title"] = r.Title
		}
		if r.Icon != "" {
			m["icon"] = r.Icon
		}
		out[i] = m
	}
	return out
}

func canonicalList[T record.Canonicaler](items []T) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// Canonical implements record.Canonicaler. Collections keep input order.
func (in Input) Canonical() map[string]any {
	return map[string]any{
		"events":    canonicalList(in.Events),
		"goals":     canonicalList(in.Goals),
		"journal":   canonicalList(in.Journal),
		"interests": canonicalList(in.Interests),
		"unlocked":  canonicalList(in.Unlocked),
	}
}

// Canonical implements record.Canonicaler.
func (s Snapshot) Canonical() map[string]any {
	progress := make(map[string]any, len(s.PerGoalProgress))
	for id, f := range s.PerGoalProgress {
		progress[id] = f
	}
	streaks := make(map[string]any, len(s.GoalStreaks))
	for id, sum := range s.GoalStreaks {
		streaks[id] = summaryCanonical(sum)
	}
	return map[string]any{
		"today":                   s.Today.String(),
		"current_streak":          s.CurrentStreak,
		"grace_streak":            s.GraceStreak,
		"longest_streak":          s.LongestStreak,
		"total_events":            s.TotalEvents,
		"active_goals":            s.ActiveGoals,
		"consistency":             s.Consistency,
		"journal_consistency":     s.JournalConsistency,
		"per_goal_progress":       progress,
		"aggregate_time_progress": s.AggregateTimeProgress,
		"goal_streaks":            streaks,
	}
}

func summaryCanonical(s streak.Summary) map[string]any {
	return map[string]any{
		"strict":  s.Strict,
		"grace":   s.Grace,
		"longest": s.Longest,
	}
}

// Canonical implements record.Canonicaler.
func (l LevelUp) Canonical() map[string]any {
	return map[string]any{
		"interest_id": l.InterestID,
		"from":        l.From,
		"to":          l.To,
	}
}

// Canonical implements record.Canonicaler.
func (r Result) Canonical() map[string]any {
	return map[string]any{
		"metrics":        r.Metrics.Canonical(),
		"newly_unlocked": append([]string{}, r.NewlyUnlocked...),
		"unlocks":        canonicalList(r.Unlocks),
		"level_ups":      canonicalList(r.LevelUps),
		"input_hash":     r.InputHash,
	}
}

// Hash fingerprints the result, so hosts can skip rewriting unchanged state.
func (r Result) Hash() (string, error) {
	return record.ResultHash(r)
}
