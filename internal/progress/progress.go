// Package progress measures how much of a goal's planned time has elapsed.
package progress

import (
	"slices"
	"time"

	"github.com/colesegura/HorizonFrame2-sub000/internal/record"
)

// TimeProgress returns the elapsed fraction of the span from createdAt to
// target, clamped to [0, 1]. ok is false when target is absent: such goals
// have no time progress and must be left out of averages rather than
// counted as 0.
//
// A target on or before createdAt has no span left and reports 1.
func TimeProgress(createdAt time.Time, target *time.Time, now time.Time) (fraction float64, ok bool) {
	if target == nil {
		return 0, false
	}
	total := target.Sub(createdAt)
	if total <= 0 {
		return 1, true
	}
	elapsed := now.Sub(createdAt)
	return clamp(float64(elapsed)/float64(total)), true
}

// PerGoal returns the time progress of every non-archived goal that has a
// target date, keyed by goal ID.
func PerGoal(goals []record.Goal, now time.Time) map[string]float64 {
	out := make(map[string]float64)
	for _, g := range goals {
		if g.IsArchived {
			continue
		}
		if f, ok := TimeProgress(g.CreatedAt, g.TargetDate, now); ok {
			out[g.ID] = f
		}
	}
	return out
}

// Aggregate is the arithmetic mean of the defined values, or 0 when there
// are none. Values are summed in key order so the result is reproducible
// bit for bit.
func Aggregate(values map[string]float64) float64 {
	if len(values) == 0 {
		return 0
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	sum := 0.0
	for _, k := range keys {
		sum += values[k]
	}
	return clamp(sum / float64(len(values)))
}

func clamp(f float64) float64 {
	return min(max(f, 0), 1)
}
