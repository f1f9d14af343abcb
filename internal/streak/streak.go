// Package streak counts runs of consecutive active calendar days.
//
// Two "current streak" semantics exist and are deliberately kept apart:
//
//   - Current is strict: if today has no activity the streak is 0.
//   - Grace also accepts a run that ended yesterday, so a streak stays alive
//     until the end of today.
//
// The global metric uses Current. Per-goal reports carry both values so
// callers choose explicitly.
package streak

import "github.com/colesegura/HorizonFrame2-sub000/internal/calendar"

// Current returns the strict current streak: the length of the run of
// active days ending exactly at today, or 0 if today is not active.
func Current(active calendar.DaySet, today calendar.Day) int {
	return runEndingAt(active, today)
}

// Grace returns the current streak allowing today to be still pending:
// the run ending today if today is active, otherwise the run ending
// yesterday.
func Grace(active calendar.DaySet, today calendar.Day) int {
	if active.Has(today) {
		return runEndingAt(active, today)
	}
	return runEndingAt(active, today.AddDays(-1))
}

// Longest returns the longest run of consecutive active days.
func Longest(active calendar.DaySet) int {
	days := active.Sorted()
	longest, run := 0, 0
	for i, d := range days {
		if i > 0 && calendar.DaysBetween(days[i-1], d) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

func runEndingAt(active calendar.DaySet, end calendar.Day) int {
	n := 0
	for d := end; active.Has(d); d = d.AddDays(-1) {
		n++
	}
	return n
}

// Summary reports every streak figure for one day set.
type Summary struct {
	Strict  int `json:"strict"`
	Grace   int `json:"grace"`
	Longest int `json:"longest"`
}

// Summarize computes Current, Grace and Longest together.
func Summarize(active calendar.DaySet, today calendar.Day) Summary {
	return Summary{
		Strict:  Current(active, today),
		Grace:   Grace(active, today),
		Longest: Longest(active),
	}
}
