// Package consistency scores how regularly a user was active over a
// bounded trailing window.
package consistency

import "github.com/colesegura/HorizonFrame2-sub000/internal/calendar"

// DefaultCap is the trailing window length in days.
const DefaultCap = 30

// Score returns the fraction of days in the trailing window that were active.
//
// The denominator is min(DaysBetween(windowStart, today)+1, cap), never
// below 1, so a user who started five days ago is measured over five days
// and a long-tenured user over cap days. The numerator counts active days
// within [today-cap+1, today] that are not before windowStart.
//
// An empty set scores 0. A cap below 1 is treated as DefaultCap.
func Score(active calendar.DaySet, windowStart, today calendar.Day, capDays int) float64 {
	if active.Len() == 0 {
		return 0
	}
	if capDays < 1 {
		capDays = DefaultCap
	}

	from := today.AddDays(-(capDays - 1))
	if windowStart.After(from) {
		from = windowStart
	}
	if from.After(today) {
		return 0
	}

	expected := min(calendar.DaysBetween(windowStart, today)+1, capDays)
	if expected < 1 {
		expected = 1
	}

	ratio := float64(active.CountInRange(from, today)) / float64(expected)
	return min(max(ratio, 0), 1)
}

// Since scores active against a window starting at its first active day.
func Since(active calendar.DaySet, today calendar.Day, capDays int) float64 {
	first, ok := active.Earliest()
	if !ok {
		return 0
	}
	return Score(active, first, today, capDays)
}
