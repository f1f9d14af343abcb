package calendar

import "sort"

// DaySet is a set of calendar days.
type DaySet map[Day]struct{}

// NewDaySet builds a set from the given days; duplicates collapse.
func NewDaySet(days ...Day) DaySet {
	s := make(DaySet, len(days))
	for _, d := range days {
		s[d] = struct{}{}
	}
	return s
}

// Add inserts d.
func (s DaySet) Add(d Day) { s[d] = struct{}{} }

// Has reports whether d is in the set. A nil set has no members.
func (s DaySet) Has(d Day) bool {
	_, ok := s[d]
	return ok
}

// Len returns the number of distinct days.
func (s DaySet) Len() int { return len(s) }

// Sorted returns the days in ascending order.
func (s DaySet) Sorted() []Day {
	out := make([]Day, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Earliest returns the first day in the set, or false when it is empty.
func (s DaySet) Earliest() (Day, bool) {
	var first Day
	found := false
	for d := range s {
		if !found || d.Before(first) {
			first = d
			found = true
		}
	}
	return first, found
}

// CountInRange counts members in the inclusive range [from, to].
func (s DaySet) CountInRange(from, to Day) int {
	n := 0
	for d := range s {
		if !d.Before(from) && !d.After(to) {
			n++
		}
	}
	return n
}
