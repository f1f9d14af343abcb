// Package eventlog projects the raw alignment and journal logs onto
// calendar days.
//
// The log may hold several rows for the same day. A View collapses them:
// a day is active when any of its events is completed, and a goal's day set
// is the union of GoalIDs over the completed events of that day.
package eventlog

import (
	"slices"
	"time"

	"github.com/colesegura/HorizonFrame2-sub000/internal/calendar"
	"github.com/colesegura/HorizonFrame2-sub000/internal/record"
)

// Order selects the direction in which days are listed.
type Order int

const (
	Ascending Order = iota
	Descending
)

// dayEntry is the collapsed state of one calendar day.
type dayEntry struct {
	completed int
}

// View is a read-only, day-bucketed projection of alignment events.
type View struct {
	days   map[calendar.Day]*dayEntry
	active calendar.DaySet
	goals  map[string]calendar.DaySet
}

// Build collapses events into a View using loc for day bucketing.
// The input slice is not retained.
func Build(events []record.AlignmentEvent, loc *time.Location) *View {
	v := &View{
		days:   make(map[calendar.Day]*dayEntry),
		active: make(calendar.DaySet),
		goals:  make(map[string]calendar.DaySet),
	}
	for _, e := range events {
		day := calendar.DayKey(e.OccurredAt, loc)
		entry, ok := v.days[day]
		if !ok {
			entry = &dayEntry{}
			v.days[day] = entry
		}
		if !e.Completed {
			continue
		}
		entry.completed++
		v.active.Add(day)
		for _, id := range e.GoalIDs {
			set, ok := v.goals[id]
			if !ok {
				set = make(calendar.DaySet)
				v.goals[id] = set
			}
			set.Add(day)
		}
	}
	return v
}

// ActiveDays lists days with at least one completed event in the given order.
func (v *View) ActiveDays(order Order) []calendar.Day {
	days := v.active.Sorted()
	if order == Descending {
		slices.Reverse(days)
	}
	return days
}

// ActiveSet returns the set of active days. Callers must not modify it.
func (v *View) ActiveSet() calendar.DaySet {
	return v.active
}

// Len returns the number of distinct active days.
func (v *View) Len() int {
	return v.active.Len()
}

// GoalSet returns the active days for one goal. Unknown goals yield an
// empty set.
func (v *View) GoalSet(goalID string) calendar.DaySet {
	if set, ok := v.goals[goalID]; ok {
		return set
	}
	return calendar.DaySet{}
}

// GoalIDs lists every goal referenced by a completed event, sorted.
func (v *View) GoalIDs() []string {
	ids := make([]string, 0, len(v.goals))
	for id := range v.goals {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// FirstLogged returns the earliest day holding any row, completed or not.
func (v *View) FirstLogged() (calendar.Day, bool) {
	var first calendar.Day
	found := false
	for d := range v.days {
		if !found || d.Before(first) {
			first = d
			found = true
		}
	}
	return first, found
}

// CompletedRows returns the number of completed events recorded on day.
// Skipped rows are not engagement and never count.
func (v *View) CompletedRows(day calendar.Day) int {
	if entry, ok := v.days[day]; ok {
		return entry.completed
	}
	return 0
}

// Until returns a copy of the view restricted to days on or before last.
func (v *View) Until(last calendar.Day) *View {
	out := &View{
		days:   make(map[calendar.Day]*dayEntry, len(v.days)),
		active: make(calendar.DaySet, len(v.active)),
		goals:  make(map[string]calendar.DaySet, len(v.goals)),
	}
	for d, entry := range v.days {
		if d.After(last) {
			continue
		}
		out.days[d] = entry
		if entry.completed > 0 {
			out.active.Add(d)
		}
	}
	for id, set := range v.goals {
		kept := make(calendar.DaySet)
		for d := range set {
			if !d.After(last) {
				kept.Add(d)
			}
		}
		if kept.Len() > 0 {
			out.goals[id] = kept
		}
	}
	return out
}
