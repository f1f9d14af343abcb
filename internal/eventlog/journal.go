package eventlog

import (
	"time"

	"github.com/colesegura/HorizonFrame2-sub000/internal/calendar"
	"github.com/colesegura/HorizonFrame2-sub000/internal/record"
)

// JournalView buckets journal sessions by calendar day.
type JournalView struct {
	completed calendar.DaySet
	counts    map[calendar.Day]int
	first     calendar.Day
	any       bool
}

// BuildJournal collapses sessions into a JournalView. Only completed
// sessions mark a day as active or count towards Completed(day). Any row
// moves FirstLogged.
func BuildJournal(sessions []record.JournalSession, loc *time.Location) *JournalView {
	jv := &JournalView{
		completed: make(calendar.DaySet),
		counts:    make(map[calendar.Day]int),
	}
	for _, s := range sessions {
		day := calendar.DayKey(s.Date, loc)
		if !jv.any || day.Before(jv.first) {
			jv.first = day
			jv.any = true
		}
		if !s.Completed {
			continue
		}
		jv.completed.Add(day)
		jv.counts[day]++
	}
	return jv
}

// ActiveSet returns days with at least one completed session.
func (jv *JournalView) ActiveSet() calendar.DaySet {
	return jv.completed
}

// Completed returns the number of completed sessions on day.
func (jv *JournalView) Completed(day calendar.Day) int {
	return jv.counts[day]
}

// FirstLogged returns the earliest day holding any session.
func (jv *JournalView) FirstLogged() (calendar.Day, bool) {
	return jv.first, jv.any
}
