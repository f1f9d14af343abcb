package testutil

import (
	"fmt"
	"time"

	"github.com/colesegura/HorizonFrame2-sub000/internal/record"
)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// Date returns the given local date at hour:00 in loc.
func Date(loc *time.Location, year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, loc)
}

// Completed builds a completed alignment event.
func Completed(id string, at time.Time, goalIDs ...string) record.AlignmentEvent {
	return record.AlignmentEvent{ID: id, OccurredAt: at, Completed: true, GoalIDs: goalIDs}
}

// Skipped builds an alignment event that was started but not completed.
func Skipped(id string, at time.Time) record.AlignmentEvent {
	return record.AlignmentEvent{ID: id, OccurredAt: at}
}

// Daily builds n completed events, one per calendar day starting at first,
// with IDs ev-01, ev-02...
func Daily(first time.Time, n int, goalIDs ...string) []record.AlignmentEvent {
	events := make([]record.AlignmentEvent, 0, n)
	for i := range n {
		events = append(events, Completed(fmt.Sprintf("ev-%02d", i+1), first.AddDate(0, 0, i), goalIDs...))
	}
	return events
}

// ActiveGoal builds an active, unarchived goal.
func ActiveGoal(id string, created time.Time, target *time.Time) record.Goal {
	return record.Goal{
		ID:         id,
		Title:      id,
		CreatedAt:  created,
		TargetDate: target,
		Category:   record.GoalActive,
	}
}

// Session builds a completed journal session with an optional score.
func Session(id string, date time.Time, interestID string, score *int) record.JournalSession {
	return record.JournalSession{
		ID:            id,
		Date:          date,
		Category:      record.SessionEvening,
		InterestID:    interestID,
		ProgressScore: score,
		Completed:     true,
	}
}
