package record

import "time"

// GoalCategory is the lifecycle bucket a goal is filed under.
type GoalCategory string

const (
	GoalActive    GoalCategory = "active"
	GoalUpcoming  GoalCategory = "upcoming"
	GoalCompleted GoalCategory = "completed"
)

// Valid reports whether c is a known category.
func (c GoalCategory) Valid() bool {
	switch c {
	case GoalActive, GoalUpcoming, GoalCompleted:
		return true
	}
	return false
}

// SessionCategory identifies when a journal session took place.
type SessionCategory string

const (
	SessionBaseline SessionCategory = "baseline"
	SessionMorning  SessionCategory = "morning"
	SessionEvening  SessionCategory = "evening"
)

// Valid reports whether c is a known session category.
func (c SessionCategory) Valid() bool {
	switch c {
	case SessionBaseline, SessionMorning, SessionEvening:
		return true
	}
	return false
}

// AlignmentEvent is one completed engagement. The log is append-only and
// may contain several events for the same calendar day.
type AlignmentEvent struct {
	ID         string    `json:"id" yaml:"id"`
	OccurredAt time.Time `json:"occurred_at" yaml:"occurred_at"`
	Completed  bool      `json:"completed" yaml:"completed"`
	GoalIDs    []string  `json:"goal_ids,omitempty" yaml:"goal_ids,omitempty"`
}

// Goal is a tracked objective. TargetDate is optional.
type Goal struct {
	ID         string       `json:"id" yaml:"id"`
	Title      string       `json:"title,omitempty" yaml:"title,omitempty"`
	CreatedAt  time.Time    `json:"created_at" yaml:"created_at"`
	TargetDate *time.Time   `json:"target_date,omitempty" yaml:"target_date,omitempty"`
	IsArchived bool         `json:"is_archived" yaml:"is_archived"`
	Category   GoalCategory `json:"category" yaml:"category"`
	IsPrimary  bool         `json:"is_primary" yaml:"is_primary"`
}

// CountsAsActive reports whether the goal contributes to active metrics.
// Archived goals are kept for historical streak queries only.
func (g Goal) CountsAsActive() bool {
	return !g.IsArchived && g.Category == GoalActive
}

// JournalSession is one reflection record. ProgressScore is only
// meaningful when Completed is true.
type JournalSession struct {
	ID            string          `json:"id" yaml:"id"`
	Date          time.Time       `json:"date" yaml:"date"`
	Category      SessionCategory `json:"category" yaml:"category"`
	InterestID    string          `json:"interest_id,omitempty" yaml:"interest_id,omitempty"`
	ProgressScore *int            `json:"progress_score,omitempty" yaml:"progress_score,omitempty"`
	Completed     bool            `json:"completed" yaml:"completed"`
}

// Score returns the progress score when it is meaningful.
func (s JournalSession) Score() (int, bool) {
	if !s.Completed || s.ProgressScore == nil {
		return 0, false
	}
	return *s.ProgressScore, true
}

// TrackedInterest is a focus area with its own level. WeeklyScores holds at
// most the seven most recent scores, oldest first.
type TrackedInterest struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	CurrentLevel int    `json:"current_level" yaml:"current_level"`
	WeeklyScores []int  `json:"weekly_scores,omitempty" yaml:"weekly_scores,omitempty"`
}

// UnlockedMilestone is a persisted unlock. Once written it is never removed.
type UnlockedMilestone struct {
	MilestoneID string    `json:"milestone_id" yaml:"milestone_id"`
	UnlockedAt  time.Time `json:"unlocked_at" yaml:"unlocked_at"`
}
