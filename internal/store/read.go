package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/colesegura/HorizonFrame2-sub000/internal/engine"
	"github.com/colesegura/HorizonFrame2-sub000/internal/record"
)

// Snapshot reads every table into an engine input in one read transaction,
// so the engine never sees a half-applied write.
//
// Returns empty slices (not nil) for empty tables.
func (s *Store) Snapshot(ctx context.Context) (engine.Input, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return engine.Input{}, fmt.Errorf("snapshot: %w", err)
	}
	defer tx.Rollback()

	var in engine.Input
	if in.Events, err = readEvents(ctx, tx); err != nil {
		return engine.Input{}, fmt.Errorf("snapshot: %w", err)
	}
	if in.Goals, err = readGoals(ctx, tx); err != nil {
		return engine.Input{}, fmt.Errorf("snapshot: %w", err)
	}
	if in.Journal, err = readJournal(ctx, tx); err != nil {
		return engine.Input{}, fmt.Errorf("snapshot: %w", err)
	}
	if in.Interests, err = readInterests(ctx, tx); err != nil {
		return engine.Input{}, fmt.Errorf("snapshot: %w", err)
	}
	if in.Unlocked, err = readUnlocked(ctx, tx); err != nil {
		return engine.Input{}, fmt.Errorf("snapshot: %w", err)
	}
	return in, nil
}

// Goals returns every goal, archived ones included.
func (s *Store) Goals(ctx context.Context) ([]record.Goal, error) {
	return readGoals(ctx, s.db)
}

// Events returns the alignment log.
func (s *Store) Events(ctx context.Context) ([]record.AlignmentEvent, error) {
	return readEvents(ctx, s.db)
}

// Interests returns every tracked interest.
func (s *Store) Interests(ctx context.Context) ([]record.TrackedInterest, error) {
	return readInterests(ctx, s.db)
}

// Unlocked returns persisted unlocks in unlock order.
func (s *Store) Unlocked(ctx context.Context) ([]record.UnlockedMilestone, error) {
	return readUnlocked(ctx, s.db)
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func readEvents(ctx context.Context, q queryer) ([]record.AlignmentEvent, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, occurred_at, completed, goal_ids
		FROM alignment_events
		ORDER BY occurred_at ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []record.AlignmentEvent{}
	for rows.Next() {
		var (
			e         record.AlignmentEvent
			occurred  string
			completed int
			goalIDs   string
		)
		if err := rows.Scan(&e.ID, &occurred, &completed, &goalIDs); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if e.OccurredAt, err = parseTime(occurred); err != nil {
			return nil, fmt.Errorf("event %s: %w", e.ID, err)
		}
		if e.GoalIDs, err = unmarshalGoalIDs(goalIDs); err != nil {
			return nil, fmt.Errorf("event %s: %w", e.ID, err)
		}
		e.Completed = completed != 0
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func readGoals(ctx context.Context, q queryer) ([]record.Goal, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, title, created_at, target_date, is_archived, category, is_primary
		FROM goals
		ORDER BY created_at ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	goals := []record.Goal{}
	for rows.Next() {
		var (
			g         record.Goal
			created   string
			target    sql.NullString
			archived  int
			category  string
			isPrimary int
		)
		if err := rows.Scan(&g.ID, &g.Title, &created, &target, &archived, &category, &isPrimary); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if g.CreatedAt, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("goal %s: %w", g.ID, err)
		}
		if g.TargetDate, err = parseNullTime(target); err != nil {
			return nil, fmt.Errorf("goal %s: %w", g.ID, err)
		}
		g.IsArchived = archived != 0
		g.Category = record.GoalCategory(category)
		g.IsPrimary = isPrimary != 0
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return goals, nil
}

func readJournal(ctx context.Context, q queryer) ([]record.JournalSession, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, date, category, interest_id, progress_score, completed
		FROM journal_sessions
		ORDER BY date ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	sessions := []record.JournalSession{}
	for rows.Next() {
		var (
			js        record.JournalSession
			date      string
			category  string
			interest  sql.NullString
			score     sql.NullInt64
			completed int
		)
		if err := rows.Scan(&js.ID, &date, &category, &interest, &score, &completed); err != nil {
			return nil, fmt.Errorf("scan journal session: %w", err)
		}
		if js.Date, err = parseTime(date); err != nil {
			return nil, fmt.Errorf("journal session %s: %w", js.ID, err)
		}
		js.Category = record.SessionCategory(category)
		js.InterestID = interest.String
		if score.Valid {
			v := int(score.Int64)
			js.ProgressScore = &v
		}
		js.Completed = completed != 0
		sessions = append(sessions, js)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return sessions, nil
}

func readInterests(ctx context.Context, q queryer) ([]record.TrackedInterest, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, current_level, weekly_scores
		FROM tracked_interests
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query interests: %w", err)
	}
	defer rows.Close()

	interests := []record.TrackedInterest{}
	for rows.Next() {
		var (
			ti     record.TrackedInterest
			scores string
		)
		if err := rows.Scan(&ti.ID, &ti.Name, &ti.CurrentLevel, &scores); err != nil {
			return nil, fmt.Errorf("scan interest: %w", err)
		}
		if ti.WeeklyScores, err = unmarshalScores(scores); err != nil {
			return nil, fmt.Errorf("interest %s: %w", ti.ID, err)
		}
		interests = append(interests, ti)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interests: %w", err)
	}
	return interests, nil
}

func readUnlocked(ctx context.Context, q queryer) ([]record.UnlockedMilestone, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT milestone_id, unlocked_at
		FROM unlocked_milestones
		ORDER BY unlocked_at ASC, milestone_id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query unlocked milestones: %w", err)
	}
	defer rows.Close()

	unlocked := []record.UnlockedMilestone{}
	for rows.Next() {
		var (
			u  record.UnlockedMilestone
			at string
		)
		if err := rows.Scan(&u.MilestoneID, &at); err != nil {
			return nil, fmt.Errorf("scan unlocked milestone: %w", err)
		}
		if u.UnlockedAt, err = parseTime(at); err != nil {
			return nil, fmt.Errorf("milestone %s: %w", u.MilestoneID, err)
		}
		unlocked = append(unlocked, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unlocked milestones: %w", err)
	}
	return unlocked, nil
}
