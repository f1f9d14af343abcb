package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/colesegura/HorizonFrame2-sub000/internal/engine"
	"github.com/colesegura/HorizonFrame2-sub000/internal/level"
	"github.com/colesegura/HorizonFrame2-sub000/internal/record"
)

// AddGoal inserts a goal, assigning an ID when it has none.
// Uses ON CONFLICT(id) DO NOTHING for idempotency.
// An empty category is stored as active.
func (s *Store) AddGoal(ctx context.Context, g record.Goal) (record.Goal, error) {
	if g.ID == "" {
		g.ID = s.ids.NewID()
	}
	if g.Category == "" {
		g.Category = record.GoalActive
	}
	if !g.Category.Valid() {
		return g, fmt.Errorf("add goal: unknown category %q", g.Category)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals
		(id, title, created_at, target_date, is_archived, category, is_primary)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		g.ID,
		g.Title,
		formatTime(g.CreatedAt),
		nullTime(g.TargetDate),
		boolInt(g.IsArchived),
		string(g.Category),
		boolInt(g.IsPrimary),
	)
	if err != nil {
		return g, fmt.Errorf("add goal: %w", err)
	}
	return g, nil
}

// ArchiveGoal marks a goal archived. Archived goals keep their history for
// per-goal streaks but leave the active metrics.
func (s *Store) ArchiveGoal(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE goals SET is_archived = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("archive goal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("archive goal: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("archive goal %q: %w", id, ErrNotFound)
	}
	return nil
}

// AddEvent appends an alignment event, assigning an ID when it has none.
//
// Returns inserted=false when an event with the same ID, or with the same
// content (timestamp, completed flag and goal set), already exists. Such a
// row is a double submit, not a second event.
func (s *Store) AddEvent(ctx context.Context, e record.AlignmentEvent) (record.AlignmentEvent, bool, error) {
	if e.ID == "" {
		e.ID = s.ids.NewID()
	}
	goalIDs, err := marshalGoalIDs(e.GoalIDs)
	if err != nil {
		return e, false, fmt.Errorf("add event: %w", err)
	}
	fp, err := record.EventFingerprint(e)
	if err != nil {
		return e, false, fmt.Errorf("add event: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO alignment_events
		(id, occurred_at, completed, goal_ids, fingerprint)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		e.ID,
		formatTime(e.OccurredAt),
		boolInt(e.Completed),
		goalIDs,
		fp,
	)
	if err != nil {
		return e, false, fmt.Errorf("add event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return e, false, fmt.Errorf("add event: %w", err)
	}
	return e, n > 0, nil
}

// AddInterest inserts a tracked interest. A zero level is stored as
// level.MinLevel; scores beyond the window size are trimmed to the newest.
func (s *Store) AddInterest(ctx context.Context, ti record.TrackedInterest) (record.TrackedInterest, error) {
	if ti.ID == "" {
		ti.ID = s.ids.NewID()
	}
	if ti.CurrentLevel == 0 {
		ti.CurrentLevel = level.MinLevel
	}
	ti.CurrentLevel = level.Clamp(ti.CurrentLevel)
	ti.WeeklyScores = level.WindowOf(ti.WeeklyScores).Values()

	scores, err := marshalScores(ti.WeeklyScores)
	if err != nil {
		return ti, fmt.Errorf("add interest: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tracked_interests (id, name, current_level, weekly_scores)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, ti.ID, ti.Name, ti.CurrentLevel, scores)
	if err != nil {
		return ti, fmt.Errorf("add interest: %w", err)
	}
	return ti, nil
}

// AddJournalSession appends a journal session. When the session is
// completed, scored and tied to an interest, the score is pushed into that
// interest's weekly window in the same transaction. Re-sending a session
// with a known ID changes nothing.
func (s *Store) AddJournalSession(ctx context.Context, js record.JournalSession) (record.JournalSession, error) {
	if js.ID == "" {
		js.ID = s.ids.NewID()
	}
	if !js.Category.Valid() {
		return js, fmt.Errorf("add journal session: unknown category %q", js.Category)
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO journal_sessions
			(id, date, category, interest_id, progress_score, completed)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`,
			js.ID,
			formatTime(js.Date),
			string(js.Category),
			nullString(js.InterestID),
			nullInt(js.ProgressScore),
			boolInt(js.Completed),
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}

		score, ok := js.Score()
		if n == 0 || !ok || js.InterestID == "" {
			return nil
		}
		return pushScore(ctx, tx, js.InterestID, score)
	})
	if err != nil {
		return js, fmt.Errorf("add journal session: %w", err)
	}
	return js, nil
}

func pushScore(ctx context.Context, tx *sql.Tx, interestID string, score int) error {
	var raw string
	err := tx.QueryRowContext(ctx,
		`SELECT weekly_scores FROM tracked_interests WHERE id = ?`, interestID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return fmt.Errorf("interest %q: %w", interestID, ErrNotFound)
	}
	if err != nil {
		return err
	}

	scores, err := unmarshalScores(raw)
	if err != nil {
		return err
	}
	w := level.WindowOf(scores)
	w.Push(score)

	updated, err := marshalScores(w.Values())
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE tracked_interests SET weekly_scores = ? WHERE id = ?`, updated, interestID)
	return err
}

// RecordUnlocks persists newly unlocked milestones and returns how many
// rows were new. Existing unlocks are never overwritten, so the original
// unlock time survives repeated evaluations.
func (s *Store) RecordUnlocks(ctx context.Context, unlocks []record.UnlockedMilestone) (int, error) {
	inserted := 0
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, u := range unlocks {
			res, err := tx.ExecContext(ctx, `
				INSERT INTO unlocked_milestones (milestone_id, unlocked_at)
				VALUES (?, ?)
				ON CONFLICT(milestone_id) DO NOTHING
			`, u.MilestoneID, formatTime(u.UnlockedAt))
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("record unlocks: %w", err)
	}
	return inserted, nil
}

// ApplyLevelUps raises each interest to its new level and clears its score
// window so the same scores cannot earn a second level. The update only
// applies while the stored level still equals LevelUp.From, which makes a
// repeated apply a no-op. Returns the number of interests updated.
func (s *Store) ApplyLevelUps(ctx context.Context, ups []engine.LevelUp) (int, error) {
	applied := 0
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, up := range ups {
			res, err := tx.ExecContext(ctx, `
				UPDATE tracked_interests
				SET current_level = ?, weekly_scores = '[]'
				WHERE id = ? AND current_level = ?
			`, level.Clamp(up.To), up.InterestID, up.From)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			applied += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("apply level ups: %w", err)
	}
	return applied, nil
}

// Persist writes the side effects of an evaluation: unlocks and level-ups.
func (s *Store) Persist(ctx context.Context, res *engine.Result) error {
	if _, err := s.RecordUnlocks(ctx, res.Unlocks); err != nil {
		return err
	}
	if _, err := s.ApplyLevelUps(ctx, res.LevelUps); err != nil {
		return err
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
