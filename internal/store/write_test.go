package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colesegura/HorizonFrame2-sub000/internal/engine"
	"github.com/colesegura/HorizonFrame2-sub000/internal/record"
	"github.com/colesegura/HorizonFrame2-sub000/internal/testutil"
)

func TestAddGoal_AssignsIDAndDefaults(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	g, err := s.AddGoal(ctx, record.Goal{Title: "Run a marathon", CreatedAt: day(1, 8)})
	require.NoError(t, err)
	assert.Equal(t, "rec-0001", g.ID)
	assert.Equal(t, record.GoalActive, g.Category)

	goals, err := s.Goals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, g, goals[0])
}

func TestAddGoal_RoundTripsTargetDate(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	target := day(31, 0)
	_, err := s.AddGoal(ctx, record.Goal{ID: "g1", CreatedAt: day(1, 8), TargetDate: &target, IsPrimary: true})
	require.NoError(t, err)

	goals, err := s.Goals(ctx)
	require.NoError(t, err)
	require.NotNil(t, goals[0].TargetDate)
	assert.True(t, target.Equal(*goals[0].TargetDate))
	assert.True(t, goals[0].IsPrimary)
}

func TestAddGoal_RejectsUnknownCategory(t *testing.T) {
	s := createTestStore(t)
	_, err := s.AddGoal(context.Background(), record.Goal{ID: "g", CreatedAt: day(1, 0), Category: "someday"})
	assert.Error(t, err)
}

func TestArchiveGoal(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.AddGoal(ctx, record.Goal{ID: "g1", CreatedAt: day(1, 8)})
	require.NoError(t, err)
	require.NoError(t, s.ArchiveGoal(ctx, "g1"))

	goals, err := s.Goals(ctx)
	require.NoError(t, err)
	assert.True(t, goals[0].IsArchived)

	err = s.ArchiveGoal(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddEvent_DuplicateIDIsNoop(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	e := testutil.Completed("e1", day(1, 9), "g1")
	_, inserted, err := s.AddEvent(ctx, e)
	require.NoError(t, err)
	assert.True(t, inserted)

	e.OccurredAt = day(2, 9)
	_, inserted, err = s.AddEvent(ctx, e)
	require.NoError(t, err)
	assert.False(t, inserted)

	events, err := s.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, day(1, 9).Equal(events[0].OccurredAt))
}

func TestAddEvent_DoubleSubmitCollapses(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, inserted, err := s.AddEvent(ctx, testutil.Completed("", day(1, 9), "b", "a"))
	require.NoError(t, err)
	assert.True(t, inserted)

	// Same content, different ID and goal order.
	_, inserted, err = s.AddEvent(ctx, testutil.Completed("", day(1, 9), "a", "b"))
	require.NoError(t, err)
	assert.False(t, inserted)

	// Same day, different time: a genuine second event.
	_, inserted, err = s.AddEvent(ctx, testutil.Completed("", day(1, 18), "a", "b"))
	require.NoError(t, err)
	assert.True(t, inserted)

	events, err := s.Events(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, []string{"a", "b"}, events[0].GoalIDs)
}

func TestAddInterest_Defaults(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	ti, err := s.AddInterest(ctx, record.TrackedInterest{Name: "Piano", WeeklyScores: []int{1, 2, 3, 4, 5, 6, 7, 8}})
	require.NoError(t, err)
	assert.Equal(t, 1, ti.CurrentLevel)
	assert.Equal(t, []int{2, 3, 4, 5, 6, 7, 8}, ti.WeeklyScores)

	interests, err := s.Interests(ctx)
	require.NoError(t, err)
	assert.Equal(t, []record.TrackedInterest{ti}, interests)
}

func TestAddJournalSession_PushesScoreIntoWindow(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.AddInterest(ctx, record.TrackedInterest{ID: "piano", Name: "Piano"})
	require.NoError(t, err)

	for i := 1; i <= 9; i++ {
		_, err := s.AddJournalSession(ctx, testutil.Session("", day(i, 21), "piano", testutil.Ptr(i)))
		require.NoError(t, err)
	}

	interests, err := s.Interests(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 5, 6, 7, 8, 9}, interests[0].WeeklyScores)
}

func TestAddJournalSession_SkipsUnscoredAndRepeats(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.AddInterest(ctx, record.TrackedInterest{ID: "piano"})
	require.NoError(t, err)

	scored := testutil.Session("js-1", day(1, 21), "piano", testutil.Ptr(6))
	_, err = s.AddJournalSession(ctx, scored)
	require.NoError(t, err)
	_, err = s.AddJournalSession(ctx, scored)
	require.NoError(t, err)

	unscored := testutil.Session("js-2", day(2, 21), "piano", nil)
	_, err = s.AddJournalSession(ctx, unscored)
	require.NoError(t, err)

	abandoned := testutil.Session("js-3", day(3, 21), "piano", testutil.Ptr(9))
	abandoned.Completed = false
	_, err = s.AddJournalSession(ctx, abandoned)
	require.NoError(t, err)

	interests, err := s.Interests(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{6}, interests[0].WeeklyScores)
}

func TestAddJournalSession_UnknownInterest(t *testing.T) {
	s := createTestStore(t)
	_, err := s.AddJournalSession(context.Background(), testutil.Session("", day(1, 21), "ghost", testutil.Ptr(5)))
	assert.Error(t, err)

	in, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, in.Journal, "failed session is rolled back")
}

func TestRecordUnlocks_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first := []record.UnlockedMilestone{
		{MilestoneID: "streak_3", UnlockedAt: day(3, 20)},
		{MilestoneID: "first_step", UnlockedAt: day(1, 20)},
	}
	n, err := s.RecordUnlocks(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.RecordUnlocks(ctx, []record.UnlockedMilestone{{MilestoneID: "streak_3", UnlockedAt: day(9, 20)}})
	require.NoError(t, err)
	assert.Zero(t, n)

	unlocked, err := s.Unlocked(ctx)
	require.NoError(t, err)
	require.Len(t, unlocked, 2)
	assert.Equal(t, "first_step", unlocked[0].MilestoneID)
	assert.True(t, day(3, 20).Equal(unlocked[1].UnlockedAt), "original unlock time is kept")
}

func TestApplyLevelUps(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.AddInterest(ctx, record.TrackedInterest{ID: "piano", CurrentLevel: 3, WeeklyScores: []int{8, 8, 8}})
	require.NoError(t, err)

	ups := []engine.LevelUp{{InterestID: "piano", From: 3, To: 4}}
	n, err := s.ApplyLevelUps(ctx, ups)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Applying the same decision again changes nothing.
	n, err = s.ApplyLevelUps(ctx, ups)
	require.NoError(t, err)
	assert.Zero(t, n)

	interests, err := s.Interests(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, interests[0].CurrentLevel)
	assert.Empty(t, interests[0].WeeklyScores)
}

func TestPersist_EndToEnd(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, e := range testutil.Daily(day(1, 9), 3) {
		_, _, err := s.AddEvent(ctx, e)
		require.NoError(t, err)
	}

	eng, err := engine.New(time.UTC)
	require.NoError(t, err)
	now := day(3, 20)

	in, err := s.Snapshot(ctx)
	require.NoError(t, err)
	res, err := eng.Evaluate(now, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"first_step", "streak_3"}, res.NewlyUnlocked)
	require.NoError(t, s.Persist(ctx, res))

	in, err = s.Snapshot(ctx)
	require.NoError(t, err)
	again, err := eng.Evaluate(now, in)
	require.NoError(t, err)
	assert.Empty(t, again.NewlyUnlocked)
	assert.Equal(t, res.Metrics, again.Metrics)
}
