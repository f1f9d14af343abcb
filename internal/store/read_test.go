package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colesegura/HorizonFrame2-sub000/internal/record"
	"github.com/colesegura/HorizonFrame2-sub000/internal/testutil"
)

func TestSnapshot_EmptyDatabase(t *testing.T) {
	s := createTestStore(t)

	in, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, in.Events)
	assert.NotNil(t, in.Goals)
	assert.NotNil(t, in.Journal)
	assert.NotNil(t, in.Interests)
	assert.NotNil(t, in.Unlocked)
	assert.Empty(t, in.Events)
}

func TestSnapshot_DeterministicOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// Inserted out of order; same-instant rows tie-break on id.
	for _, e := range []record.AlignmentEvent{
		testutil.Completed("c", day(3, 9)),
		testutil.Completed("b", day(1, 9), "g1"),
		testutil.Skipped("a", day(1, 9)),
	} {
		_, _, err := s.AddEvent(ctx, e)
		require.NoError(t, err)
	}

	in, err := s.Snapshot(ctx)
	require.NoError(t, err)
	ids := make([]string, len(in.Events))
	for i, e := range in.Events {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.False(t, in.Events[0].Completed)
	assert.Nil(t, in.Events[0].GoalIDs)
	assert.Equal(t, []string{"g1"}, in.Events[1].GoalIDs)
}

func TestSnapshot_SubSecondOrdering(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	later := day(1, 9).Add(500_000_000)
	_, _, err := s.AddEvent(ctx, testutil.Completed("z-later", later))
	require.NoError(t, err)
	_, _, err = s.AddEvent(ctx, testutil.Completed("y-whole", day(1, 9)))
	require.NoError(t, err)

	events, err := s.Events(ctx)
	require.NoError(t, err)
	assert.Equal(t, "y-whole", events[0].ID)
	assert.True(t, later.Equal(events[1].OccurredAt))
}

func TestSnapshot_JournalRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.AddInterest(ctx, record.TrackedInterest{ID: "piano"})
	require.NoError(t, err)
	want := []record.JournalSession{
		testutil.Session("j1", day(1, 21), "piano", testutil.Ptr(7)),
		{ID: "j2", Date: day(2, 7), Category: record.SessionMorning},
	}
	for _, js := range want {
		_, err := s.AddJournalSession(ctx, js)
		require.NoError(t, err)
	}

	in, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, in.Journal)
}
