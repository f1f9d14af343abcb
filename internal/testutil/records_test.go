package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaily(t *testing.T) {
	first := Date(time.UTC, 2024, 1, 30, 8)
	events := Daily(first, 3, "g1")
	require.Len(t, events, 3)
	assert.Equal(t, "ev-01", events[0].ID)
	assert.Equal(t, Date(time.UTC, 2024, 2, 1, 8), events[2].OccurredAt)
	assert.True(t, events[1].Completed)
	assert.Equal(t, []string{"g1"}, events[1].GoalIDs)
}

func TestSessionScore(t *testing.T) {
	s := Session("s1", base, "i1", Ptr(7))
	score, ok := s.Score()
	assert.True(t, ok)
	assert.Equal(t, 7, score)
}
