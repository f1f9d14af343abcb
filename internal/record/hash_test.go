package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputHashDeterministic(t *testing.T) {
	in := map[string]any{"a": 1, "b": []string{"x"}}
	h1, err := InputHash(in)
	require.NoError(t, err)
	h2, err := InputHash(map[string]any{"b": []string{"x"}, "a": 1})
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}

func TestHashDomainsDiffer(t *testing.T) {
	in := map[string]any{"a": 1}
	h1, err := InputHash(in)
	require.NoError(t, err)
	h2, err := ResultHash(in)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestEventFingerprintIgnoresID(t *testing.T) {
	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	a := AlignmentEvent{ID: "a", OccurredAt: at, Completed: true, GoalIDs: []string{"g1", "g2"}}
	b := AlignmentEvent{ID: "b", OccurredAt: at, Completed: true, GoalIDs: []string{"g2", "g1"}}

	fa, err := EventFingerprint(a)
	require.NoError(t, err)
	fb, err := EventFingerprint(b)
	require.NoError(t, err)
	assert.Equal(t, fa, fb)

	b.Completed = false
	fb, err = EventFingerprint(b)
	require.NoError(t, err)
	assert.NotEqual(t, fa, fb)
}
