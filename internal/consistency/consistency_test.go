package consistency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/colesegura/HorizonFrame2-sub000/internal/calendar"
)

var today = calendar.Day{Year: 2024, Month: time.June, Day: 30}

func daysAgo(n ...int) calendar.DaySet {
	s := make(calendar.DaySet)
	for _, k := range n {
		s.Add(today.AddDays(-k))
	}
	return s
}

func TestEmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Score(nil, today, today, DefaultCap))
	assert.Equal(t, 0.0, Since(calendar.DaySet{}, today, DefaultCap))
}

func TestNewUserMeasuredSinceStart(t *testing.T) {
	// Started 4 days ago, active on 3 of the 5 days since.
	active := daysAgo(4, 2, 0)
	assert.InDelta(t, 0.6, Since(active, today, DefaultCap), 1e-9)
}

func TestLongTenureCapped(t *testing.T) {
	// Active every day for 100 days: still 1.0, not diluted.
	s := make(calendar.DaySet)
	for i := 0; i < 100; i++ {
		s.Add(today.AddDays(-i))
	}
	assert.Equal(t, 1.0, Since(s, today, DefaultCap))

	// Active only on the old days: nothing in the trailing 30.
	old := make(calendar.DaySet)
	for i := 40; i < 100; i++ {
		old.Add(today.AddDays(-i))
	}
	assert.Equal(t, 0.0, Since(old, today, DefaultCap))
}

func TestHalfOfCappedWindow(t *testing.T) {
	s := make(calendar.DaySet)
	for i := 0; i < 60; i += 2 {
		s.Add(today.AddDays(-i))
	}
	assert.InDelta(t, 0.5, Since(s, today, DefaultCap), 1e-9)
}

func TestOnlyToday(t *testing.T) {
	assert.Equal(t, 1.0, Since(daysAgo(0), today, DefaultCap))
}

func TestCustomCap(t *testing.T) {
	active := daysAgo(0, 1, 2, 10)
	assert.InDelta(t, 3.0/7.0, Since(active, today, 7), 1e-9)
	// Invalid cap falls back to the default window.
	assert.InDelta(t, 4.0/11.0, Since(active, today, 0), 1e-9)
}

func TestWindowStartAfterToday(t *testing.T) {
	assert.Equal(t, 0.0, Score(daysAgo(0), today.AddDays(1), today, DefaultCap))
}

func TestScoreBounded(t *testing.T) {
	sets := []calendar.DaySet{
		daysAgo(0),
		daysAgo(0, 1, 2, 3),
		daysAgo(5, 6, 7),
		daysAgo(29, 30, 31),
	}
	for _, s := range sets {
		for _, cap := range []int{1, 7, 30, 365} {
			got := Since(s, today, cap)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		}
	}
}
