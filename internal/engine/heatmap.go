package engine

import (
	"time"

	"github.com/colesegura/HorizonFrame2-sub000/internal/calendar"
)

// HeatCell is one day of the calendar intensity map.
type HeatCell struct {
	Day   calendar.Day `json:"day"`
	Count int          `json:"count"`
	Level int          `json:"level"`
}

// Canonical implements record.Canonicaler.
func (c HeatCell) Canonical() map[string]any {
	return map[string]any{
		"day":   c.Day.String(),
		"count": c.Count,
		"level": c.Level,
	}
}

// Heatmap returns one cell per day, oldest first, from the Sunday that
// starts the earliest covered week through today. Count is the number of
// completed alignment events plus completed journal sessions logged that
// day, so a skipped-only day stays at level 0 like it does for streaks.
func (e *Engine) Heatmap(now time.Time, in Input) ([]HeatCell, error) {
	v, err := e.resolve(now, in)
	if err != nil {
		return nil, err
	}

	start := v.today.AddDays(-int(v.today.Weekday()) - 7*(e.cfg.HeatmapWeeks-1))
	n := calendar.DaysBetween(start, v.today) + 1

	cells := make([]HeatCell, 0, n)
	for d := start; !d.After(v.today); d = d.AddDays(1) {
		count := v.events.CompletedRows(d) + v.journal.Completed(d)
		cells = append(cells, HeatCell{Day: d, Count: count, Level: Intensity(count)})
	}
	return cells, nil
}

// Intensity buckets a daily count into levels 0..4.
func Intensity(count int) int {
	switch {
	case count <= 0:
		return 0
	case count == 1:
		return 1
	case count == 2:
		return 2
	case count <= 4:
		return 3
	default:
		return 4
	}
}
