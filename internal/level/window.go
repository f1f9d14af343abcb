// Package level decides when a tracked interest moves up a level.
//
// The decision is a pure function of the interest's trailing score window
// and its current level. Nothing is cached between calls.
package level

import "slices"

// WindowSize is the number of recent scores an interest keeps.
const WindowSize = 7

// Window is a bounded FIFO of the most recent scores, oldest first.
// The zero value is an empty window.
type Window struct {
	scores []int
}

// WindowOf rebuilds a window from persisted scores. When more than
// WindowSize scores are given only the newest are kept.
func WindowOf(scores []int) Window {
	var w Window
	for _, s := range scores {
		w.Push(s)
	}
	return w
}

// Push appends a score, evicting the oldest when the window is full.
func (w *Window) Push(score int) {
	if len(w.scores) == WindowSize {
		copy(w.scores, w.scores[1:])
		w.scores[len(w.scores)-1] = score
		return
	}
	w.scores = append(w.scores, score)
}

// Values returns a copy of the scores in insertion order.
func (w Window) Values() []int {
	return slices.Clone(w.scores)
}

func (w Window) Len() int { return len(w.scores) }

// Mean is the average score, 0 for an empty window.
func (w Window) Mean() float64 {
	if len(w.scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range w.scores {
		sum += s
	}
	return float64(sum) / float64(len(w.scores))
}
