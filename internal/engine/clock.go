package engine

import "time"

// Clock supplies "now" to hosts. The engine itself only ever receives
// now as an argument; hosts read it from a Clock so tests can pin it.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
