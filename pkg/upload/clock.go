package upload

import "time"

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Clock is the source of time for polling. Tests replace it with a clock
// which does not wait.
type Clock interface {
	// Now returns the current time
	Now() time.Time

	// After returns a channel which receives the time once d has elapsed
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// RealClock returns a Clock backed by the time package
func RealClock() Clock {
	return realClock{}
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
