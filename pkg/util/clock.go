package util

import "time"

// Clock abstracts the current time so order time-window checks are
// testable.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant. Tests use it to place
// an order window in the past or future deterministically.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }
