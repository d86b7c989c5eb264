package utils

import "time"

// Clock abstracts wall-clock access so date-dependent code (the "today"
// flag on grid cells, invitation expiry) stays testable.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (s *SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock returns a constant instant, for tests.
type FixedClock struct {
	FixedNow time.Time
}

func (c *FixedClock) Now() time.Time {
	return c.FixedNow
}

func (c *FixedClock) SetNow(now time.Time) {
	c.FixedNow = now
}
