//go:build !tinygo

package sim

import "time"

// Clock is a stepped clock. The monotonic time only moves when Step is
// called, so a run is reproducible regardless of host load.
type Clock struct {
	now  time.Duration
	wall time.Time
}

// NewClock returns a clock whose wall time starts at wall.
func NewClock(wall time.Time) *Clock {
	return &Clock{wall: wall}
}

func (c *Clock) Step(d time.Duration) {
	c.now += d
}

func (c *Clock) Monotonic() time.Duration {
	return c.now
}

func (c *Clock) Wall() time.Time {
	return c.wall.Add(c.now)
}
