package macropad

import "time"

// DefaultWall is shown until the wall clock is set.
var DefaultWall = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// SystemClock derives the monotonic clock from the process start and keeps
// a settable wall clock on top of it. Setting the wall clock never moves the
// monotonic one.
type SystemClock struct {
	start time.Time
	now   func() time.Time

	wallBase time.Time
	wallAt   time.Duration
}

// NewSystemClock returns a clock started now. The wall clock reads
// DefaultWall until SetWall is called.
func NewSystemClock() *SystemClock {
	return newSystemClockWithNow(time.Now)
}

func newSystemClockWithNow(now func() time.Time) *SystemClock {
	return &SystemClock{
		start:    now(),
		now:      now,
		wallBase: DefaultWall,
	}
}

func (c *SystemClock) Monotonic() time.Duration {
	return c.now().Sub(c.start)
}

func (c *SystemClock) Wall() time.Time {
	return c.wallBase.Add(c.Monotonic() - c.wallAt)
}

// SetWall sets the wall clock to t as of now.
func (c *SystemClock) SetWall(t time.Time) {
	c.wallBase = t
	c.wallAt = c.Monotonic()
}
