package macropad

import "time"

// Repeater turns a held key into a stream of key events: one immediately,
// then one per repeat period once the initial delay has passed.
//
// A repeat fires on the first tick that falls inside the window at the
// start of a period, and at most once per period.
type Repeater struct {
	initialDelay time.Duration
	period       time.Duration
	window       time.Duration

	active       Position
	hasActive    bool
	lastEmitTime time.Duration
	nextPeriod   int
}

// NewRepeater returns a repeater for cfg. A window wider than the period is
// clamped to the period.
func NewRepeater(cfg RepeatConfig) *Repeater {
	r := &Repeater{
		initialDelay: cfg.InitialDelay,
		period:       cfg.Period(),
		window:       cfg.Window,
	}
	if r.period <= 0 {
		r.period = 100 * time.Millisecond
	}
	if r.window <= 0 || r.window > r.period {
		r.window = r.period
	}
	return r
}

// Update is called once per tick with the held key (ok false when no key is
// held) and reports whether the key should be sent now.
func (r *Repeater) Update(pos Position, ok bool, now time.Duration) bool {
	if !ok {
		r.hasActive = false
		return false
	}
	if !r.hasActive || pos != r.active {
		r.active = pos
		r.hasActive = true
		r.lastEmitTime = now
		r.nextPeriod = 0
		return true
	}

	held := now - r.lastEmitTime
	if held < r.initialDelay {
		return false
	}
	since := held - r.initialDelay
	k := int(since / r.period)
	if k < r.nextPeriod {
		return false
	}
	if since%r.period >= r.window {
		return false
	}
	r.nextPeriod = k + 1
	return true
}

// Active returns the key being repeated.
func (r *Repeater) Active() (Position, bool) {
	return r.active, r.hasActive
}

// Reset forgets the active key; the next held key counts as new.
func (r *Repeater) Reset() {
	r.hasActive = false
	r.nextPeriod = 0
}
