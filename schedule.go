package macropad

import "time"

// Entry rate-limits one periodic task. The zero Entry is due immediately.
type Entry struct {
	Interval time.Duration

	lastRunTime time.Duration
	ran         bool
}

// Due reports whether the task may run at now.
func (e *Entry) Due(now time.Duration) bool {
	return !e.ran || now-e.lastRunTime >= e.Interval
}

// Mark records a run at now.
func (e *Entry) Mark(now time.Duration) {
	e.lastRunTime = now
	e.ran = true
}

// LastRun returns the time of the last run.
func (e *Entry) LastRun() (time.Duration, bool) {
	return e.lastRunTime, e.ran
}

// Task is a periodic job added to a Loop with AddTask.
type Task struct {
	Name  string
	Entry Entry
	Run   func(now time.Duration) error
}
