package macropad

import (
	"testing"
	"time"
)

func TestEntryDue(t *testing.T) {
	e := Entry{Interval: 100 * time.Millisecond}

	if !e.Due(0) {
		t.Fatal("expected a fresh entry to be due")
	}
	if _, ran := e.LastRun(); ran {
		t.Fatal("expected no last run")
	}

	e.Mark(50 * time.Millisecond)
	if e.Due(149 * time.Millisecond) {
		t.Fatal("expected entry not due before the interval")
	}
	if !e.Due(150 * time.Millisecond) {
		t.Fatal("expected entry due at the interval")
	}
	if last, _ := e.LastRun(); last != 50*time.Millisecond {
		t.Errorf("expected last run 50ms, got %v", last)
	}
}

func TestEntryZeroInterval(t *testing.T) {
	e := Entry{}
	e.Mark(0)
	if !e.Due(0) {
		t.Fatal("expected a zero interval to run on every tick")
	}
}
