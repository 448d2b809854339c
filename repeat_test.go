package macropad

import (
	"testing"
	"time"
)

const tick = 10 * time.Millisecond

func countSends(r *Repeater, pos Position, from, to time.Duration) int {
	n := 0
	for now := from; now <= to; now += tick {
		if r.Update(pos, true, now) {
			n++
		}
	}
	return n
}

func TestRepeaterSendsImmediately(t *testing.T) {
	r := NewRepeater(DefaultConfig().Repeat)

	if !r.Update(Position{0, 0}, true, 0) {
		t.Fatal("expected first press to send")
	}
	if r.Update(Position{0, 0}, true, tick) {
		t.Fatal("expected no repeat before the initial delay")
	}
	if !r.Update(Position{1, 1}, true, 2*tick) {
		t.Fatal("expected a different key to send immediately")
	}
	if pos, ok := r.Active(); !ok || pos != (Position{1, 1}) {
		t.Fatalf("expected 1,1 active, got %v %v", pos, ok)
	}
}

func TestRepeaterHeldSixHundredMillis(t *testing.T) {
	r := NewRepeater(DefaultConfig().Repeat)

	// 60 ticks, t = 0 .. 590ms
	if got := countSends(r, Position{0, 0}, 0, 590*time.Millisecond); got != 2 {
		t.Fatalf("expected 2 sends, got %d", got)
	}
}

func TestRepeaterRate(t *testing.T) {
	tests := []struct {
		name string
		to   time.Duration
		want int
	}{
		{"before delay", 490 * time.Millisecond, 1},
		{"at delay", 500 * time.Millisecond, 2},
		{"one period", 600 * time.Millisecond, 3},
		{"five periods", time.Second, 7},
		{"mid period", 1050 * time.Millisecond, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRepeater(DefaultConfig().Repeat)
			if got := countSends(r, Position{0, 0}, 0, tt.to); got != tt.want {
				t.Errorf("expected %d sends, got %d", tt.want, got)
			}
		})
	}
}

func TestRepeaterCoarseTicks(t *testing.T) {
	r := NewRepeater(DefaultConfig().Repeat)

	n := 0
	for now := time.Duration(0); now <= 1020*time.Millisecond; now += 30 * time.Millisecond {
		if r.Update(Position{0, 0}, true, now) {
			n++
		}
	}
	// 0, 510, 600, 720, 810, 900, 1020
	if n != 7 {
		t.Fatalf("expected 7 sends, got %d", n)
	}
}

func TestRepeaterNarrowWindow(t *testing.T) {
	ms := time.Millisecond
	tests := []struct {
		name string
		step time.Duration
		want []time.Duration
	}{
		{"fine ticks", 10 * ms, []time.Duration{0, 500 * ms, 600 * ms, 700 * ms, 800 * ms, 900 * ms, time.Second}},
		// 690 and 990 fall outside the window, so those periods are skipped
		{"coarse ticks", 30 * ms, []time.Duration{0, 510 * ms, 600 * ms, 810 * ms, 900 * ms}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig().Repeat
			cfg.Window = 20 * ms
			r := NewRepeater(cfg)

			var got []time.Duration
			for now := time.Duration(0); now <= time.Second; now += tt.step {
				if r.Update(Position{0, 0}, true, now) {
					got = append(got, now)
				}
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected sends at %v, got %v", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("send %d: expected at %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestRepeaterReleaseResets(t *testing.T) {
	r := NewRepeater(DefaultConfig().Repeat)

	r.Update(Position{0, 0}, true, 0)
	if r.Update(Position{}, false, tick) {
		t.Fatal("expected no send on release")
	}
	if _, ok := r.Active(); ok {
		t.Fatal("expected no active key after release")
	}
	if !r.Update(Position{0, 0}, true, 2*tick) {
		t.Fatal("expected press after release to send")
	}
}
