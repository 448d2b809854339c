//go:build !tinygo

package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sago35/macropad"
	"github.com/sago35/macropad/games/dino"
	"github.com/sago35/macropad/screen"
)

// Panel size of the real pad.
const (
	Width  = 128
	Height = 32
)

// Sim is a complete simulated pad.
type Sim struct {
	Board   *Board
	Display *Display
	HID     *HID
	Clock   *Clock
	Loop    *macropad.Loop
}

// New wires a simulated board to a Loop built from cfg. The wall clock
// starts at wall.
func New(cfg macropad.Config, wall time.Time, logger *slog.Logger) (*Sim, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Sim{
		Board:   NewBoard(cfg),
		Display: NewDisplay(Width, Height),
		HID:     NewHID(logger.With("component", "hid"), 256),
		Clock:   NewClock(wall),
	}
	l, err := macropad.New(cfg, macropad.Devices{
		Input:       s.Board,
		HID:         s.HID,
		Display:     screen.New(s.Display),
		Clock:       s.Clock,
		Thermometer: thermometer{},
		Game:        dino.New(),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	s.Loop = l
	return s, nil
}

// Step runs one tick and then moves the clock by d.
func (s *Sim) Step(d time.Duration) {
	s.Board.Advance()
	s.Loop.Tick()
	s.Clock.Step(d)
}

// Action is a scripted change to the board at a point in simulated time.
type Action struct {
	At time.Duration
	Do func(*Board)
}

// HeadlessConfig controls RunHeadless.
type HeadlessConfig struct {
	Hz     int           // ticks per second of simulated time
	Ticks  uint64        // stop after this many ticks, 0 runs until ctx is done
	Paced  bool          // sleep between ticks to follow wall time
	Script []Action
}

// RunHeadless ticks the simulator without a window.
func (s *Sim) RunHeadless(ctx context.Context, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 100
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("sim: invalid headless hz: %d", cfg.Hz)
	}

	var ticker *time.Ticker
	if cfg.Paced {
		ticker = time.NewTicker(d)
		defer ticker.Stop()
	}

	script := cfg.Script
	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}

		for len(script) > 0 && script[0].At <= s.Clock.Monotonic() {
			script[0].Do(s.Board)
			script = script[1:]
		}
		s.Step(d)

		tick++
		if cfg.Ticks > 0 && tick >= cfg.Ticks {
			return nil
		}
	}
}

// Demo is a short script that exercises every input of the pad.
func Demo() []Action {
	key := func(pos macropad.Position, down bool) func(*Board) {
		return func(b *Board) { b.SetKey(pos, down) }
	}
	button := func(down bool) func(*Board) {
		return func(b *Board) { b.SetButton(down) }
	}
	return []Action{
		{At: 100 * time.Millisecond, Do: key(macropad.Position{Row: 0, Col: 0}, true)},
		{At: 200 * time.Millisecond, Do: key(macropad.Position{Row: 0, Col: 0}, false)},
		{At: 300 * time.Millisecond, Do: func(b *Board) { b.Turn(4) }},
		{At: 400 * time.Millisecond, Do: func(b *Board) { b.Turn(-4) }},
		{At: 500 * time.Millisecond, Do: button(true)},
		{At: 550 * time.Millisecond, Do: button(false)},
		{At: 2 * time.Second, Do: button(true)},
		{At: 2050 * time.Millisecond, Do: button(false)},
		{At: 2200 * time.Millisecond, Do: button(true)},
		{At: 2250 * time.Millisecond, Do: button(false)},
		{At: 2300 * time.Millisecond, Do: key(macropad.Position{Row: 1, Col: 1}, true)},
		{At: 2400 * time.Millisecond, Do: key(macropad.Position{Row: 1, Col: 1}, false)},
	}
}

// thermometer reports a fixed room temperature.
type thermometer struct{}

func (thermometer) Temperature() (float64, error) { return 24.5, nil }
