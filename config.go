package macropad

import (
	"fmt"
	"time"
)

// Config holds every tunable of the loop. The firmware uses DefaultConfig
// as is; host tools layer a YAML file on top of it.
type Config struct {
	Matrix   MatrixConfig
	Repeat   RepeatConfig
	Encoder  EncoderConfig
	Button   ButtonConfig
	Schedule ScheduleConfig
}

type MatrixConfig struct {
	Rows   []PinID
	Cols   []PinID
	Keymap Keymap

	// Debounce is the number of consecutive scans a key must read the
	// opposite level before its state flips. 0 flips on the first scan.
	Debounce int
}

type RepeatConfig struct {
	InitialDelay time.Duration
	Rate         int // repeats per second
	Window       time.Duration
}

// Period is the time between two repeats.
func (c RepeatConfig) Period() time.Duration {
	if c.Rate <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.Rate)
}

type EncoderConfig struct {
	A PinID
	B PinID

	// Divider is the number of same-direction transitions per volume event.
	Divider int

	// Interval is the minimum time between two encoder polls. 0 polls on
	// every tick.
	Interval time.Duration
}

type ButtonConfig struct {
	Pin       PinID
	ActiveLow bool

	DoubleClickWindow time.Duration

	// LongPress is the hold time that classifies a press as a long press.
	// 0 disables long press detection.
	LongPress time.Duration
}

type ScheduleConfig struct {
	Display      time.Duration // display refresh
	Clock        time.Duration // wall clock and temperature sampling
	Sprite       time.Duration // animation frame
	SpriteFrames int
	Game         time.Duration // minigame physics step

	// LoopDelay is slept between two ticks by Run.
	LoopDelay time.Duration
}

// DefaultConfig returns the stock settings of the pad.
func DefaultConfig() Config {
	return Config{
		Matrix: MatrixConfig{
			Rows:   []PinID{PinRow0, PinRow1, PinRow2},
			Cols:   []PinID{PinCol0, PinCol1, PinCol2},
			Keymap: DefaultKeymap(),
		},
		Repeat: RepeatConfig{
			InitialDelay: 500 * time.Millisecond,
			Rate:         10,
			Window:       100 * time.Millisecond,
		},
		Encoder: EncoderConfig{
			A:       PinEncoderA,
			B:       PinEncoderB,
			Divider: 1,
		},
		Button: ButtonConfig{
			Pin:               PinButton,
			ActiveLow:         true,
			DoubleClickWindow: time.Second,
		},
		Schedule: ScheduleConfig{
			Display:      100 * time.Millisecond,
			Clock:        time.Second,
			Sprite:       100 * time.Millisecond,
			SpriteFrames: 28,
			Game:         10 * time.Millisecond,
			LoopDelay:    10 * time.Millisecond,
		},
	}
}

// Validate checks the matrix shape and the timing values.
func (c Config) Validate() error {
	m := c.Matrix
	if len(m.Rows) == 0 || len(m.Cols) == 0 {
		return fmt.Errorf("%w: matrix needs at least one row and one column", ErrConfig)
	}
	if len(m.Keymap) != len(m.Rows) {
		return fmt.Errorf("%w: keymap has %d rows, matrix has %d", ErrConfig, len(m.Keymap), len(m.Rows))
	}
	for r, row := range m.Keymap {
		if len(row) != len(m.Cols) {
			return fmt.Errorf("%w: keymap row %d has %d keys, matrix has %d columns", ErrConfig, r, len(row), len(m.Cols))
		}
	}
	if m.Debounce < 0 {
		return fmt.Errorf("%w: negative debounce", ErrConfig)
	}
	if c.Repeat.Rate <= 0 {
		return fmt.Errorf("%w: repeat rate must be positive", ErrConfig)
	}
	if c.Repeat.InitialDelay < 0 || c.Repeat.Window <= 0 {
		return fmt.Errorf("%w: repeat delay and window must be positive", ErrConfig)
	}
	if c.Encoder.Divider <= 0 {
		return fmt.Errorf("%w: encoder divider must be positive", ErrConfig)
	}
	if c.Button.DoubleClickWindow <= 0 {
		return fmt.Errorf("%w: double click window must be positive", ErrConfig)
	}
	s := c.Schedule
	if s.Display < 0 || s.Clock < 0 || s.Sprite < 0 || s.Game < 0 || s.LoopDelay < 0 || c.Encoder.Interval < 0 {
		return fmt.Errorf("%w: negative interval", ErrConfig)
	}
	if s.SpriteFrames <= 0 {
		return fmt.Errorf("%w: sprite needs at least one frame", ErrConfig)
	}
	return nil
}
