//go:build !tinygo

// Package sim runs the pad on the host: a simulated switch matrix, encoder
// and button feed the real Loop, and the display is rendered into an image.
package sim

import (
	"errors"
	"fmt"

	"github.com/sago35/macropad"
)

var errInjected = errors.New("sim: injected read failure")

// gray is the clockwise phase sequence of the encoder lines.
var gray = [4][2]bool{
	{false, false},
	{true, false},
	{true, true},
	{false, true},
}

// Board is a simulated pad wired according to a macropad.Config.
type Board struct {
	cfg macropad.Config

	keys   [][]bool
	rowOf  map[macropad.PinID]int
	colOf  map[macropad.PinID]int
	driven int // column index, -1 when no column is driven

	phase   int
	pending []int8

	button bool
	fail   map[macropad.PinID]bool
}

func NewBoard(cfg macropad.Config) *Board {
	b := &Board{
		cfg:    cfg,
		keys:   make([][]bool, len(cfg.Matrix.Rows)),
		rowOf:  map[macropad.PinID]int{},
		colOf:  map[macropad.PinID]int{},
		driven: -1,
		fail:   map[macropad.PinID]bool{},
	}
	for r, id := range cfg.Matrix.Rows {
		b.rowOf[id] = r
		b.keys[r] = make([]bool, len(cfg.Matrix.Cols))
	}
	for c, id := range cfg.Matrix.Cols {
		b.colOf[id] = c
	}
	return b
}

// SetKey closes or opens the switch at pos.
func (b *Board) SetKey(pos macropad.Position, down bool) {
	if pos.Row < 0 || pos.Row >= len(b.keys) || pos.Col < 0 || pos.Col >= len(b.keys[pos.Row]) {
		return
	}
	b.keys[pos.Row][pos.Col] = down
}

// SetButton presses or releases the encoder push button.
func (b *Board) SetButton(down bool) {
	b.button = down
}

// Turn queues encoder transitions, positive for clockwise. A detent of the
// usual encoder is 4 transitions.
func (b *Board) Turn(steps int) {
	dir := int8(1)
	if steps < 0 {
		dir, steps = -1, -steps
	}
	for i := 0; i < steps; i++ {
		b.pending = append(b.pending, dir)
	}
}

// Advance applies one queued encoder transition. It is called once per tick
// so the loop sees every intermediate phase.
func (b *Board) Advance() {
	if len(b.pending) == 0 {
		return
	}
	dir := b.pending[0]
	b.pending = b.pending[1:]
	b.phase = (b.phase + int(dir) + len(gray)) % len(gray)
}

// Pending is the number of encoder transitions not yet applied.
func (b *Board) Pending() int {
	return len(b.pending)
}

// FailPin makes reads of id fail until cleared.
func (b *Board) FailPin(id macropad.PinID, fail bool) {
	if fail {
		b.fail[id] = true
	} else {
		delete(b.fail, id)
	}
}

func (b *Board) ReadPin(id macropad.PinID) (bool, error) {
	if b.fail[id] {
		return false, fmt.Errorf("pin %d: %w", id, errInjected)
	}
	if r, ok := b.rowOf[id]; ok {
		if b.driven < 0 {
			return false, nil
		}
		return b.keys[r][b.driven], nil
	}
	switch id {
	case b.cfg.Encoder.A:
		return gray[b.phase][0], nil
	case b.cfg.Encoder.B:
		return gray[b.phase][1], nil
	case b.cfg.Button.Pin:
		return b.button != b.cfg.Button.ActiveLow, nil
	}
	return false, nil
}

func (b *Board) DrivePin(id macropad.PinID, level bool) error {
	c, ok := b.colOf[id]
	if !ok {
		return fmt.Errorf("pin %d is not a column", id)
	}
	if level {
		b.driven = c
	} else {
		b.driven = -1
	}
	return nil
}

func (b *Board) ReleasePin(id macropad.PinID) error {
	if _, ok := b.colOf[id]; ok {
		b.driven = -1
	}
	return nil
}

var _ macropad.DigitalInputSource = (*Board)(nil)
