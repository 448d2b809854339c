package macropad

import (
	"errors"
	"io"
	"log/slog"
	"time"
)

var errBus = errors.New("bus error")

// fakeInput wires the default pin table to a 3x3 switch matrix, an encoder
// and an active-low button.
type fakeInput struct {
	keys    [3][3]bool
	driven  PinID
	driving bool

	a, b   bool
	button bool

	fail  map[PinID]bool
	reads map[PinID]int
}

func newFakeInput() *fakeInput {
	return &fakeInput{button: true, fail: map[PinID]bool{}, reads: map[PinID]int{}}
}

func (f *fakeInput) ReadPin(id PinID) (bool, error) {
	f.reads[id]++
	if f.fail[id] {
		return false, errBus
	}
	switch {
	case id >= PinRow0 && id <= PinRow2:
		if !f.driving || f.driven < PinCol0 || f.driven > PinCol2 {
			return false, nil
		}
		return f.keys[id-PinRow0][f.driven-PinCol0], nil
	case id == PinEncoderA:
		return f.a, nil
	case id == PinEncoderB:
		return f.b, nil
	case id == PinButton:
		return f.button, nil
	}
	return false, nil
}

func (f *fakeInput) DrivePin(id PinID, level bool) error {
	f.driven = id
	f.driving = level
	return nil
}

func (f *fakeInput) ReleasePin(id PinID) error {
	f.driving = false
	return nil
}

type fakeHID struct {
	keys     []KeyCode
	controls []ControlCode
	err      error
}

func (h *fakeHID) SendKey(code KeyCode) error {
	h.keys = append(h.keys, code)
	return h.err
}

func (h *fakeHID) SendConsumerControl(code ControlCode) error {
	h.controls = append(h.controls, code)
	return h.err
}

type fakeMacroHID struct {
	fakeHID
	chords [][]KeyCode
	typed  []string
}

func (h *fakeMacroHID) SendChord(codes ...KeyCode) error {
	h.chords = append(h.chords, append([]KeyCode(nil), codes...))
	return nil
}

func (h *fakeMacroHID) TypeString(s string) error {
	h.typed = append(h.typed, s)
	return nil
}

type fakeClock struct {
	now  time.Duration
	wall time.Time
}

func (c *fakeClock) Monotonic() time.Duration { return c.now }
func (c *fakeClock) Wall() time.Time          { return c.wall.Add(c.now) }

type fakeDisplay struct {
	refreshes []time.Duration
	clock     *fakeClock
	last      Status
	err       error
}

func (d *fakeDisplay) Refresh(st Status) error {
	d.refreshes = append(d.refreshes, d.clock.now)
	d.last = st
	return d.err
}

type fakeGame struct {
	resets int
	jumps  int
	steps  int
}

func (g *fakeGame) Reset() { g.resets++ }

func (g *fakeGame) Update(jump bool) {
	g.steps++
	if jump {
		g.jumps++
	}
}

func (g *fakeGame) State() GameState { return GameState{Score: g.jumps} }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
