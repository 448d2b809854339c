package sim

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sago35/macropad"
)

const tick = 10 * time.Millisecond

var start = time.Date(2024, time.March, 9, 13, 45, 0, 0, time.UTC)

func newTestSim(t *testing.T) *Sim {
	t.Helper()
	s, err := New(macropad.DefaultConfig(), start, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func (s *Sim) run(n int) {
	for i := 0; i < n; i++ {
		s.Step(tick)
	}
}

func kinds(rs []Report, kind string) []string {
	var out []string
	for _, r := range rs {
		if r.Kind == kind {
			out = append(out, r.Text)
		}
	}
	return out
}

func TestBoardScan(t *testing.T) {
	b := NewBoard(macropad.DefaultConfig())
	m := macropad.NewMatrix(macropad.DefaultConfig().Matrix, b)

	b.SetKey(macropad.Position{Row: 2, Col: 1}, true)
	pos, ok := m.Scan()
	if !ok || pos != (macropad.Position{Row: 2, Col: 1}) {
		t.Fatalf("expected 2,1, got %v %v", pos, ok)
	}
	if err := b.DrivePin(macropad.PinRow0, true); err == nil {
		t.Fatal("expected driving a row to fail")
	}
}

func TestBoardEncoderPhases(t *testing.T) {
	b := NewBoard(macropad.DefaultConfig())
	d := &macropad.Decoder{}

	read := func() macropad.Direction {
		a, _ := b.ReadPin(macropad.PinEncoderA)
		bb, _ := b.ReadPin(macropad.PinEncoderB)
		return d.Update(a, bb)
	}
	read()

	b.Turn(4)
	for i := 0; i < 4; i++ {
		b.Advance()
		if dir := read(); dir != macropad.Increment {
			t.Fatalf("step %d: expected Increment, got %v", i, dir)
		}
	}
	b.Turn(-2)
	for i := 0; i < 2; i++ {
		b.Advance()
		if dir := read(); dir != macropad.Decrement {
			t.Fatalf("step %d: expected Decrement, got %v", i, dir)
		}
	}
	if b.Pending() != 0 {
		t.Fatalf("expected queue drained, got %d", b.Pending())
	}
}

func TestBoardButtonActiveLow(t *testing.T) {
	b := NewBoard(macropad.DefaultConfig())

	if level, _ := b.ReadPin(macropad.PinButton); !level {
		t.Fatal("expected a released button to read high")
	}
	b.SetButton(true)
	if level, _ := b.ReadPin(macropad.PinButton); level {
		t.Fatal("expected a pressed button to read low")
	}

	b.FailPin(macropad.PinButton, true)
	if _, err := b.ReadPin(macropad.PinButton); !errors.Is(err, errInjected) {
		t.Fatalf("expected injected error, got %v", err)
	}
}

func TestSimKeysAndVolume(t *testing.T) {
	s := newTestSim(t)

	s.Board.SetKey(macropad.Position{Row: 0, Col: 2}, true)
	s.run(2)
	s.Board.SetKey(macropad.Position{Row: 0, Col: 2}, false)
	s.Board.Turn(4)
	s.run(6)

	r := s.HID.Reports()
	if keys := kinds(r, "key"); len(keys) != 1 || keys[0] != "3" {
		t.Errorf("expected key 3 once, got %v", keys)
	}
	cc := kinds(r, "consumer")
	if len(cc) != 4 {
		t.Fatalf("expected 4 volume events, got %v", cc)
	}
	for _, c := range cc {
		if c != "VolumeUp" {
			t.Errorf("expected VolumeUp, got %s", c)
		}
	}
}

func TestSimDisplayRenders(t *testing.T) {
	s := newTestSim(t)
	s.run(1)

	if s.Display.Frames() != 1 {
		t.Fatalf("expected one frame, got %d", s.Display.Frames())
	}
	lit := 0
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if s.Display.Lit(x, y) {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatal("expected the clock page to light some pixels")
	}

	var buf bytes.Buffer
	if err := s.Display.WritePNG(&buf); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != Width || b.Dy() != Height {
		t.Errorf("expected %dx%d, got %v", Width, Height, b)
	}
}

func TestSimDisplayFailureIsCounted(t *testing.T) {
	s := newTestSim(t)
	s.Display.FailWith(errors.New("bus stuck"))
	s.Board.SetKey(macropad.Position{Row: 0, Col: 0}, true)
	s.run(20)

	st := s.Loop.Stats()
	if st.DisplayErrors != 2 {
		t.Errorf("expected 2 display errors, got %d", st.DisplayErrors)
	}
	if st.KeysSent == 0 {
		t.Error("expected keys to be sent while the display fails")
	}
}

func TestRunHeadlessDemo(t *testing.T) {
	s := newTestSim(t)

	err := s.RunHeadless(context.Background(), HeadlessConfig{
		Hz:     100,
		Ticks:  300,
		Script: Demo(),
	})
	if err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}

	r := s.HID.Reports()
	if keys := kinds(r, "key"); len(keys) != 1 || keys[0] != "1" {
		t.Errorf("expected key 1 once, got %v", keys)
	}
	cc := kinds(r, "consumer")
	want := []string{"VolumeUp", "VolumeUp", "VolumeUp", "VolumeUp",
		"VolumeDown", "VolumeDown", "VolumeDown", "VolumeDown", "Mute"}
	if len(cc) != len(want) {
		t.Fatalf("expected %v, got %v", want, cc)
	}
	for i := range want {
		if cc[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], cc[i])
		}
	}
	if s.Loop.Mode() != macropad.ModeGame {
		t.Errorf("expected the double click to start the game, got %v", s.Loop.Mode())
	}
	if st := s.Loop.Stats(); st.Ticks != 300 {
		t.Errorf("expected 300 ticks, got %d", st.Ticks)
	}
}

func TestRunHeadlessCancel(t *testing.T) {
	s := newTestSim(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.RunHeadless(ctx, HeadlessConfig{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestHIDChord(t *testing.T) {
	h := NewHID(slog.New(slog.NewTextHandler(io.Discard, nil)), 2)
	h.SendChord(macropad.KeyLeftCtrl, macropad.KeyA)
	h.TypeString("hi")
	h.SendKey(macropad.KeyEnter)

	r := h.Reports()
	if len(r) != 2 {
		t.Fatalf("expected the limit to keep 2 reports, got %v", r)
	}
	if r[0].Kind != "text" || r[0].Text != `"hi"` {
		t.Errorf("unexpected %v", r[0])
	}
	if r[1].Text != "enter" {
		t.Errorf("unexpected %v", r[1])
	}
}
