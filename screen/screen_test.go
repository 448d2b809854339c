package screen

import (
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/sago35/macropad"
)

type point struct{ x, y int16 }

type fakeDisplayer struct {
	pixels   map[point]bool
	clears   int
	displays int
	err      error
}

func newFakeDisplayer() *fakeDisplayer {
	return &fakeDisplayer{pixels: map[point]bool{}}
}

func (d *fakeDisplayer) Size() (int16, int16) { return 128, 32 }

func (d *fakeDisplayer) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= 128 || y >= 32 {
		return
	}
	d.pixels[point{x, y}] = c.R > 0x80
}

func (d *fakeDisplayer) Display() error {
	d.displays++
	return d.err
}

func (d *fakeDisplayer) ClearBuffer() {
	d.clears++
	d.pixels = map[point]bool{}
}

func (d *fakeDisplayer) lit(x0, y0, x1, y1 int16) int {
	n := 0
	for p, on := range d.pixels {
		if on && p.x >= x0 && p.x < x1 && p.y >= y0 && p.y < y1 {
			n++
		}
	}
	return n
}

func clockStatus() macropad.Status {
	return macropad.Status{
		Mode:          macropad.ModeClock,
		Wall:          time.Date(2024, time.March, 9, 13, 45, 7, 0, time.UTC),
		Temperature:   23.4,
		TemperatureOK: true,
		Frames:        28,
	}
}

func TestRefreshClockPage(t *testing.T) {
	d := newFakeDisplayer()
	s := New(d)

	if err := s.Refresh(clockStatus()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if d.clears != 1 || d.displays != 1 {
		t.Fatalf("expected one clear and one display, got %d and %d", d.clears, d.displays)
	}
	if d.lit(0, 0, 80, 32) == 0 {
		t.Error("expected text on the left side")
	}
	if !d.pixels[point{spriteX - 5, spriteY}] {
		t.Error("expected the sprite body to be drawn")
	}
}

func TestSpriteMouthAnimates(t *testing.T) {
	mouth := point{spriteX + spriteR - 2, spriteY}

	d := newFakeDisplayer()
	s := New(d)
	st := clockStatus()

	st.Frame = 0
	s.Refresh(st)
	if !d.pixels[mouth] {
		t.Error("expected a closed mouth on frame 0")
	}

	st.Frame = 14
	s.Refresh(st)
	if d.pixels[mouth] {
		t.Error("expected an open mouth on frame 14")
	}
}

func TestRefreshGamePage(t *testing.T) {
	d := newFakeDisplayer()
	s := New(d)

	st := macropad.Status{
		Mode: macropad.ModeGame,
		Game: macropad.GameState{PlayerX: 10, PlayerY: 24, ObstacleX: 60, ObstacleY: 24, Size: 8, Score: 3},
	}
	if err := s.Refresh(st); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := d.lit(10, 24, 18, 32); got != 64 {
		t.Errorf("expected a full 8x8 player box, got %d pixels", got)
	}
	if got := d.lit(60, 24, 68, 32); got != 64 {
		t.Errorf("expected a full 8x8 obstacle box, got %d pixels", got)
	}
	if d.lit(100, 0, 128, 16) != 0 {
		t.Error("expected no sprite on the game page")
	}
}

func TestRefreshClipsObstacle(t *testing.T) {
	d := newFakeDisplayer()
	s := New(d)

	st := macropad.Status{
		Mode: macropad.ModeGame,
		Game: macropad.GameState{PlayerX: 10, PlayerY: 24, ObstacleX: -5, ObstacleY: 24, Size: 8},
	}
	if err := s.Refresh(st); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := d.lit(0, 24, 3, 32); got != 24 {
		t.Errorf("expected a 3x8 sliver of the obstacle, got %d pixels", got)
	}
}

func TestRefreshDisplayError(t *testing.T) {
	d := newFakeDisplayer()
	d.err = errors.New("i2c nack")

	err := New(d).Refresh(clockStatus())
	if !errors.Is(err, macropad.ErrDisplayWrite) {
		t.Fatalf("expected ErrDisplayWrite, got %v", err)
	}
}
