// Package screen draws the pad's status pages on a monochrome display.
package screen

import (
	"fmt"
	"image/color"

	"github.com/sago35/macropad"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinydraw"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Displayer is a buffered display such as the ssd1306.
type Displayer interface {
	drivers.Displayer
	ClearBuffer()
}

var (
	white = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	black = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
)

// Sprite placement on the clock page.
const (
	spriteX    = 106
	spriteY    = 16
	spriteR    = 14
	maxOpening = 14
)

// Screen implements macropad.Display.
type Screen struct {
	d    Displayer
	font tinyfont.Fonter
}

func New(d Displayer) *Screen {
	return &Screen{
		d:    d,
		font: &proggy.TinySZ8pt7b,
	}
}

// Refresh redraws the whole frame for st and pushes it to the panel.
func (s *Screen) Refresh(st macropad.Status) error {
	s.d.ClearBuffer()
	if st.Mode == macropad.ModeGame {
		s.drawGame(st.Game)
	} else {
		s.drawClock(st)
	}
	if err := s.d.Display(); err != nil {
		return fmt.Errorf("%w: %v", macropad.ErrDisplayWrite, err)
	}
	return nil
}

func (s *Screen) drawClock(st macropad.Status) {
	w := st.Wall
	tinyfont.WriteLine(s.d, s.font, 0, 8, w.Format("15:04:05"), white)
	tinyfont.WriteLine(s.d, s.font, 0, 18, w.Format("02/01/2006"), white)

	temp := "Temp: --.-C"
	if st.TemperatureOK {
		temp = fmt.Sprintf("Temp: %.1fC", st.Temperature)
	}
	tinyfont.WriteLine(s.d, s.font, 0, 28, temp, white)

	s.drawSprite(st.Frame, st.Frames)
}

// drawSprite draws a chomping circle. The mouth opens over the first half of
// the frames and closes over the second half.
func (s *Screen) drawSprite(frame, frames int) {
	tinydraw.FilledCircle(s.d, spriteX, spriteY, spriteR, white)

	if frames <= 0 {
		return
	}
	half := frames / 2
	if half == 0 {
		half = 1
	}
	f := frame % frames
	if f > half {
		f = frames - f
	}
	open := int16(f * maxOpening / half)
	if open > 0 {
		tinydraw.FilledTriangle(s.d,
			spriteX, spriteY,
			spriteX+spriteR+1, spriteY-open,
			spriteX+spriteR+1, spriteY+open,
			black)
	}
	tinydraw.FilledCircle(s.d, spriteX+2, spriteY-spriteR/2, 2, black)
}

func (s *Screen) drawGame(g macropad.GameState) {
	s.box(g.PlayerX, g.PlayerY, g.Size)
	s.box(g.ObstacleX, g.ObstacleY, g.Size)
	tinyfont.WriteLine(s.d, s.font, 5, 8, fmt.Sprintf("Score: %d", g.Score), white)
}

// box draws a filled square clipped to the panel.
func (s *Screen) box(x, y, size int) {
	w, h := s.d.Size()
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+size, int(w)), min(y+size, int(h))
	if x1 <= x0 || y1 <= y0 {
		return
	}
	tinydraw.FilledRectangle(s.d, int16(x0), int16(y0), int16(x1-x0), int16(y1-y0), white)
}

var _ macropad.Display = (*Screen)(nil)
