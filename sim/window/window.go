//go:build !tinygo && cgo

// Package window shows the simulated pad in a desktop window.
//
// Digit keys 1-9 are the matrix switches (row major), the left and right
// arrows turn the encoder by one detent and space is the encoder button.
package window

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sago35/macropad"
	"github.com/sago35/macropad/sim"
)

const tps = 100

// detent is the number of transitions per click of the encoder.
const detent = 4

var digitKeys = [...]ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// Run opens the window and ticks s from ebiten's update loop. It blocks until
// the window closes.
func Run(s *sim.Sim, title string, scale int) error {
	if scale <= 0 {
		scale = 4
	}
	g := &game{s: s}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(sim.Width*scale, sim.Height*scale)
	ebiten.SetTPS(tps)
	return ebiten.RunGame(g)
}

type game struct {
	s   *sim.Sim
	img *ebiten.Image
}

func (g *game) Update() error {
	b := g.s.Board
	for i, k := range digitKeys {
		b.SetKey(macropad.Position{Row: i / 3, Col: i % 3}, ebiten.IsKeyPressed(k))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		b.Turn(detent)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		b.Turn(-detent)
	}
	b.SetButton(ebiten.IsKeyPressed(ebiten.KeySpace))

	g.s.Step(time.Second / tps)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = ebiten.NewImage(sim.Width, sim.Height)
	}
	g.img.WritePixels(g.s.Display.Image().Pix)
	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return sim.Width, sim.Height
}
