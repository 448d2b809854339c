// Package dino is the jump-over-the-block minigame shown on the pad when the
// encoder button is double clicked.
package dino

import "github.com/sago35/macropad"

// Playfield of the 128x32 OLED.
const (
	Width  = 128
	Ground = 24
	Size   = 8
)

const (
	playerX      = 10
	obstacleY    = Ground
	startX       = 120
	gravity      = 0.3
	jumpVelocity = -5
	speed        = 1
)

// Game is one running round. Call Update once per physics step.
type Game struct {
	y       int
	vy      float64
	jumping bool

	obstacleX int
	score     int
}

func New() *Game {
	g := &Game{}
	g.Reset()
	return g
}

func (g *Game) Reset() {
	g.y = Ground
	g.vy = 0
	g.jumping = false
	g.obstacleX = startX
	g.score = 0
}

// Update advances the game by one step. jump starts a jump when the player
// is on the ground.
func (g *Game) Update(jump bool) {
	if jump && !g.jumping {
		g.vy = jumpVelocity
		g.jumping = true
	}

	g.vy += gravity
	g.y += int(g.vy)
	if g.y > Ground {
		g.y = Ground
		g.vy = 0
		g.jumping = false
	}

	g.obstacleX -= speed
	if g.obstacleX < -Size {
		g.obstacleX = Width
		g.score++
	}

	if g.collides() {
		g.score = 0
		g.obstacleX = Width
	}
}

func (g *Game) collides() bool {
	return playerX < g.obstacleX+Size &&
		playerX+Size > g.obstacleX &&
		g.y < obstacleY+Size &&
		g.y+Size > obstacleY
}

func (g *Game) State() macropad.GameState {
	return macropad.GameState{
		PlayerX:   playerX,
		PlayerY:   g.y,
		ObstacleX: g.obstacleX,
		ObstacleY: obstacleY,
		Size:      Size,
		Score:     g.score,
	}
}

var _ macropad.Game = (*Game)(nil)
