package macropad

import "time"

// Mode selects what the display shows and where keys go.
type Mode uint8

const (
	ModeClock Mode = iota
	ModeGame
)

func (m Mode) String() string {
	if m == ModeGame {
		return "game"
	}
	return "clock"
}

// GameState is a snapshot of the minigame for rendering.
type GameState struct {
	PlayerX, PlayerY     int
	ObstacleX, ObstacleY int
	Size                 int
	Score                int
}

// Status is everything the display needs to draw one frame.
type Status struct {
	Mode Mode

	Wall          time.Time
	Temperature   float64
	TemperatureOK bool

	Frame  int
	Frames int

	EncoderCount int
	Game         GameState
}
