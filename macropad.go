// Package macropad is the control loop of a small macro keypad: a 3x3 key
// matrix, a rotary encoder with a push button and a status OLED.
//
// Everything runs on one goroutine. A Loop polls the matrix, the encoder and
// the button once per tick and refreshes the display on its own interval.
// Board access goes through the DigitalInputSource, HIDOutput, Display and
// Clock interfaces so the same loop runs on the RP2040 and on the host
// simulator.
package macropad

import "time"

// PinID is a logical pin number. The board maps it to a physical pin.
type PinID int

// Logical pins used by DefaultConfig.
const (
	PinRow0 PinID = iota
	PinRow1
	PinRow2
	PinCol0
	PinCol1
	PinCol2
	PinEncoderA
	PinEncoderB
	PinButton

	PinCount
)

// within reports whether id indexes a pin table of n entries.
func (id PinID) within(n int) bool {
	return id >= 0 && int(id) < n
}

// pullupMask marks the ids of a pin table of n entries that need a pull-up.
// Ids outside the table are ignored.
func pullupMask(n int, ids []PinID) []bool {
	mask := make([]bool, n)
	for _, id := range ids {
		if id.within(n) {
			mask[id] = true
		}
	}
	return mask
}

// Position identifies one key of the matrix.
type Position struct {
	Row int
	Col int
}

// ControlCode is a consumer control (media key) usage.
type ControlCode uint16

const (
	VolumeUp ControlCode = iota + 1
	VolumeDown
	Mute
	PlayPause
)

func (c ControlCode) String() string {
	switch c {
	case VolumeUp:
		return "VolumeUp"
	case VolumeDown:
		return "VolumeDown"
	case Mute:
		return "Mute"
	case PlayPause:
		return "PlayPause"
	default:
		return "Unknown"
	}
}

// DigitalInputSource gives pin level access to the board.
type DigitalInputSource interface {
	ReadPin(id PinID) (bool, error)
	DrivePin(id PinID, level bool) error
	ReleasePin(id PinID) error
}

// HIDOutput sends reports to the host. Sends are fire-and-forget.
type HIDOutput interface {
	SendKey(code KeyCode) error
	SendConsumerControl(code ControlCode) error
}

// MacroOutput is implemented by HID sinks that can hold modifiers and type
// text.
type MacroOutput interface {
	SendChord(codes ...KeyCode) error
	TypeString(s string) error
}

// Display renders the current Status. Rendering and bus access are owned by
// the implementation.
type Display interface {
	Refresh(st Status) error
}

// Clock has two independent time sources. Monotonic is used for every
// scheduling decision; Wall is only ever shown to the user.
type Clock interface {
	Monotonic() time.Duration
	Wall() time.Time
}

// Thermometer reports the CPU temperature in degrees Celsius.
type Thermometer interface {
	Temperature() (float64, error)
}

// Game is a minigame that takes over the display and the keys.
type Game interface {
	Reset()
	Update(jump bool)
	State() GameState
}

// Devices groups the collaborators of a Loop. Input, HID and Clock are
// required.
type Devices struct {
	Input       DigitalInputSource
	HID         HIDOutput
	Display     Display
	Clock       Clock
	Thermometer Thermometer
	Game        Game
}
