//go:build tinygo && rp2040

package hardware

import (
	"fmt"
	"machine/usb/hid/keyboard"

	"github.com/sago35/macropad"
)

// hid sends reports through the TinyGo USB HID keyboard. Media keys go out
// as consumer control reports.
type hid struct {
	kb *keyboard.Keyboard
}

func keycode(k macropad.KeyCode) keyboard.Keycode {
	switch k {
	case macropad.KeyLeftCtrl:
		return keyboard.KeyModifierCtrl
	case macropad.KeyLeftShift:
		return keyboard.KeyModifierShift
	case macropad.KeyLeftAlt:
		return keyboard.KeyModifierAlt
	case macropad.KeyLeftGUI:
		return keyboard.KeyModifierGUI
	}
	return keyboard.Keycode(0xF000 | uint16(k))
}

func (h hid) SendKey(code macropad.KeyCode) error {
	return h.kb.Press(keycode(code))
}

func (h hid) SendConsumerControl(code macropad.ControlCode) error {
	var k keyboard.Keycode
	switch code {
	case macropad.VolumeUp:
		k = keyboard.KeyMediaVolumeInc
	case macropad.VolumeDown:
		k = keyboard.KeyMediaVolumeDec
	case macropad.Mute:
		k = keyboard.KeyMediaMute
	case macropad.PlayPause:
		k = keyboard.KeyMediaPlayPause
	default:
		return fmt.Errorf("unsupported consumer control %d", code)
	}
	return h.kb.Press(k)
}

// SendChord holds every key down in order and releases them in reverse.
func (h hid) SendChord(codes ...macropad.KeyCode) error {
	var err error
	n := 0
	for _, c := range codes {
		if err = h.kb.Down(keycode(c)); err != nil {
			break
		}
		n++
	}
	for i := n - 1; i >= 0; i-- {
		if uerr := h.kb.Up(keycode(codes[i])); uerr != nil && err == nil {
			err = uerr
		}
	}
	return err
}

func (h hid) TypeString(s string) error {
	_, err := h.kb.Write([]byte(s))
	return err
}

var (
	_ macropad.HIDOutput   = hid{}
	_ macropad.MacroOutput = hid{}
)
