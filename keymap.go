package macropad

import (
	"fmt"
	"strings"
)

// KeyCode is a USB HID keyboard usage ID.
type KeyCode uint16

const (
	KeyA KeyCode = 0x04
	KeyZ KeyCode = 0x1D

	Key1 KeyCode = 0x1E
	Key2 KeyCode = 0x1F
	Key3 KeyCode = 0x20
	Key4 KeyCode = 0x21
	Key5 KeyCode = 0x22
	Key6 KeyCode = 0x23
	Key7 KeyCode = 0x24
	Key8 KeyCode = 0x25
	Key9 KeyCode = 0x26
	Key0 KeyCode = 0x27

	KeyEnter     KeyCode = 0x28
	KeyEscape    KeyCode = 0x29
	KeyBackspace KeyCode = 0x2A
	KeyTab       KeyCode = 0x2B
	KeySpace     KeyCode = 0x2C

	KeyLeftCtrl  KeyCode = 0xE0
	KeyLeftShift KeyCode = 0xE1
	KeyLeftAlt   KeyCode = 0xE2
	KeyLeftGUI   KeyCode = 0xE3
)

// IsModifier reports whether k is one of the modifier usages.
func (k KeyCode) IsModifier() bool {
	return k >= KeyLeftCtrl && k <= 0xE7
}

// Binding is what one matrix position sends.
//
// A plain binding only has Code and auto-repeats while held. A binding with
// Modifiers or Text is a macro: the chord Modifiers+Code is sent once, then
// Text is typed.
type Binding struct {
	Code      KeyCode
	Modifiers []KeyCode
	Text      string
}

// IsMacro reports whether b needs a MacroOutput.
func (b Binding) IsMacro() bool {
	return len(b.Modifiers) > 0 || b.Text != ""
}

func (b Binding) String() string {
	parts := make([]string, 0, len(b.Modifiers)+1)
	for _, m := range b.Modifiers {
		parts = append(parts, keyName(m))
	}
	if b.Code != 0 {
		parts = append(parts, keyName(b.Code))
	}
	s := strings.Join(parts, "+")
	if b.Text != "" {
		s += fmt.Sprintf(" %q", b.Text)
	}
	return s
}

// Keymap is indexed [row][col].
type Keymap [][]Binding

// DefaultKeymap is the 1-9 number pad layout.
func DefaultKeymap() Keymap {
	return Keymap{
		{{Code: Key1}, {Code: Key2}, {Code: Key3}},
		{{Code: Key4}, {Code: Key5}, {Code: Key6}},
		{{Code: Key7}, {Code: Key8}, {Code: Key9}},
	}
}

var namedKeys = map[string]KeyCode{
	"enter":     KeyEnter,
	"esc":       KeyEscape,
	"escape":    KeyEscape,
	"backspace": KeyBackspace,
	"tab":       KeyTab,
	"space":     KeySpace,
	"ctrl":      KeyLeftCtrl,
	"shift":     KeyLeftShift,
	"alt":       KeyLeftAlt,
	"gui":       KeyLeftGUI,
	"win":       KeyLeftGUI,
	"cmd":       KeyLeftGUI,
}

// ParseKey parses a single key name: a letter, a digit or one of the named
// keys ("enter", "ctrl", ...).
func ParseKey(name string) (KeyCode, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if k, ok := namedKeys[s]; ok {
		return k, nil
	}
	if len(s) == 1 {
		c := s[0]
		switch {
		case c >= 'a' && c <= 'z':
			return KeyA + KeyCode(c-'a'), nil
		case c == '0':
			return Key0, nil
		case c >= '1' && c <= '9':
			return Key1 + KeyCode(c-'1'), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown key %q", ErrConfig, name)
}

// ParseBinding parses "ctrl+alt+p" style chords. Every key but the last must
// be a modifier.
func ParseBinding(chord string) (Binding, error) {
	var b Binding
	fields := strings.Split(chord, "+")
	for i, f := range fields {
		k, err := ParseKey(f)
		if err != nil {
			return Binding{}, err
		}
		if i == len(fields)-1 {
			b.Code = k
			break
		}
		if !k.IsModifier() {
			return Binding{}, fmt.Errorf("%w: %q is not a modifier in %q", ErrConfig, f, chord)
		}
		b.Modifiers = append(b.Modifiers, k)
	}
	return b, nil
}

func keyName(k KeyCode) string {
	switch {
	case k >= KeyA && k <= KeyZ:
		return string(rune('a' + (k - KeyA)))
	case k >= Key1 && k <= Key9:
		return string(rune('1' + (k - Key1)))
	case k == Key0:
		return "0"
	}
	for name, code := range namedKeys {
		if code == k && name != "escape" && name != "win" && name != "cmd" {
			return name
		}
	}
	return fmt.Sprintf("0x%02X", uint16(k))
}
