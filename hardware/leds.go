//go:build tinygo && rp2040

package hardware

import (
	"image/color"
	"machine"
	"time"

	"github.com/sago35/macropad"
	pio "github.com/tinygo-org/pio/rp2-pio"
	"github.com/tinygo-org/pio/rp2-pio/piolib"
)

// One WS2812B per key, chained row major.
const (
	ledPin      = machine.GPIO22
	ledCount    = 9
	ledInterval = 20 * time.Millisecond
	ledHold     = 150 * time.Millisecond
)

var (
	ledOn  = color.RGBA{R: 0x00, G: 0x20, B: 0x40, A: 0xFF}
	ledOff = color.RGBA{A: 0xFF}
)

// leds flashes the LED under a key when it is sent.
type leds struct {
	ws    *piolib.WS2812B
	lit   int
	since time.Duration
	dirty bool
	now   time.Duration
}

func newLEDs(pin machine.Pin, n int) (*leds, error) {
	sm, err := pio.PIO0.ClaimStateMachine()
	if err != nil {
		return nil, err
	}
	ws, err := piolib.NewWS2812B(sm, pin)
	if err != nil {
		return nil, err
	}
	l := &leds{ws: ws, lit: -1, dirty: true}
	l.flush()
	return l, nil
}

func (l *leds) keyPressed(pos macropad.Position, _ macropad.Binding) {
	l.lit = pos.Row*3 + pos.Col
	l.since = l.now
	l.dirty = true
}

func (l *leds) update(now time.Duration) error {
	l.now = now
	if l.lit >= 0 && now-l.since >= ledHold {
		l.lit = -1
		l.dirty = true
	}
	if l.dirty {
		l.flush()
	}
	return nil
}

func (l *leds) flush() {
	for i := 0; i < ledCount; i++ {
		if i == l.lit {
			l.ws.PutColor(ledOn)
		} else {
			l.ws.PutColor(ledOff)
		}
	}
	l.dirty = false
}
