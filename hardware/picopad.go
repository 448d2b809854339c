//go:build tinygo && rp2040

// Package hardware wires the macropad loop to the RP2040 pad: a 3x3 matrix on
// GP4-GP6 (rows) and GP9-GP11 (columns), an encoder on GP15/GP14 with its
// push button on GP13, and a 128x32 ssd1306 on I2C0 (GP16/GP17).
package hardware

import (
	"log/slog"
	"machine"
	"machine/usb/hid/keyboard"

	"github.com/sago35/macropad"
	"github.com/sago35/macropad/games/dino"
	"github.com/sago35/macropad/protocol"
	"github.com/sago35/macropad/screen"
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ssd1306"
)

var Device = &device{}

// pinTable is indexed by macropad.PinID.
var pinTable = []machine.Pin{
	macropad.PinRow0:     machine.GPIO4,
	macropad.PinRow1:     machine.GPIO5,
	macropad.PinRow2:     machine.GPIO6,
	macropad.PinCol0:     machine.GPIO9,
	macropad.PinCol1:     machine.GPIO10,
	macropad.PinCol2:     machine.GPIO11,
	macropad.PinEncoderA: machine.GPIO15,
	macropad.PinEncoderB: machine.GPIO14,
	macropad.PinButton:   machine.GPIO13,
}

const (
	displayAddress  = 0x3C
	displayRotation = drivers.Rotation0
)

type device struct {
	logger  *slog.Logger
	pins    *macropad.Pins
	display *ssd1306.Device
	screen  *screen.Screen
	hid     hid
	clock   *macropad.SystemClock
	leds    *leds
	sync    protocol.Decoder
}

// Init configures every peripheral. The LED chain is optional and a failure
// to start it is only logged.
func (z *device) Init(logger *slog.Logger) error {
	z.logger = logger
	z.clock = macropad.NewSystemClock()
	z.pins = macropad.NewPins(pinTable,
		macropad.PinEncoderA, macropad.PinEncoderB, macropad.PinButton)

	i2c := machine.I2C0
	err := i2c.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.GPIO16,
		SCL:       machine.GPIO17,
	})
	if err != nil {
		return err
	}
	d := ssd1306.NewI2C(i2c)
	d.Configure(ssd1306.Config{
		Address: displayAddress,
		Width:   128,
		Height:  32,
	})
	d.SetRotation(displayRotation)
	d.ClearDisplay()
	z.display = &d
	z.screen = screen.New(z.display)

	z.hid = hid{kb: keyboard.Port()}

	z.leds, err = newLEDs(ledPin, ledCount)
	if err != nil {
		logger.Warn("key leds disabled", "error", err)
		z.leds = nil
	}
	return nil
}

// Devices returns the loop collaborators backed by the board.
func (z *device) Devices() macropad.Devices {
	return macropad.Devices{
		Input:       z.pins,
		HID:         z.hid,
		Display:     z.screen,
		Clock:       z.clock,
		Thermometer: thermometer{},
		Game:        dino.New(),
	}
}

// Attach registers the board's own periodic work on l.
func (z *device) Attach(l *macropad.Loop) {
	l.AddTask("clock sync", syncInterval, z.syncClock)
	if z.leds != nil {
		l.OnKey(z.leds.keyPressed)
		l.AddTask("key leds", ledInterval, z.leds.update)
	}
}

type thermometer struct{}

// Temperature reads the RP2040 on-die sensor.
func (thermometer) Temperature() (float64, error) {
	return float64(machine.ReadTemperature()) / 1000, nil
}
