//go:build tinygo

package macropad

import (
	"fmt"

	"machine"
)

// Pins is a DigitalInputSource over machine pins, indexed by PinID.
//
// Matrix columns are driven by switching the pin to output for the duration
// of one sample and back to a pulled-down input afterwards, so an idle
// column never fights a pressed key in another column.
type Pins struct {
	table  []machine.Pin
	pullup []bool
}

// NewPins configures every pin of table as an input. Pins listed in pullup
// get the internal pull-up, all others the pull-down. machine.NoPin entries
// are skipped and always read low.
func NewPins(table []machine.Pin, pullup ...PinID) *Pins {
	p := &Pins{
		table:  table,
		pullup: pullupMask(len(table), pullup),
	}
	for id := range table {
		p.release(PinID(id))
	}
	return p
}

func (p *Pins) pin(id PinID) (machine.Pin, error) {
	if !id.within(len(p.table)) {
		return machine.NoPin, fmt.Errorf("%w: no pin for id %d", ErrInputRead, id)
	}
	return p.table[id], nil
}

func (p *Pins) ReadPin(id PinID) (bool, error) {
	pin, err := p.pin(id)
	if err != nil {
		return false, err
	}
	if pin == machine.NoPin {
		return false, nil
	}
	return pin.Get(), nil
}

func (p *Pins) DrivePin(id PinID, level bool) error {
	pin, err := p.pin(id)
	if err != nil {
		return err
	}
	if pin == machine.NoPin {
		return nil
	}
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Set(level)
	return nil
}

func (p *Pins) ReleasePin(id PinID) error {
	if _, err := p.pin(id); err != nil {
		return err
	}
	p.release(id)
	return nil
}

func (p *Pins) release(id PinID) {
	pin := p.table[id]
	if pin == machine.NoPin {
		return
	}
	if p.pullup[id] {
		pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		return
	}
	pin.Low()
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
}
