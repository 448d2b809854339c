package macropad

// Direction is one decoded encoder transition.
type Direction int8

const (
	None      Direction = 0
	Increment Direction = 1
	Decrement Direction = -1
)

func (d Direction) String() string {
	switch d {
	case Increment:
		return "Increment"
	case Decrement:
		return "Decrement"
	default:
		return "None"
	}
}

// Decoder decodes the two phase lines of a rotary encoder. Every single-line
// change is one transition, so a full detent of a 4-step encoder counts 4.
type Decoder struct {
	lastA, lastB bool
	seeded       bool

	count   int
	desyncs int
}

// Update takes one sample of both lines. The first sample after creation or
// Reset only seeds the state.
//
// If both lines changed an intermediate state was missed. That sample is
// decoded as if A changed and counted as a desync.
func (d *Decoder) Update(a, b bool) Direction {
	if !d.seeded {
		d.lastA, d.lastB = a, b
		d.seeded = true
		return None
	}

	aChanged := a != d.lastA
	bChanged := b != d.lastB

	var dir Direction
	switch {
	case aChanged:
		if bChanged {
			d.desyncs++
		}
		if a != b {
			dir = Increment
		} else {
			dir = Decrement
		}
	case bChanged:
		if a == b {
			dir = Increment
		} else {
			dir = Decrement
		}
	default:
		return None
	}

	d.count += int(dir)
	d.lastA, d.lastB = a, b
	return dir
}

// Count is the net number of transitions since creation.
func (d *Decoder) Count() int {
	return d.count
}

// Desyncs is the number of samples where both lines changed.
func (d *Decoder) Desyncs() int {
	return d.desyncs
}

// Reset forgets the last sample. The count and desync tally are kept.
func (d *Decoder) Reset() {
	d.seeded = false
}
