// Package protocol frames the messages exchanged with the host over the USB
// serial port.
//
// A frame is two signature bytes, a type byte and a fixed-size payload whose
// length depends on the type:
//
//	0x69 0x69 <type> <payload...>
//
// SetClock carries the wall time as year (big endian, 2 bytes), month, day,
// hour, minute and second. Ack has no payload.
package protocol

import (
	"errors"
	"fmt"
	"time"
)

const Signature uint8 = 0x69

type Type uint8

const (
	// host -> device
	TypeSetClock Type = iota + 1

	// device -> host
	TypeAck
)

func (t Type) String() string {
	switch t {
	case TypeSetClock:
		return "SetClock"
	case TypeAck:
		return "Ack"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

const headerLen = 3

// MaxFrameLen is the size of the largest frame.
const MaxFrameLen = headerLen + 7

var (
	ErrShort     = errors.New("protocol: short frame")
	ErrSignature = errors.New("protocol: bad signature")
	ErrType      = errors.New("protocol: unknown message type")
	ErrPayload   = errors.New("protocol: bad payload")
)

// payloadLen returns the payload size of t, or -1 for unknown types.
func payloadLen(t Type) int {
	switch t {
	case TypeSetClock:
		return 7
	case TypeAck:
		return 0
	default:
		return -1
	}
}

// Message is one decoded frame. Time is only set for SetClock.
type Message struct {
	Type Type
	Time time.Time
}

func SetClock(t time.Time) Message {
	return Message{Type: TypeSetClock, Time: t}
}

func Ack() Message {
	return Message{Type: TypeAck}
}

func Marshal(m Message) []byte {
	b := []byte{Signature, Signature, uint8(m.Type)}
	if m.Type == TypeSetClock {
		t := m.Time
		y := t.Year()
		b = append(b,
			uint8(y>>8), uint8(y),
			uint8(t.Month()), uint8(t.Day()),
			uint8(t.Hour()), uint8(t.Minute()), uint8(t.Second()),
		)
	}
	return b
}

func Unmarshal(data []byte) (Message, error) {
	if len(data) < headerLen {
		return Message{}, ErrShort
	}
	if data[0] != Signature || data[1] != Signature {
		return Message{}, ErrSignature
	}
	t := Type(data[2])
	n := payloadLen(t)
	if n < 0 {
		return Message{}, fmt.Errorf("%w: %d", ErrType, data[2])
	}
	if len(data) != headerLen+n {
		return Message{}, fmt.Errorf("%w: %s wants %d payload bytes, got %d", ErrShort, t, n, len(data)-headerLen)
	}

	m := Message{Type: t}
	if t == TypeSetClock {
		p := data[headerLen:]
		year := int(p[0])<<8 | int(p[1])
		month, day := int(p[2]), int(p[3])
		hour, minute, sec := int(p[4]), int(p[5]), int(p[6])
		ts := time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.UTC)
		// time.Date normalizes out of range values
		if ts.Month() != time.Month(month) || ts.Day() != day ||
			ts.Hour() != hour || ts.Minute() != minute || ts.Second() != sec {
			return Message{}, fmt.Errorf("%w: %04d-%02d-%02d %02d:%02d:%02d", ErrPayload, year, month, day, hour, minute, sec)
		}
		m.Time = ts
	}
	return m, nil
}

// Decoder reassembles frames from a byte stream. Bytes that cannot start or
// continue a frame are skipped, so the decoder resynchronizes on the next
// signature.
type Decoder struct {
	buf     [MaxFrameLen]byte
	n       int
	want    int
	dropped int
}

// Feed adds one byte and returns a message when b completes a valid frame.
func (d *Decoder) Feed(b byte) (Message, bool) {
	switch d.n {
	case 0, 1:
		if b != Signature {
			d.drop()
			return Message{}, false
		}
		d.buf[d.n] = b
		d.n++
		return Message{}, false
	case 2:
		n := payloadLen(Type(b))
		if n < 0 {
			if b != Signature {
				d.drop()
			}
			// a third signature byte keeps the last two as the header
			return Message{}, false
		}
		d.buf[2] = b
		d.n = headerLen
		d.want = headerLen + n
	default:
		d.buf[d.n] = b
		d.n++
	}

	if d.n < d.want {
		return Message{}, false
	}
	m, err := Unmarshal(d.buf[:d.n])
	d.n = 0
	if err != nil {
		d.dropped++
		return Message{}, false
	}
	return m, true
}

func (d *Decoder) drop() {
	if d.n > 0 {
		d.dropped++
	}
	d.n = 0
}

// Dropped is the number of partial or invalid frames thrown away.
func (d *Decoder) Dropped() int {
	return d.dropped
}
