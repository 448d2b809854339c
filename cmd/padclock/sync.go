package main

import (
	"errors"
	"io"
	"time"

	"github.com/sago35/macropad/protocol"
)

var errNoAck = errors.New("padclock: no acknowledgement from device")

// setClock writes a SetClock frame and waits for the device's Ack. Reads on
// rw are expected to return (0, nil) when nothing arrived in time. Log text
// the firmware prints on the same port is skipped by the decoder.
func setClock(rw io.ReadWriter, t time.Time, timeout time.Duration) error {
	if _, err := rw.Write(protocol.Marshal(protocol.SetClock(t))); err != nil {
		return err
	}

	var dec protocol.Decoder
	buf := make([]byte, 64)
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		n, err := rw.Read(buf)
		for _, b := range buf[:n] {
			if m, ok := dec.Feed(b); ok && m.Type == protocol.TypeAck {
				return nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
	}
	return errNoAck
}
