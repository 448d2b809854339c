//go:build tinygo && rp2040

package hardware

import (
	"machine"
	"time"

	"github.com/sago35/macropad/protocol"
)

const syncInterval = 50 * time.Millisecond

// syncClock drains the USB serial port and applies SetClock messages to the
// wall clock.
func (z *device) syncClock(time.Duration) error {
	serial := machine.Serial
	for serial.Buffered() > 0 {
		b, err := serial.ReadByte()
		if err != nil {
			return err
		}
		m, ok := z.sync.Feed(b)
		if !ok || m.Type != protocol.TypeSetClock {
			continue
		}
		z.clock.SetWall(m.Time)
		z.logger.Info("wall clock set", "time", m.Time.Format(time.DateTime))
		if _, err := serial.Write(protocol.Marshal(protocol.Ack())); err != nil {
			return err
		}
	}
	return nil
}
