//go:build !tinygo

package sim

import (
	"fmt"
	"log/slog"

	"github.com/sago35/macropad"
)

// Report is one thing the simulated pad sent to the host.
type Report struct {
	Kind string // "key", "consumer", "chord" or "text"
	Text string
}

func (r Report) String() string {
	return r.Kind + " " + r.Text
}

// HID logs every report instead of sending it over USB.
type HID struct {
	logger  *slog.Logger
	reports []Report
	limit   int
}

// NewHID keeps the last limit reports (0 keeps all).
func NewHID(logger *slog.Logger, limit int) *HID {
	if logger == nil {
		logger = slog.Default()
	}
	return &HID{logger: logger, limit: limit}
}

func (h *HID) record(kind, text string) {
	h.logger.Info("hid report", "kind", kind, "value", text)
	h.reports = append(h.reports, Report{Kind: kind, Text: text})
	if h.limit > 0 && len(h.reports) > h.limit {
		h.reports = h.reports[len(h.reports)-h.limit:]
	}
}

func (h *HID) SendKey(code macropad.KeyCode) error {
	h.record("key", macropad.Binding{Code: code}.String())
	return nil
}

func (h *HID) SendConsumerControl(code macropad.ControlCode) error {
	h.record("consumer", code.String())
	return nil
}

func (h *HID) SendChord(codes ...macropad.KeyCode) error {
	b := macropad.Binding{}
	for i, c := range codes {
		if i == len(codes)-1 && !c.IsModifier() {
			b.Code = c
		} else {
			b.Modifiers = append(b.Modifiers, c)
		}
	}
	h.record("chord", b.String())
	return nil
}

func (h *HID) TypeString(s string) error {
	h.record("text", fmt.Sprintf("%q", s))
	return nil
}

// Reports returns the recorded reports, oldest first.
func (h *HID) Reports() []Report {
	return append([]Report(nil), h.reports...)
}

var (
	_ macropad.HIDOutput   = (*HID)(nil)
	_ macropad.MacroOutput = (*HID)(nil)
)
