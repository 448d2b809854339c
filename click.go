package macropad

import "time"

// Gesture is the classification of button activity.
type Gesture uint8

const (
	NoGesture Gesture = iota
	Toggle
	MuteGesture
	LongPress
)

func (g Gesture) String() string {
	switch g {
	case Toggle:
		return "Toggle"
	case MuteGesture:
		return "Mute"
	case LongPress:
		return "LongPress"
	default:
		return "None"
	}
}

// ClickDetector classifies a momentary button.
//
// A press starts a window. A second press inside the window is a Toggle.
// When the window runs out after one press it is a Mute, so a single click
// is reported DoubleClickWindow after it happened. A held button is one
// press; it has to be released before it can click again.
type ClickDetector struct {
	window    time.Duration
	longPress time.Duration

	wasPressed bool
	pressedAt  time.Duration
	longFired  bool

	pending        bool
	firstClickTime time.Duration
	clickCount     int
}

func NewClickDetector(cfg ButtonConfig) *ClickDetector {
	return &ClickDetector{
		window:    cfg.DoubleClickWindow,
		longPress: cfg.LongPress,
	}
}

// Update takes one sample of the button and returns at most one gesture.
func (c *ClickDetector) Update(pressed bool, now time.Duration) Gesture {
	edge := pressed && !c.wasPressed
	c.wasPressed = pressed
	if edge {
		c.pressedAt = now
		c.longFired = false
	}

	if pressed && c.longPress > 0 && !c.longFired && now-c.pressedAt >= c.longPress {
		c.longFired = true
		c.clear()
		return LongPress
	}

	if c.pending && now-c.firstClickTime >= c.window {
		// A press that may still become a long press holds the window open.
		if !(pressed && !edge && c.longPress > 0 && !c.longFired) {
			c.clear()
			if edge {
				c.start(now)
			}
			return MuteGesture
		}
	}

	if !edge {
		return NoGesture
	}
	if !c.pending {
		c.start(now)
		return NoGesture
	}
	c.clear()
	return Toggle
}

func (c *ClickDetector) start(now time.Duration) {
	c.pending = true
	c.firstClickTime = now
	c.clickCount = 1
}

func (c *ClickDetector) clear() {
	c.pending = false
	c.firstClickTime = 0
	c.clickCount = 0
}

// Pending reports whether a click window is open.
func (c *ClickDetector) Pending() bool {
	return c.pending
}

// Reset drops any pending click. A button that is still held stays held.
func (c *ClickDetector) Reset() {
	c.clear()
	c.longFired = false
}
