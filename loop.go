package macropad

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Stats counts what the loop has done since it was created.
type Stats struct {
	Ticks         int
	KeysSent      int
	EncoderEvents int
	Gestures      int
	Refreshes     int
	InputErrors   int
	DisplayErrors int
	HIDErrors     int
	Desyncs       int
}

// Loop is the cooperative scheduler. Each Tick samples the monotonic clock
// once and then, in this order, polls the key matrix, the encoder, the
// button and finally the periodic tasks (status sampling, sprite, game,
// added tasks, display refresh). All output happens inside the tick.
type Loop struct {
	cfg    Config
	logger *slog.Logger

	in      DigitalInputSource
	hid     HIDOutput
	display Display
	clock   Clock
	thermo  Thermometer
	game    Game

	matrix   *Matrix
	repeater *Repeater
	decoder  *Decoder
	clicks   *ClickDetector

	encoderEntry Entry
	clockEntry   Entry
	spriteEntry  Entry
	gameEntry    Entry
	displayEntry Entry
	tasks        []*Task

	mode          Mode
	status        Status
	encoderAcc    int
	buttonPressed bool
	chord         [8]KeyCode

	onKey     []func(Position, Binding)
	onGesture []func(Gesture)

	stats       Stats
	inputErrors int
}

// New builds a loop. It fails only on an invalid configuration or missing
// required devices.
func New(cfg Config, dev Devices, logger *slog.Logger) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if dev.Input == nil || dev.HID == nil || dev.Clock == nil {
		return nil, fmt.Errorf("%w: input, hid and clock are required", ErrConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	l := &Loop{
		cfg:      cfg,
		logger:   logger,
		in:       dev.Input,
		hid:      dev.HID,
		display:  dev.Display,
		clock:    dev.Clock,
		thermo:   dev.Thermometer,
		game:     dev.Game,
		matrix:   NewMatrix(cfg.Matrix, dev.Input),
		repeater: NewRepeater(cfg.Repeat),
		decoder:  &Decoder{},
		clicks:   NewClickDetector(cfg.Button),

		encoderEntry: Entry{Interval: cfg.Encoder.Interval},
		clockEntry:   Entry{Interval: cfg.Schedule.Clock},
		spriteEntry:  Entry{Interval: cfg.Schedule.Sprite},
		gameEntry:    Entry{Interval: cfg.Schedule.Game},
		displayEntry: Entry{Interval: cfg.Schedule.Display},
	}
	l.status.Frames = cfg.Schedule.SpriteFrames
	l.status.Wall = dev.Clock.Wall()
	return l, nil
}

// AddTask registers a periodic task that runs after the built-in status
// tasks and before the display refresh. Errors are logged.
func (l *Loop) AddTask(name string, every time.Duration, fn func(now time.Duration) error) {
	l.tasks = append(l.tasks, &Task{Name: name, Entry: Entry{Interval: every}, Run: fn})
}

// OnKey registers fn to be called after a key has been sent.
func (l *Loop) OnKey(fn func(Position, Binding)) {
	l.onKey = append(l.onKey, fn)
}

// OnGesture registers fn to be called for every button gesture.
func (l *Loop) OnGesture(fn func(Gesture)) {
	l.onGesture = append(l.onGesture, fn)
}

// Run ticks until ctx is done, sleeping Schedule.LoopDelay between ticks.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("loop started",
		"rows", len(l.cfg.Matrix.Rows),
		"cols", len(l.cfg.Matrix.Cols),
		"loop_delay", l.cfg.Schedule.LoopDelay,
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		l.Tick()
		if d := l.cfg.Schedule.LoopDelay; d > 0 {
			time.Sleep(d)
		}
	}
}

// Tick runs one iteration of the loop.
func (l *Loop) Tick() {
	now := l.clock.Monotonic()
	l.stats.Ticks++

	l.pollKeys(now)
	if l.encoderEntry.Due(now) {
		l.encoderEntry.Mark(now)
		l.pollEncoder()
	}
	l.pollButton(now)
	l.runPeriodic(now)
}

func (l *Loop) pollKeys(now time.Duration) {
	pos, edge := l.matrix.Scan()
	if err := l.matrix.Err(); err != nil {
		l.logger.Debug("matrix scan", "error", err)
	}

	if l.mode == ModeGame {
		// keys are the jump button while the game runs
		l.repeater.Reset()
		return
	}

	held := edge
	if !edge {
		if active, ok := l.repeater.Active(); ok && l.matrix.Pressed(active) {
			pos, held = active, true
		}
	}
	if !l.repeater.Update(pos, held, now) {
		return
	}

	b := l.matrix.Binding(pos)
	if b.IsMacro() && !edge {
		return
	}
	l.sendBinding(b)
	l.stats.KeysSent++
	for _, fn := range l.onKey {
		fn(pos, b)
	}
}

func (l *Loop) sendBinding(b Binding) {
	var err error
	mo, ok := l.hid.(MacroOutput)
	switch {
	case b.IsMacro() && ok:
		chord := append(l.chord[:0], b.Modifiers...)
		if b.Code != 0 {
			chord = append(chord, b.Code)
		}
		if len(chord) > 0 {
			err = mo.SendChord(chord...)
		}
		if err == nil && b.Text != "" {
			err = mo.TypeString(b.Text)
		}
	case b.Code != 0:
		err = l.hid.SendKey(b.Code)
	}
	if err != nil {
		l.stats.HIDErrors++
		l.logger.Warn("send key failed", "key", b.String(), "error", err)
	}
}

func (l *Loop) pollEncoder() {
	a, err := l.in.ReadPin(l.cfg.Encoder.A)
	if err == nil {
		var b bool
		b, err = l.in.ReadPin(l.cfg.Encoder.B)
		if err == nil {
			l.decode(a, b)
			return
		}
	}
	l.inputErrors++
	l.logger.Debug("encoder read", "error", fmt.Errorf("%w: %v", ErrInputRead, err))
}

func (l *Loop) decode(a, b bool) {
	desyncs := l.decoder.Desyncs()
	dir := l.decoder.Update(a, b)
	if dir == None {
		return
	}
	if l.decoder.Desyncs() != desyncs {
		l.stats.Desyncs++
		l.logger.Debug("encoder", "error", ErrEncoderDesync, "count", l.decoder.Count())
	}

	if (l.encoderAcc > 0 && dir < 0) || (l.encoderAcc < 0 && dir > 0) {
		l.encoderAcc = 0
	}
	l.encoderAcc += int(dir)
	if l.encoderAcc < l.cfg.Encoder.Divider && l.encoderAcc > -l.cfg.Encoder.Divider {
		return
	}

	code := VolumeUp
	if l.encoderAcc < 0 {
		code = VolumeDown
	}
	l.encoderAcc = 0
	l.stats.EncoderEvents++
	l.sendControl(code)
}

func (l *Loop) sendControl(code ControlCode) {
	if err := l.hid.SendConsumerControl(code); err != nil {
		l.stats.HIDErrors++
		l.logger.Warn("send consumer control failed", "code", code.String(), "error", err)
	}
}

func (l *Loop) pollButton(now time.Duration) {
	level, err := l.in.ReadPin(l.cfg.Button.Pin)
	if err != nil {
		// keep the last known level so a glitch is not a release
		l.inputErrors++
		l.logger.Debug("button read", "error", fmt.Errorf("%w: %v", ErrInputRead, err))
	} else {
		l.buttonPressed = level != l.cfg.Button.ActiveLow
	}

	g := l.clicks.Update(l.buttonPressed, now)
	if g == NoGesture {
		return
	}
	l.stats.Gestures++
	l.logger.Debug("gesture", "gesture", g.String())

	switch g {
	case MuteGesture:
		l.sendControl(Mute)
	case LongPress:
		l.sendControl(PlayPause)
	case Toggle:
		l.toggleMode()
	}
	for _, fn := range l.onGesture {
		fn(g)
	}
}

func (l *Loop) toggleMode() {
	if l.game == nil {
		l.logger.Debug("toggle ignored, no game")
		return
	}
	if l.mode == ModeGame {
		l.mode = ModeClock
	} else {
		l.mode = ModeGame
		l.game.Reset()
		l.status.Game = l.game.State()
		l.gameEntry = Entry{Interval: l.cfg.Schedule.Game}
	}
	l.repeater.Reset()
	l.logger.Info("mode changed", "mode", l.mode.String())
}

func (l *Loop) runPeriodic(now time.Duration) {
	if l.clockEntry.Due(now) {
		l.clockEntry.Mark(now)
		l.sampleStatus()
	}
	if l.spriteEntry.Due(now) {
		l.spriteEntry.Mark(now)
		l.status.Frame = (l.status.Frame + 1) % l.cfg.Schedule.SpriteFrames
	}
	if l.mode == ModeGame && l.gameEntry.Due(now) {
		l.gameEntry.Mark(now)
		l.game.Update(l.matrix.AnyPressed())
		l.status.Game = l.game.State()
	}
	for _, t := range l.tasks {
		if !t.Entry.Due(now) {
			continue
		}
		t.Entry.Mark(now)
		if err := t.Run(now); err != nil {
			l.logger.Warn("task failed", "task", t.Name, "error", err)
		}
	}
	if l.display != nil && l.displayEntry.Due(now) {
		l.displayEntry.Mark(now)
		l.refresh()
	}
}

func (l *Loop) sampleStatus() {
	l.status.Wall = l.clock.Wall()
	if l.thermo == nil {
		return
	}
	t, err := l.thermo.Temperature()
	if err != nil {
		l.status.TemperatureOK = false
		l.logger.Debug("temperature read", "error", err)
		return
	}
	l.status.Temperature = t
	l.status.TemperatureOK = true
}

func (l *Loop) refresh() {
	l.status.Mode = l.mode
	l.status.EncoderCount = l.decoder.Count()
	if err := l.display.Refresh(l.status); err != nil {
		l.stats.DisplayErrors++
		if !errors.Is(err, ErrDisplayWrite) {
			err = fmt.Errorf("%w: %v", ErrDisplayWrite, err)
		}
		l.logger.Warn("display refresh failed", "error", err)
		return
	}
	l.stats.Refreshes++
}

// Mode returns what the display currently shows.
func (l *Loop) Mode() Mode {
	return l.mode
}

// Status returns the state handed to the last display refresh, updated with
// the latest samples.
func (l *Loop) Status() Status {
	st := l.status
	st.Mode = l.mode
	st.EncoderCount = l.decoder.Count()
	return st
}

// Stats returns the loop counters.
func (l *Loop) Stats() Stats {
	s := l.stats
	s.InputErrors = l.inputErrors + l.matrix.ReadErrors()
	return s
}

// Matrix exposes the key scanner, mainly for the game and for tests.
func (l *Loop) Matrix() *Matrix {
	return l.matrix
}
