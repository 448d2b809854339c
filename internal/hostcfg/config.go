// Package hostcfg loads the YAML configuration shared by the host binaries.
package hostcfg

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sago35/macropad"
	"gopkg.in/yaml.v3"
)

// File is the YAML configuration. Durations are in milliseconds.
type File struct {
	Matrix   MatrixFile    `yaml:"matrix"`
	Repeat   RepeatFile    `yaml:"repeat"`
	Encoder  EncoderFile   `yaml:"encoder"`
	Button   ButtonFile    `yaml:"button"`
	Schedule ScheduleFile  `yaml:"schedule"`
	Logging  LoggingConfig `yaml:"logging"`
	Serial   SerialConfig  `yaml:"serial"`
}

type MatrixFile struct {
	// Keymap rows of key names ("1", "enter", "ctrl+alt+p") or macros
	// ({key: "ctrl+l", text: "hello"}).
	Keymap   [][]Key `yaml:"keymap"`
	Debounce int     `yaml:"debounce"`
}

type RepeatFile struct {
	InitialDelayMS int `yaml:"initial_delay_ms"`
	Rate           int `yaml:"rate"`
	WindowMS       int `yaml:"window_ms"`
}

type EncoderFile struct {
	Divider    int `yaml:"divider"`
	IntervalMS int `yaml:"interval_ms"`
}

type ButtonFile struct {
	DoubleClickMS int `yaml:"double_click_ms"`
	LongPressMS   int `yaml:"long_press_ms"`
}

type ScheduleFile struct {
	DisplayMS    int `yaml:"display_ms"`
	ClockMS      int `yaml:"clock_ms"`
	SpriteMS     int `yaml:"sprite_ms"`
	SpriteFrames int `yaml:"sprite_frames"`
	GameMS       int `yaml:"game_ms"`
	LoopDelayMS  int `yaml:"loop_delay_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // pretty, text or json
}

type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// Key is one keymap entry.
type Key struct {
	Key  string `yaml:"key"`
	Text string `yaml:"text,omitempty"`
}

// UnmarshalYAML accepts either a plain scalar or a mapping.
func (k *Key) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		k.Key = value.Value
		k.Text = ""
		return nil
	}
	type plain Key
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*k = Key(p)
	return nil
}

func (k Key) binding() (macropad.Binding, error) {
	var b macropad.Binding
	if k.Key != "" {
		var err error
		if b, err = macropad.ParseBinding(k.Key); err != nil {
			return macropad.Binding{}, err
		}
	}
	b.Text = k.Text
	if b.Code == 0 && b.Text == "" {
		return macropad.Binding{}, fmt.Errorf("%w: empty keymap entry", macropad.ErrConfig)
	}
	return b, nil
}

func ms(d time.Duration) int {
	return int(d / time.Millisecond)
}

func dur(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// Default returns the file equivalent of macropad.DefaultConfig.
func Default() File {
	c := macropad.DefaultConfig()
	f := File{
		Matrix: MatrixFile{Debounce: c.Matrix.Debounce},
		Repeat: RepeatFile{
			InitialDelayMS: ms(c.Repeat.InitialDelay),
			Rate:           c.Repeat.Rate,
			WindowMS:       ms(c.Repeat.Window),
		},
		Encoder: EncoderFile{
			Divider:    c.Encoder.Divider,
			IntervalMS: ms(c.Encoder.Interval),
		},
		Button: ButtonFile{
			DoubleClickMS: ms(c.Button.DoubleClickWindow),
			LongPressMS:   ms(c.Button.LongPress),
		},
		Schedule: ScheduleFile{
			DisplayMS:    ms(c.Schedule.Display),
			ClockMS:      ms(c.Schedule.Clock),
			SpriteMS:     ms(c.Schedule.Sprite),
			SpriteFrames: c.Schedule.SpriteFrames,
			GameMS:       ms(c.Schedule.Game),
			LoopDelayMS:  ms(c.Schedule.LoopDelay),
		},
		Logging: LoggingConfig{Level: "info", Format: "pretty"},
		Serial:  SerialConfig{Baud: 115200},
	}
	for _, row := range c.Matrix.Keymap {
		keys := make([]Key, len(row))
		for i, b := range row {
			keys[i] = Key{Key: b.String()}
		}
		f.Matrix.Keymap = append(f.Matrix.Keymap, keys)
	}
	return f
}

// Load reads path on top of Default. Unknown fields are rejected.
func Load(path string) (File, error) {
	if path == "" {
		return File{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return File{}, fmt.Errorf("read config file: %w", err)
	}
	return Parse(b)
}

// Parse decodes a YAML document on top of Default.
func Parse(b []byte) (File, error) {
	f := Default()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("decode config yaml: %w", err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("decode config yaml: unexpected trailing document")
	}
	return f, nil
}

// Config converts f to a validated macropad.Config. Pins and the button
// polarity always come from macropad.DefaultConfig.
func (f File) Config() (macropad.Config, error) {
	c := macropad.DefaultConfig()

	km := make(macropad.Keymap, 0, len(f.Matrix.Keymap))
	for r, row := range f.Matrix.Keymap {
		bs := make([]macropad.Binding, len(row))
		for i, k := range row {
			b, err := k.binding()
			if err != nil {
				return macropad.Config{}, fmt.Errorf("keymap row %d key %d: %w", r, i, err)
			}
			bs[i] = b
		}
		km = append(km, bs)
	}
	c.Matrix.Keymap = km
	c.Matrix.Debounce = f.Matrix.Debounce

	c.Repeat = macropad.RepeatConfig{
		InitialDelay: dur(f.Repeat.InitialDelayMS),
		Rate:         f.Repeat.Rate,
		Window:       dur(f.Repeat.WindowMS),
	}
	c.Encoder.Divider = f.Encoder.Divider
	c.Encoder.Interval = dur(f.Encoder.IntervalMS)
	c.Button.DoubleClickWindow = dur(f.Button.DoubleClickMS)
	c.Button.LongPress = dur(f.Button.LongPressMS)
	c.Schedule = macropad.ScheduleConfig{
		Display:      dur(f.Schedule.DisplayMS),
		Clock:        dur(f.Schedule.ClockMS),
		Sprite:       dur(f.Schedule.SpriteMS),
		SpriteFrames: f.Schedule.SpriteFrames,
		Game:         dur(f.Schedule.GameMS),
		LoopDelay:    dur(f.Schedule.LoopDelayMS),
	}

	if err := c.Validate(); err != nil {
		return macropad.Config{}, err
	}
	return c, nil
}

// FlagOverrides holds flag values that win over the file. Nil pointers are
// not applied.
type FlagOverrides struct {
	LogLevel  *string
	LogFormat *string
	Port      *string
	Baud      *int
}

func (o FlagOverrides) Apply(f *File) {
	if f == nil {
		return
	}
	if o.LogLevel != nil {
		f.Logging.Level = *o.LogLevel
	}
	if o.LogFormat != nil {
		f.Logging.Format = *o.LogFormat
	}
	if o.Port != nil {
		f.Serial.Port = *o.Port
	}
	if o.Baud != nil {
		f.Serial.Baud = *o.Baud
	}
}

// ExpandPath expands a leading ~ to the home directory.
func ExpandPath(p string) string {
	if p == "" || p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	if len(p) >= 2 && (p[1] == '/' || p[1] == '\\') {
		return filepath.Join(home, p[2:])
	}
	return p
}
