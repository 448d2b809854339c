//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/sago35/macropad/internal/hostcfg"
	"github.com/sago35/macropad/sim"
	"github.com/sago35/macropad/sim/window"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (defaults when empty).")
		headless   = flag.Bool("headless", false, "Run without a window.")
		hz         = flag.Int("hz", 100, "Tick rate in headless mode.")
		ticks      = flag.Uint64("ticks", 0, "Stop after N ticks in headless mode (0 = run until interrupted).")
		paced      = flag.Bool("paced", false, "Follow wall time in headless mode.")
		demo       = flag.Bool("demo", false, "Play the built-in input script in headless mode.")
		snapshot   = flag.String("snapshot", "", "Write the final frame to this PNG file.")
		scale      = flag.Int("scale", 6, "Window scale.")
		logLevel   = flag.String("log-level", "", "Log level override (debug, info, warn, error).")
		logFormat  = flag.String("log-format", "", "Log format override (pretty, text, json).")
	)
	flag.Parse()

	if err := run(runOptions{
		configPath: *configPath,
		headless:   *headless,
		hz:         *hz,
		ticks:      *ticks,
		paced:      *paced,
		demo:       *demo,
		snapshot:   *snapshot,
		scale:      *scale,
		overrides:  overrides(logLevel, logFormat),
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type runOptions struct {
	configPath string
	headless   bool
	hz         int
	ticks      uint64
	paced      bool
	demo       bool
	snapshot   string
	scale      int
	overrides  hostcfg.FlagOverrides
}

// overrides keeps only the flags given on the command line.
func overrides(logLevel, logFormat *string) hostcfg.FlagOverrides {
	var o hostcfg.FlagOverrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			o.LogLevel = logLevel
		case "log-format":
			o.LogFormat = logFormat
		}
	})
	return o
}

func run(opts runOptions) error {
	file := hostcfg.Default()
	if opts.configPath != "" {
		var err error
		if file, err = hostcfg.Load(opts.configPath); err != nil {
			return err
		}
	}
	opts.overrides.Apply(&file)

	logger, err := hostcfg.NewLogger(file.Logging, "macropad-sim", os.Stderr)
	if err != nil {
		return err
	}
	cfg, err := file.Config()
	if err != nil {
		return err
	}

	s, err := sim.New(cfg, time.Now(), logger)
	if err != nil {
		return err
	}

	if opts.headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		hc := sim.HeadlessConfig{Hz: opts.hz, Ticks: opts.ticks, Paced: opts.paced}
		if opts.demo {
			hc.Script = sim.Demo()
		}
		err = s.RunHeadless(ctx, hc)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	} else {
		err = window.Run(s, "Macropad", opts.scale)
	}
	if err != nil {
		return err
	}

	logStats(logger, s)
	if opts.snapshot != "" {
		return writeSnapshot(opts.snapshot, s)
	}
	return nil
}

func logStats(logger *slog.Logger, s *sim.Sim) {
	st := s.Loop.Stats()
	logger.Info("simulation finished",
		"ticks", st.Ticks,
		"keys", st.KeysSent,
		"encoder", st.EncoderEvents,
		"gestures", st.Gestures,
		"refreshes", st.Refreshes,
		"input_errors", st.InputErrors,
		"display_errors", st.DisplayErrors,
		"hid_errors", st.HIDErrors,
		"desyncs", st.Desyncs,
		"mode", s.Loop.Mode(),
	)
}

func writeSnapshot(path string, s *sim.Sim) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.Display.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
