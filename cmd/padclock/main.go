//go:build !tinygo

// Command padclock sets the macropad wall clock over its USB serial port.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sago35/macropad/internal/hostcfg"
	"go.bug.st/serial"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (defaults when empty).")
		port       = flag.String("port", "", "Serial port of the macropad.")
		baud       = flag.Int("baud", 0, "Baud rate override.")
		list       = flag.Bool("list", false, "List serial ports and exit.")
		timeout    = flag.Duration("timeout", 2*time.Second, "How long to wait for the acknowledgement.")
		logLevel   = flag.String("log-level", "", "Log level override (debug, info, warn, error).")
	)
	flag.Parse()

	if *list {
		ports, err := serial.GetPortsList()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	var o hostcfg.FlagOverrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			o.Port = port
		case "baud":
			o.Baud = baud
		case "log-level":
			o.LogLevel = logLevel
		}
	})

	if err := run(*configPath, o, *timeout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, o hostcfg.FlagOverrides, timeout time.Duration) error {
	file := hostcfg.Default()
	if configPath != "" {
		var err error
		if file, err = hostcfg.Load(configPath); err != nil {
			return err
		}
	}
	o.Apply(&file)

	logger, err := hostcfg.NewLogger(file.Logging, "padclock", os.Stderr)
	if err != nil {
		return err
	}
	if file.Serial.Port == "" {
		return fmt.Errorf("no serial port given, use -port or serial.port in the config")
	}

	p, err := serial.Open(file.Serial.Port, &serial.Mode{BaudRate: file.Serial.Baud})
	if err != nil {
		return fmt.Errorf("open %s: %w", file.Serial.Port, err)
	}
	defer p.Close()
	if err := p.SetReadTimeout(100 * time.Millisecond); err != nil {
		return err
	}

	now := time.Now()
	logger.Info("setting clock", "port", file.Serial.Port, "time", now.Format(time.DateTime))
	if err := setClock(p, now, timeout); err != nil {
		return err
	}
	logger.Info("clock acknowledged")
	return nil
}
