//go:build tinygo && rp2040

package main

import (
	"context"
	"log/slog"
	"machine"
	"time"

	"github.com/sago35/macropad"
	"github.com/sago35/macropad/hardware"
)

func main() {
	logger := slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := hardware.Device.Init(logger); err != nil {
		halt(logger, "init failed", err)
	}

	loop, err := macropad.New(macropad.DefaultConfig(), hardware.Device.Devices(), logger)
	if err != nil {
		halt(logger, "loop setup failed", err)
	}
	hardware.Device.Attach(loop)

	if err := loop.Run(context.Background()); err != nil {
		halt(logger, "loop stopped", err)
	}
}

func halt(logger *slog.Logger, msg string, err error) {
	for {
		logger.Error(msg, "error", err)
		time.Sleep(5 * time.Second)
	}
}
