package hostcfg

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dikkadev/prettyslog"
)

// ParseLevel converts error, warn, info or debug to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s (must be error, warn, info, or debug)", level)
	}
}

// NewLogger builds the logger for cfg. The pretty format writes to stdout;
// text and json write to w.
func NewLogger(cfg LoggingConfig, group string, w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "pretty", "":
		h = prettyslog.NewPrettyslogHandler(group, prettyslog.WithLevel(level))
	case "text":
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	case "json":
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	default:
		return nil, fmt.Errorf("invalid log format: %s (must be pretty, text, or json)", cfg.Format)
	}
	return slog.New(h), nil
}
