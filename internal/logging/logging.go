// Package logging builds the application's *slog.Logger from config.
//
// Every package logs through log/slog. Only the handler changes:
//   - "pretty": charmbracelet/log, colored and aligned, for terminals
//   - "json":   slog.JSONHandler, for log shippers
//   - "text":   slog.TextHandler, logfmt-style
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/sakif/homework-qa/internal/config"
)

// New returns a logger writing to w in the configured format and level.
func New(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "pretty":
		h = charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(level),
			ReportTimestamp: true,
			TimeFormat:      time.Kitchen,
		})
	case "json":
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case "text":
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	default:
		return nil, fmt.Errorf("logging: unknown format %q", cfg.Format)
	}

	return slog.New(h), nil
}

// ParseLevel accepts debug, info, warn or error in any case. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	// charmbracelet/log levels share slog's numeric values.
	lvl, err := charmlog.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("logging: %w", err)
	}
	return slog.Level(lvl), nil
}
