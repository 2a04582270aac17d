package main

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

func parseLogLevel(raw string) (zerolog.Level, error) {
	if raw == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(raw)
	if err != nil {
		return zerolog.NoLevel, errors.Wrapf(err, "unknown log level %q", raw)
	}
	return level, nil
}

// newLogger builds the process logger. The level is applied globally so
// POST /api/config can change it at runtime.
func newLogger(cfg Config, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}
	if cfg.LogPretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}
	applyLogLevel(cfg)
	return zerolog.New(out).With().Timestamp().Logger()
}

func applyLogLevel(cfg Config) {
	level, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
