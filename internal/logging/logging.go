// Package logging wraps zerolog the way the pack's own CLI benchmarking
// tooling does (see jhkimqd-chaos-utils/pkg/reporting), trimmed to what a
// single-process CLI harness needs: one configured logger, handed
// explicitly to the engine and adapters rather than kept as an ambient
// global.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Format selects how log lines are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config configures the harness logger.
type Config struct {
	Level  string // debug, info, warn, error
	Format Format
	Output io.Writer // defaults to os.Stderr
}

// New builds a configured zerolog.Logger. Human-readable runs use a console
// writer; machine-parseable runs emit newline-delimited JSON so a CI
// pipeline can scrape it alongside the structured result record.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	if cfg.Format != FormatJSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: false}
	}

	logger := zerolog.New(out).With().Timestamp().Logger()

	switch cfg.Level {
	case "debug":
		logger = logger.Level(zerolog.DebugLevel)
	case "warn":
		logger = logger.Level(zerolog.WarnLevel)
	case "error":
		logger = logger.Level(zerolog.ErrorLevel)
	default:
		logger = logger.Level(zerolog.InfoLevel)
	}

	return logger
}
