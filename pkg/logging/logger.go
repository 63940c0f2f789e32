package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	// InstrumentIDKey is the key used to store instrument IDs in context
	InstrumentIDKey contextKey = "instrument_id"
)

// Config defines logging configuration
type Config struct {
	// Level is the logging level (debug, info, warn, error)
	Level string
	// Pretty determines if logs should be formatted for human readability
	Pretty bool
	// Output is where logs are written (defaults to os.Stdout)
	Output io.Writer
}

// DefaultConfig returns the default logging configuration
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Pretty: false,
		Output: os.Stdout,
	}
}

// Setup configures global logging based on the provided config
func Setup(cfg Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure output
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	// Set up pretty logging if enabled
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	// Set global logger
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// FromContext extracts a logger enriched with feed context
func FromContext(ctx context.Context) zerolog.Logger {
	if instrumentID, ok := ctx.Value(InstrumentIDKey).(string); ok {
		return log.With().Str("instrument_id", instrumentID).Logger()
	}
	return log.Logger
}

// WithInstrument stores an instrument ID in the context for FromContext
func WithInstrument(ctx context.Context, instrumentID string) context.Context {
	return context.WithValue(ctx, InstrumentIDKey, instrumentID)
}
