package contract

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process-wide console logger. Output goes to stderr so stdout stays clean for results.
var Logger = NewConsoleLogger(os.Stderr)

// NewConsoleLogger returns a human-readable logger.
func NewConsoleLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
}

// NewJSONLogger returns a structured logger for long-running servers.
func NewJSONLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// SetLogLevel parses and applies a global log level such as "debug" or "warn".
func SetLogLevel(level string) error {
	if level == "" {
		return nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// LoggerFrom returns the logger attached to ctx, falling back to Logger.
func LoggerFrom(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &Logger
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger.Error().Err(err).Msg(msg)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	Logger.Warn().Err(err).Msg(msg)
}
