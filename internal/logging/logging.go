// Package logging holds the connector's shared zerolog instance. Every
// package logs through it so the serve command controls level and output
// format in one place.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the process-wide logger. Until Init runs it emits JSON lines
// to stderr at info level.
var Logger zerolog.Logger

// Level aliases zerolog's level type so callers never import zerolog for
// configuration alone.
type Level = zerolog.Level

// Levels accepted by the connector's log_level setting.
const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
)

// Config controls the logger built by Init.
type Config struct {
	// Level is the minimum level emitted.
	Level Level
	// Output receives log lines. Defaults to os.Stderr.
	Output io.Writer
	// Pretty switches from JSON lines to zerolog's console format for
	// running the connector locally.
	Pretty bool
}

// Init replaces the global Logger.
func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}
	Logger = zerolog.New(out).Level(cfg.Level).With().Timestamp().Logger()
}

// ParseLevel maps a log_level string (case-insensitive) to a Level.
// Unrecognized values fall back to InfoLevel.
func ParseLevel(level string) Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Debug starts a new debug level log message.
func Debug() *zerolog.Event {
	return Logger.Debug()
}

// Info starts a new info level log message.
func Info() *zerolog.Event {
	return Logger.Info()
}

// Warn starts a new warn level log message.
func Warn() *zerolog.Event {
	return Logger.Warn()
}

// Error starts a new error level log message.
func Error() *zerolog.Event {
	return Logger.Error()
}

// With derives a child logger context carrying extra fields, typically
// the per-exchange identifiers.
func With() zerolog.Context {
	return Logger.With()
}

func init() {
	Init(Config{Level: InfoLevel})
}
