// Package log provides structured logging for pipeline stages and
// estimators, backed by zerolog.
package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Level is the minimum severity a logger emits.
type Level int8

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// ToLogLevel parses a level name ("debug", "info", "warn", "error").
// Unknown names fall back to InfoLevel.
func ToLogLevel(name string) Level {
	switch name {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Logger is the logging surface estimators and pipeline stages depend on.
// Fields are alternating key/value pairs.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// LoggerProvider hands out named loggers sharing one sink and level.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
}

// ZerologProvider implements LoggerProvider on top of zerolog.
type ZerologProvider struct {
	root zerolog.Logger
}

// NewZerologProvider creates a provider writing console output to stderr.
func NewZerologProvider(level Level) *ZerologProvider {
	return NewZerologProviderWithWriter(zerolog.ConsoleWriter{Out: os.Stderr}, level)
}

// NewZerologProviderWithWriter creates a provider writing to w.
func NewZerologProviderWithWriter(w io.Writer, level Level) *ZerologProvider {
	root := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologProvider{root: root}
}

// GetLogger returns an unnamed logger.
func (p *ZerologProvider) GetLogger() Logger {
	return &zerologLogger{l: p.root}
}

// GetLoggerWithName returns a logger tagged with a component name.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return &zerologLogger{l: p.root.With().Str("component", name).Logger()}
}

func toZerologLevel(level Level) zerolog.Level {
	switch level {
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type zerologLogger struct {
	l zerolog.Logger
}

func (z *zerologLogger) Debug(msg string, fields ...interface{}) {
	emit(z.l.Debug(), msg, fields)
}

func (z *zerologLogger) Info(msg string, fields ...interface{}) {
	emit(z.l.Info(), msg, fields)
}

func (z *zerologLogger) Warn(msg string, fields ...interface{}) {
	emit(z.l.Warn(), msg, fields)
}

func (z *zerologLogger) Error(msg string, fields ...interface{}) {
	emit(z.l.Error(), msg, fields)
}

// emit attaches alternating key/value pairs to the event. A trailing key
// without a value is dropped.
func emit(ev *zerolog.Event, msg string, fields []interface{}) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, fields[i+1])
	}
	ev.Msg(msg)
}

// Nop returns a logger that discards everything. Useful as a default when
// no logger was configured.
func Nop() Logger {
	return &zerologLogger{l: zerolog.Nop()}
}
