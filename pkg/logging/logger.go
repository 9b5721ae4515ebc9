// Package logging provides structured logging for HRCLS, adapted directly
// from pkg/reporting/logger.go: same zerolog dependency, same
// LoggerConfig/Level/Format shape, same WithField/WithFields child-logger
// pattern. The process-wide InitGlobalLogger and global
// Debug/Info/Warn/Error/Fatal convenience functions are dropped — a library
// embedded into a safety-critical caller has no process-wide logger to own,
// only loggers its caller hands it or that it constructs locally.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level is a logging verbosity level.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format selects the rendered log line shape.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config configures a Logger.
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
}

// Logger wraps a zerolog.Logger with the field-oriented API the rest of this
// module uses.
type Logger struct {
	logger zerolog.Logger
}

// New constructs a Logger from cfg. A nil Output defaults to os.Stdout.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	var output io.Writer = cfg.Output
	if cfg.Format == FormatText {
		output = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: time.RFC3339,
			NoColor:    false,
		}
	}

	zlog := zerolog.New(output).With().Timestamp().Logger()

	switch cfg.Level {
	case LevelDebug:
		zlog = zlog.Level(zerolog.DebugLevel)
	case LevelWarn:
		zlog = zlog.Level(zerolog.WarnLevel)
	case LevelError:
		zlog = zlog.Level(zerolog.ErrorLevel)
	default:
		zlog = zlog.Level(zerolog.InfoLevel)
	}

	return &Logger{logger: zlog}
}

func (l *Logger) Debug(msg string, fields ...any) {
	event := l.logger.Debug()
	l.addFields(event, fields...)
	event.Msg(msg)
}

func (l *Logger) Info(msg string, fields ...any) {
	event := l.logger.Info()
	l.addFields(event, fields...)
	event.Msg(msg)
}

func (l *Logger) Warn(msg string, fields ...any) {
	event := l.logger.Warn()
	l.addFields(event, fields...)
	event.Msg(msg)
}

func (l *Logger) Error(msg string, fields ...any) {
	event := l.logger.Error()
	l.addFields(event, fields...)
	event.Msg(msg)
}

// WithField returns a child Logger with an additional field set on every
// subsequent entry.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}

// WithFields returns a child Logger with additional fields set on every
// subsequent entry.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	ctx := l.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{logger: ctx.Logger()}
}

// addFields accepts alternating key, value pairs, same contract as the
// teacher's reporting.Logger.addFields.
func (l *Logger) addFields(event *zerolog.Event, fields ...any) {
	if len(fields)%2 != 0 {
		event.Str("error", "odd number of fields")
		return
	}
	for i := 0; i < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			event.Str("error", fmt.Sprintf("field key at index %d is not a string", i))
			continue
		}
		event.Interface(key, fields[i+1])
	}
}

// Zerolog returns the underlying zerolog.Logger for callers that need direct
// access (e.g. to pass into a third-party library expecting one).
func (l *Logger) Zerolog() zerolog.Logger {
	return l.logger
}

// Noop returns a Logger that discards everything, for tests and callers that
// don't want HRCLS's internal logging.
func Noop() *Logger {
	return New(Config{Output: io.Discard, Level: LevelError})
}
