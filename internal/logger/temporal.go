package logger

import (
	"github.com/rs/zerolog"
	tlog "go.temporal.io/sdk/log"
)

// TemporalLogger routes Temporal SDK logs through zerolog
type TemporalLogger struct {
	zl zerolog.Logger
}

var _ tlog.Logger = (*TemporalLogger)(nil)

// NewTemporalLogger wraps a zerolog logger for client.Options.Logger
func NewTemporalLogger(zl zerolog.Logger) *TemporalLogger {
	return &TemporalLogger{zl: zl}
}

func (l *TemporalLogger) Debug(msg string, keyvals ...interface{}) {
	l.zl.Debug().Fields(keyvals).Msg(msg)
}

func (l *TemporalLogger) Info(msg string, keyvals ...interface{}) {
	l.zl.Info().Fields(keyvals).Msg(msg)
}

func (l *TemporalLogger) Warn(msg string, keyvals ...interface{}) {
	l.zl.Warn().Fields(keyvals).Msg(msg)
}

func (l *TemporalLogger) Error(msg string, keyvals ...interface{}) {
	l.zl.Error().Fields(keyvals).Msg(msg)
}

// With returns a logger carrying keyvals on every entry
func (l *TemporalLogger) With(keyvals ...interface{}) tlog.Logger {
	return &TemporalLogger{zl: l.zl.With().Fields(keyvals).Logger()}
}
