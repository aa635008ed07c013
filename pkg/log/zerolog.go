package log

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/crossval/pkg/errors"
)

// zerologLogger adapts zerolog.Logger to Logger.
type zerologLogger struct {
	l zerolog.Logger
}

// NewZerologLogger wraps a zerolog logger.
//
// Error values are written with AnErr; values implementing
// zerolog.LogObjectMarshaler (all structured errors and warnings of
// pkg/errors) are written as nested objects.
func NewZerologLogger(l zerolog.Logger) Logger {
	return &zerologLogger{l: l}
}

func (z *zerologLogger) Debug(msg string, fields ...any) {
	appendFields(z.l.Debug(), fields).Msg(msg)
}

func (z *zerologLogger) Info(msg string, fields ...any) {
	appendFields(z.l.Info(), fields).Msg(msg)
}

func (z *zerologLogger) Warn(msg string, fields ...any) {
	appendFields(z.l.Warn(), fields).Msg(msg)
}

func (z *zerologLogger) Error(msg string, fields ...any) {
	appendFields(z.l.Error(), fields).Msg(msg)
}

func (z *zerologLogger) With(fields ...any) Logger {
	return &zerologLogger{l: z.l.With().Fields(fields).Logger()}
}

func (z *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return z.l.GetLevel() <= ZerologLevel(level)
}

func appendFields(e *zerolog.Event, fields []any) *zerolog.Event {
	if e == nil {
		return nil
	}
	for i := 0; i < len(fields); i += 2 {
		if i+1 >= len(fields) {
			e = e.Interface("!BADKEY", fields[i])
			break
		}
		key := fmt.Sprint(fields[i])
		switch v := fields[i+1].(type) {
		case zerolog.LogObjectMarshaler:
			e = e.Object(key, v)
		case error:
			e = e.AnErr(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	return e
}

// ZerologLevel maps level to the closest zerolog level.
func ZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// InstallZerologWarnings routes errors.Warn through l, embedding the
// structured fields of warnings that implement zerolog.LogObjectMarshaler.
func InstallZerologWarnings(l zerolog.Logger) {
	errors.SetZerologWarnFunc(func(w error) {
		ev := l.Warn()
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			ev = ev.EmbedObject(m)
		}
		ev.Msg(w.Error())
	})
}
