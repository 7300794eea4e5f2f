// Package gorm routes gorm's statement logging through zerolog.
package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Logger implements gorm's logger.Interface on top of zerolog.
//
// Failed statements are logged at error level, statements slower than SlowThreshold at warn
// and every statement at trace. Record-not-found is treated as a normal outcome.
type Logger struct {
	SlowThreshold time.Duration
	level         gormlogger.LogLevel
}

// New returns a Logger reporting statements slower than slow. A zero slow disables slow-query logging.
func New(slow time.Duration) *Logger {
	return &Logger{SlowThreshold: slow, level: gormlogger.Warn}
}

// LogMode implements logger.Interface.
func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level

	return &clone
}

// Info implements logger.Interface.
func (l *Logger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		from(ctx).Info().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Warn implements logger.Interface.
func (l *Logger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		from(ctx).Warn().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Error implements logger.Interface.
func (l *Logger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		from(ctx).Error().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Trace implements logger.Interface.
func (l *Logger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	zl := from(ctx)

	var event *zerolog.Event

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		event = zl.Error().Err(err)
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold && l.level >= gormlogger.Warn:
		event = zl.Warn().Dur("slow_threshold", l.SlowThreshold)
	default:
		event = zl.Trace()
	}

	if !event.Enabled() {
		return
	}

	sql, rows := fc()

	event.Str("component", "gorm").
		Dur("elapsed", elapsed).
		Int64("rows", rows).
		Str("sql", sql).
		Msg("statement")
}

// from prefers the request logger stored in ctx over the global one.
func from(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
			return l
		}
	}

	return &log.Logger
}
