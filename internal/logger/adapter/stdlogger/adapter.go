// Package stdlogger adapts zerolog to the printf style logger interfaces of
// drivers and test tooling.
package stdlogger

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Adapter forwards printf style calls to the global zerolog logger.
type Adapter struct {
	source string
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithSource tags every line with source.
func WithSource(source string) Option {
	return func(a *Adapter) {
		a.source = source
	}
}

// New creates an Adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

func (a *Adapter) emit(e *zerolog.Event, msg string) {
	if a.source != "" {
		e = e.Str("source", a.source)
	}

	e.Msg(strings.TrimRight(msg, "\n"))
}

// Print logs at info level. It satisfies the go-sql-driver/mysql Logger.
func (a *Adapter) Print(v ...any) {
	a.emit(log.Info(), fmt.Sprint(v...))
}

// Printf logs at info level. It satisfies the testcontainers Logger.
func (a *Adapter) Printf(format string, v ...any) {
	a.emit(log.Info(), fmt.Sprintf(format, v...))
}

// Debugf logs at debug level.
func (a *Adapter) Debugf(format string, v ...any) {
	a.emit(log.Debug(), fmt.Sprintf(format, v...))
}

// Infof logs at info level.
func (a *Adapter) Infof(format string, v ...any) {
	a.emit(log.Info(), fmt.Sprintf(format, v...))
}

// Warningf logs at warn level.
func (a *Adapter) Warningf(format string, v ...any) {
	a.emit(log.Warn(), fmt.Sprintf(format, v...))
}

// Errorf logs at error level.
func (a *Adapter) Errorf(format string, v ...any) {
	a.emit(log.Error(), fmt.Sprintf(format, v...))
}
