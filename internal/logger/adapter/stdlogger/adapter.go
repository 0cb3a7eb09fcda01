// Package stdlogger adapts the global zerolog logger to printf style logger interfaces,
// such as the one of the embedded NATS server.
package stdlogger

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger logs printf style messages through zerolog.
type Logger struct {
	component string
}

// New returns a Logger tagging every line with component.
func New(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) event(e *zerolog.Event) *zerolog.Event {
	if l.component == "" {
		return e
	}

	return e.Str("component", l.component)
}

// Tracef logs at trace level.
func (l *Logger) Tracef(format string, v ...any) {
	l.event(log.Trace()).Msgf(format, v...)
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, v ...any) {
	l.event(log.Debug()).Msgf(format, v...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, v ...any) {
	l.event(log.Info()).Msgf(format, v...)
}

// Noticef logs at info level.
func (l *Logger) Noticef(format string, v ...any) {
	l.Infof(format, v...)
}

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, v ...any) {
	l.event(log.Warn()).Msgf(format, v...)
}

// Warningf logs at warn level.
func (l *Logger) Warningf(format string, v ...any) {
	l.Warnf(format, v...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, v ...any) {
	l.event(log.Error()).Msgf(format, v...)
}

// Fatalf logs at error level flagged as fatal. The process is left running; the caller decides.
func (l *Logger) Fatalf(format string, v ...any) {
	l.event(log.Error()).Bool("fatal", true).Msgf(format, v...)
}
