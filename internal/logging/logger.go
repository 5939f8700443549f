package logging

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Interface describes the minimal logging surface the tracker packages rely on.
type Interface interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

var (
	globalLogger Interface
	once         sync.Once
)

// Logger returns a lazily initialized zerolog-backed logger implementing Interface.
func Logger() Interface {
	once.Do(func() {
		base := zerolog.New(os.Stderr).With().Timestamp().Logger()
		globalLogger = &zerologAdapter{log: base}
	})
	return globalLogger
}

type zerologAdapter struct {
	log zerolog.Logger
}

func (l *zerologAdapter) Infof(format string, args ...interface{}) {
	l.log.Info().Msgf(format, args...)
}

func (l *zerologAdapter) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}

func (l *zerologAdapter) Debugf(format string, args ...interface{}) {
	l.log.Debug().Msgf(format, args...)
}

func (l *zerologAdapter) Warnf(format string, args ...interface{}) {
	l.log.Warn().Msgf(format, args...)
}

// Nop is a logger that discards everything. Tests inject it to keep output clean.
type Nop struct{}

func (Nop) Infof(format string, args ...interface{})  {}
func (Nop) Errorf(format string, args ...interface{}) {}
func (Nop) Debugf(format string, args ...interface{}) {}
func (Nop) Warnf(format string, args ...interface{})  {}
