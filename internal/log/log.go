// Package log provides the process-wide structured logger.
package log

import (
	"sync"
)

// Logger is the leveled, field-aware logging surface used across the tool.
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})

	Info(args ...interface{})
	Infof(format string, args ...interface{})

	Warn(args ...interface{})
	Warnf(format string, args ...interface{})

	Error(args ...interface{})
	Errorf(format string, args ...interface{})

	WithField(field string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger

	IsDebugEnabled() bool
}

var (
	once   sync.Once
	logger Logger
)

// GetLogger returns the global logger. Init must run first; before that a
// no-op default is returned so early code paths stay safe.
func GetLogger() Logger {
	if logger == nil {
		return defaultLogger()
	}
	return logger
}

// Init configures the global logger once. Later calls are ignored.
func Init(cfg Config) {
	once.Do(func() {
		if err := initByConfig(cfg); err != nil {
			panic(err)
		}
	})
}
