// Package logging configures the process-wide structured logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	lock   sync.RWMutex
	logger = newLogger(os.Stderr, logrus.InfoLevel, false)
)

func newLogger(out io.Writer, level logrus.Level, json bool) *logrus.Logger {
	l := logrus.New()
	l.Out = out
	l.Level = level

	if json {
		l.Formatter = &logrus.JSONFormatter{}
	} else {
		l.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	}

	return l
}

// Setup replaces the process logger. Level is one of the logrus level names
// (trace, debug, info, warn, error, fatal, panic).
func Setup(out io.Writer, level string, json bool) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	lock.Lock()
	logger = newLogger(out, lvl, json)
	lock.Unlock()

	return nil
}

// Logger returns a logger for the given layer.
func Logger(layer string) *logrus.Entry {
	lock.RLock()
	defer lock.RUnlock()

	return logger.WithField("layer", layer)
}
