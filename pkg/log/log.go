// Package log provides the leveled logger shared by the emulator's
// components. The default implementation is backed by logrus.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Fatal(str string)
}

type logger struct {
	*logrus.Logger
}

// New returns a Logger writing plain text to stderr at info level.
func New() Logger {
	return newLogger(os.Stderr, logrus.InfoLevel)
}

// WithLevel returns a Logger at the named level ("debug", "info",
// "warn", "error"). Unknown names fall back to info.
func WithLevel(level string) Logger {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	return newLogger(os.Stderr, lvl)
}

// NewWriter returns a debug level Logger writing to w.
func NewWriter(w io.Writer) Logger {
	return newLogger(w, logrus.DebugLevel)
}

func newLogger(w io.Writer, level logrus.Level) *logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
		DisableQuote:     true,
	}
	return &logger{l}
}

func (l *logger) Fatal(str string) {
	l.Logger.Fatal(str)
}
