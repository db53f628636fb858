package lprelax

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Package logger. Kept at warning level by default so that the per-change
// trace messages stay silent unless a caller turns them on.
var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

// SetLogLevel changes the verbosity of the package logger. Debug level
// traces every coefficient and bound change, which is useful when
// chasing a divergence between the actual and the resident LP.
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// SetLogOutput redirects the package log output.
func SetLogOutput(w io.Writer) {
	log.SetOutput(w)
}
