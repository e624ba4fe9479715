package lzma2

import (
	"io"

	"github.com/sirupsen/logrus"
)

var log = newDiscardLogger()

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}

// SetLogger replaces the package logger. Chunk headers are reported at
// debug level; the default logger discards everything.
func SetLogger(l *logrus.Logger) {
	log = l
}
