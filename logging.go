package etwlog

import (
	"os"

	"github.com/phuslu/log"
)

// logger is the package default used by Logs created without WithLogger.
// It only reports warnings: teardown failures that are otherwise swallowed.
var logger = log.Logger{
	Level:   log.WarnLevel,
	Writer:  &log.IOWriter{Writer: os.Stderr},
	Context: log.NewContext(nil).Str("source", "etwlog").Value(),
}

// SetLogger replaces the package default logger. It is not synchronized with
// Log construction, call it during program initialization.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = *l
	}
}

// DefaultLogger returns a copy of the package default logger.
func DefaultLogger() log.Logger {
	return logger
}
