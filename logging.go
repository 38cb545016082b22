package ccver

import (
	"os"

	"github.com/charmbracelet/log"
)

// logger writes to stderr so version output on stdout stays scriptable.
// CCVER_LOG selects the level (debug, info, warn, error), defaulting to warn.
var logger = newLogger()

func newLogger() *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Prefix:          "ccver",
	})
	l.SetLevel(log.WarnLevel)
	if env := os.Getenv("CCVER_LOG"); env != "" {
		if level, err := log.ParseLevel(env); err == nil {
			l.SetLevel(level)
		}
	}
	return l
}

// Logger exposes the package logger so the CLI can share it.
func Logger() *log.Logger { return logger }
