// Package logx builds the structured loggers shared by the binaries.
package logx

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/tomz197/gridsnake/internal/config"
)

// New returns a logger writing to stderr with the given prefix. The level
// comes from LOG_LEVEL (debug, info, warn, error) and defaults to info.
func New(prefix string) *log.Logger {
	return NewWithWriter(os.Stderr, prefix)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(config.GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportTimestamp: true,
	})
}

// Discard returns a logger that drops everything, for tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
