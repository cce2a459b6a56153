package main

import (
	"io"

	"github.com/charmbracelet/log"
)

// newLogger builds the process logger. Debug mode adds timestamps, caller
// locations and debug-level messages.
func newLogger(w io.Writer, debug bool) *log.Logger {
	if !debug {
		logger := log.New(w)
		logger.SetLevel(log.InfoLevel)
		return logger
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "ytmp4",
	})
	logger.SetLevel(log.DebugLevel)
	return logger
}
