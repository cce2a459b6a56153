package main

import (
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

var errInvalidConfig = errors.New("invalid configuration")

// cleanupResult is the result of a best-effort removal. It is logged by the
// caller and then dropped: a failed cleanup never replaces the outcome that
// triggered it.
type cleanupResult struct {
	path string
	err  error
}

func (c cleanupResult) log(logger *log.Logger) {
	if c.err != nil {
		logger.Warn("cleanup failed", "file", c.path, "error", c.err)
	}
}

// removeQuietly deletes path if it exists. A missing file is not an error.
func removeQuietly(fs afero.Fs, path string) cleanupResult {
	err := fs.Remove(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return cleanupResult{path: path}
	}
	return cleanupResult{path: path, err: err}
}
