package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
)

// validateResult checks the file a clean downloader run left at path.
// Oversized output is removed before returning.
func validateResult(fs afero.Fs, path string, maxSizeBytes int64, logger *log.Logger) Outcome {
	info, err := fs.Stat(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Error("stat download", "file", path, "error", err)
		}
		return failed("download did not produce a file", "")
	}
	if !info.Mode().IsRegular() {
		return failed("download did not produce a file", "")
	}

	size := info.Size()
	if size > maxSizeBytes {
		removeQuietly(fs, path).log(logger)
		reason := fmt.Sprintf("video is too large (%s, limit %s), try a shorter video",
			humanize.IBytes(uint64(size)), humanize.IBytes(uint64(maxSizeBytes)))
		return Outcome{Kind: OutcomeTooLarge, Reason: reason}
	}
	return succeeded(path, size)
}
