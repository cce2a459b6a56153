package main

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// fakeFetcher stands in for yt-dlp: it writes size bytes to the destination
// or returns a canned outcome.
type fakeFetcher struct {
	fs    afero.Fs
	size  int
	out   *Outcome
	calls atomic.Int32
}

func (f *fakeFetcher) Run(_ context.Context, _ string, destPath string) Outcome {
	f.calls.Add(1)
	if f.out != nil {
		return *f.out
	}
	if f.size >= 0 {
		if err := afero.WriteFile(f.fs, destPath, make([]byte, f.size), 0o644); err != nil {
			return failed("write", err.Error())
		}
	}
	return succeeded(destPath, 0)
}

func newTestStorage(t *testing.T, fs afero.Fs) *Storage {
	t.Helper()
	storage, err := NewStorage(fs, "/videos")
	require.NoError(t, err)
	return storage
}

func touch(t *testing.T, fs afero.Fs, path string, size int, mtime time.Time) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, make([]byte, size), 0o644))
	require.NoError(t, fs.Chtimes(path, mtime, mtime))
}

func dirNames(t *testing.T, fs afero.Fs, dir string) []string {
	t.Helper()
	entries, err := afero.ReadDir(fs, dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
