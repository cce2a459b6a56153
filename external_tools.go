package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

const (
	// timeoutGrace is added to the media duration cap to cover muxing and
	// network overhead.
	timeoutGrace = 60 * time.Second

	// waitDelay bounds how long Wait keeps draining output pipes after the
	// downloader is killed or exits.
	waitDelay = 2 * time.Second

	maxDetailLen = 400
)

// ytdlpSidecars are suffixes yt-dlp may leave next to the output path.
var ytdlpSidecars = []string{".part", ".ytdl"}

// Executor runs the external downloader for a single URL.
type Executor struct {
	Binary      string
	MaxDuration time.Duration
	Timeout     time.Duration

	fs     afero.Fs
	logger *log.Logger
}

func NewExecutor(fs afero.Fs, binary string, maxDuration time.Duration, logger *log.Logger) *Executor {
	return &Executor{
		Binary:      binary,
		MaxDuration: maxDuration,
		Timeout:     maxDuration + timeoutGrace,
		fs:          fs,
		logger:      logger,
	}
}

func (e *Executor) args(videoURL, destPath string) []string {
	return []string{
		"-f", "best[ext=mp4]/best",
		"--match-filter", fmt.Sprintf("duration<=%d", int(e.MaxDuration.Seconds())),
		"--no-playlist",
		"--no-progress",
		"-o", destPath,
		"--",
		videoURL,
	}
}

// Run downloads videoURL to destPath. A success outcome only means the
// process exited cleanly; the caller still has to validate the result.
// Every other outcome leaves nothing behind at destPath.
// Run downloads videoURL to destPath. A success outcome only means the
// process exited cleanly; the caller still has to validate the result.
// Every other outcome leaves nothing behind at destPath.
//
// The downloader runs in its own process group so a timeout also takes down
// whatever it forked (ffmpeg, shells) instead of only the direct child.
func (e *Executor) Run(ctx context.Context, videoURL, destPath string) Outcome {
	runCtx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, e.Binary, e.args(videoURL, destPath)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	e.logger.Debug("starting downloader", "binary", e.Binary, "url", videoURL, "dest", destPath, "timeout", e.Timeout)
	started := time.Now()
	err := cmd.Run()
	out := e.classify(runCtx, ctx, exitCode(cmd), stdout.String(), stderr.String(), err)
	if out.Kind != OutcomeSuccess {
		// Children can outlive a failed downloader; none may write after cleanup.
		killProcessGroup(cmd)
		e.discardPartial(destPath)
		e.logger.Warn("download failed", "url", videoURL, "outcome", out.Kind, "reason", out.Reason, "detail", out.Detail, "elapsed", time.Since(started))
		return out
	}
	e.logger.Debug("downloader exited", "url", videoURL, "elapsed", time.Since(started))
	return succeeded(destPath, 0)
}

func exitCode(cmd *exec.Cmd) int {
	if cmd.ProcessState == nil {
		return -1
	}
	return cmd.ProcessState.ExitCode()
}

func (e *Executor) classify(runCtx, parent context.Context, code int, stdout, stderr string, err error) Outcome {
	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && parent.Err() == nil:
		return Outcome{Kind: OutcomeTimedOut, Reason: "download timed out"}
	case parent.Err() != nil:
		return failed("download canceled", "")
	case code > 0:
		detail := strings.TrimSpace(stderr)
		if detail == "" {
			detail = strings.TrimSpace(stdout)
		}
		if detail == "" {
			detail = fmt.Sprintf("exit status %d", code)
		}
		return failed("download failed", truncate(detail, maxDetailLen))
	case err != nil:
		// Start failures, signals, and output held open past waitDelay.
		return failed("download failed", truncate(err.Error(), maxDetailLen))
	}
	return Outcome{Kind: OutcomeSuccess}
}

func (e *Executor) discardPartial(destPath string) {
	removeQuietly(e.fs, destPath).log(e.logger)
	for _, suffix := range ytdlpSidecars {
		removeQuietly(e.fs, destPath+suffix).log(e.logger)
	}
}

// truncate cuts s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
