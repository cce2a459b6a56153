package main

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Fetcher runs the external downloader. *Executor is the production
// implementation.
type Fetcher interface {
	Run(ctx context.Context, videoURL, destPath string) Outcome
}

// Downloader drives one job from URL validation to a promoted file.
// Jobs run on the caller's goroutine; there is no queue and no shared job
// state. Concurrent jobs meet only in the storage directory.
type Downloader struct {
	storage  *Storage
	namer    *Namer
	fetcher  Fetcher
	recorder Recorder
	maxSize  int64
	logger   *log.Logger
}

func NewDownloader(storage *Storage, namer *Namer, fetcher Fetcher, recorder Recorder, maxSize int64, logger *log.Logger) *Downloader {
	return &Downloader{
		storage:  storage,
		namer:    namer,
		fetcher:  fetcher,
		recorder: recorder,
		maxSize:  maxSize,
		logger:   logger,
	}
}

func (d *Downloader) Process(ctx context.Context, videoURL string) Outcome {
	out := d.process(ctx, videoURL)
	d.recorder.Record(ctx, out.Kind)
	return out
}

func (d *Downloader) process(ctx context.Context, videoURL string) Outcome {
	if !isAllowedVideoURL(videoURL) {
		return rejected("invalid or missing URL")
	}

	jobID := uuid.New().String()
	logger := d.logger.With("job", jobID)
	staging := d.namer.IncomingName(jobID)
	stagingPath := d.storage.Path(staging)

	logger.Info("download started", "url", videoURL)
	started := time.Now()

	out := d.fetcher.Run(ctx, videoURL, stagingPath)
	if out.Kind != OutcomeSuccess {
		return out
	}

	out = validateResult(d.storage.Fs(), stagingPath, d.maxSize, logger)
	if out.Kind != OutcomeSuccess {
		logger.Warn("download rejected after run", "outcome", out.Kind, "reason", out.Reason)
		return out
	}

	final := d.namer.NewFilename()
	if err := d.storage.Promote(staging, final); err != nil {
		logger.Error("store download", "error", err)
		removeQuietly(d.storage.Fs(), stagingPath).log(logger)
		removeQuietly(d.storage.Fs(), d.storage.Path(final)).log(logger)
		return failed("could not store download", "")
	}

	logger.Info("download complete", "file", final, "size", humanize.IBytes(uint64(out.Size)), "elapsed", time.Since(started).Truncate(time.Millisecond))
	return succeeded(final, out.Size)
}
