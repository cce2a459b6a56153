package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/afero"
)

const shutdownTimeout = 30 * time.Second

// runServe wires the service and blocks until ctx is canceled (SIGINT or
// SIGTERM), then drains in-flight requests and stops the sweeper.
func runServe(ctx context.Context, fs afero.Fs, opts *options) error {
	cfg, logger, err := loadOptions(opts)
	if err != nil {
		return err
	}
	if cfg.insecureSecret() {
		logger.Warn("API_SECRET is not set or uses the default value; set it for production")
	}

	storage, err := NewStorage(fs, cfg.VideosDir)
	if err != nil {
		return err
	}
	recorder := newRecorder(ctx, cfg, logger)
	defer recorder.Close()

	executor := NewExecutor(fs, cfg.YtdlpPath, cfg.MaxDuration(), logger)
	downloader := NewDownloader(storage, NewNamer(), executor, recorder, int64(cfg.MaxFileSizeBytes), logger)
	app := NewApp(cfg, storage, downloader, recorder, logger)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		newSweeper(fs, cfg, logger).Run(sweepCtx)
	}()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           app.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "dir", cfg.VideosDir, "max_duration", cfg.MaxDuration(), "retention", cfg.Retention())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown initiated")
	case err, ok := <-errCh:
		if ok {
			serveErr = fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	stopSweep()
	<-sweepDone
	logger.Info("shutdown complete")
	return serveErr
}
