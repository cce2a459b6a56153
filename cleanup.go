package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// Sweeper deletes stored files once they outlive the retention window.
//
// Staging files belong to in-flight jobs and are only removed after
// Retention+StagingGrace, which is longer than any job may run; anything that
// old was left behind by a process that died mid-download.
type Sweeper struct {
	Fs           afero.Fs
	Dir          string
	Retention    time.Duration
	Interval     time.Duration
	StagingGrace time.Duration
	Logger       *log.Logger

	now func() time.Time
}

// SweepReport summarizes one sweep cycle.
type SweepReport struct {
	Scanned int
	Deleted []string
	Errors  int
}

// Run sweeps immediately and then once per Interval until ctx is done. The
// caller starts it once and cancels ctx only when the process exits.
func (s *Sweeper) Run(ctx context.Context) {
	s.Logger.Info("retention sweeper started", "dir", s.Dir, "retention", s.Retention, "interval", s.Interval)
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		s.SweepOnce()
		select {
		case <-ticker.C:
		case <-ctx.Done():
			s.Logger.Info("retention sweeper stopped")
			return
		}
	}
}

func (s *Sweeper) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// SweepOnce runs a single sweep cycle. Errors on one entry never stop the
// sweep of the others.
func (s *Sweeper) SweepOnce() SweepReport {
	var report SweepReport
	entries, err := afero.ReadDir(s.Fs, s.Dir)
	if err != nil {
		s.Logger.Error("sweep: list storage", "dir", s.Dir, "error", err)
		report.Errors++
		return report
	}

	now := s.clock()
	for _, e := range entries {
		if !e.Mode().IsRegular() {
			continue
		}
		report.Scanned++

		limit := s.Retention
		if isStagingName(e.Name()) {
			limit += s.StagingGrace
		}
		age := now.Sub(e.ModTime())
		if age <= limit {
			continue
		}

		path := filepath.Join(s.Dir, e.Name())
		if res := removeQuietly(s.Fs, path); res.err != nil {
			res.log(s.Logger)
			report.Errors++
			continue
		}
		s.Logger.Info("sweep: deleted expired file", "file", e.Name(), "age", age.Truncate(time.Second))
		report.Deleted = append(report.Deleted, e.Name())
	}
	return report
}
