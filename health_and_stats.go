package main

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

// Recorder counts job outcomes. Recording never fails a request; backends
// log their own errors.
type Recorder interface {
	Name() string
	Record(ctx context.Context, kind OutcomeKind)
	Counts(ctx context.Context) (map[OutcomeKind]int64, error)
	Close() error
}

type memoryRecorder struct {
	counts map[OutcomeKind]*atomic.Int64
}

func newMemoryRecorder() *memoryRecorder {
	m := &memoryRecorder{counts: make(map[OutcomeKind]*atomic.Int64, len(outcomeKinds))}
	for _, k := range outcomeKinds {
		m.counts[k] = new(atomic.Int64)
	}
	return m
}

func (m *memoryRecorder) Name() string { return "memory" }

func (m *memoryRecorder) Record(_ context.Context, kind OutcomeKind) {
	if c, ok := m.counts[kind]; ok {
		c.Add(1)
	}
}

func (m *memoryRecorder) Counts(context.Context) (map[OutcomeKind]int64, error) {
	out := emptyCounts()
	for k, c := range m.counts {
		out[k] = c.Load()
	}
	return out, nil
}

func (m *memoryRecorder) Close() error { return nil }

func emptyCounts() map[OutcomeKind]int64 {
	out := make(map[OutcomeKind]int64, len(outcomeKinds))
	for _, k := range outcomeKinds {
		out[k] = 0
	}
	return out
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthStatus{
		Status: "healthy",
		Uptime: time.Since(a.started).Truncate(time.Second).String(),
	}
	n, total, err := a.storage.Usage()
	if err != nil {
		a.logger.Error("health: storage usage", "error", err)
		health.Status = "degraded"
	}
	health.StoredFiles = n
	health.StoredBytes = total
	health.StoredHuman = humanize.IBytes(uint64(total))
	writeJSON(w, http.StatusOK, health)
}

func (a *App) handleStats(w http.ResponseWriter, r *http.Request) {
	counts, err := a.recorder.Counts(r.Context())
	if err != nil {
		a.logger.Error("stats: outcome counters", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "stats unavailable"})
		return
	}
	n, total, err := a.storage.Usage()
	if err != nil {
		a.logger.Error("stats: storage usage", "error", err)
	}
	writeJSON(w, http.StatusOK, StatsResponse{
		Outcomes:         counts,
		StoredFiles:      n,
		StoredBytes:      total,
		RetentionMinutes: a.cfg.RetentionMinutes,
		Recorder:         a.recorder.Name(),
		Degraded:         err != nil,
	})
}
