package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/time/rate"
)

const homeMessage = "YouTube downloader is running."

// App holds the HTTP surface and everything it calls into.
type App struct {
	cfg        *Config
	storage    *Storage
	downloader *Downloader
	recorder   Recorder
	limiter    *rate.Limiter
	logger     *log.Logger
	started    time.Time
}

func NewApp(cfg *Config, storage *Storage, downloader *Downloader, recorder Recorder, logger *log.Logger) *App {
	return &App{
		cfg:        cfg,
		storage:    storage,
		downloader: downloader,
		recorder:   recorder,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		logger:     logger,
		started:    time.Now(),
	}
}

func (a *App) Routes() http.Handler {
	mux := http.NewServeMux()
	// The secret is checked first so unauthenticated calls never spend tokens.
	mux.HandleFunc("POST /api/download", requireSecret(a.cfg.APISecret, rateLimited(a.limiter, a.handleDownload)))
	mux.HandleFunc("GET /videos/{name}", a.handleVideo)
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("GET /stats", a.handleStats)
	mux.HandleFunc("GET /{$}", a.handleHome)
	return withRequestID(withCORS(withAccessLog(a.logger, mux)))
}

func (a *App) handleDownload(w http.ResponseWriter, r *http.Request) {
	// A malformed body is treated like a missing URL.
	var req DownloadRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		a.logger.Debug("decode download request", "error", err, "request_id", requestID(r.Context()))
		req = DownloadRequest{}
	}

	// Jobs end on their own timeout, not when the client goes away.
	ctx := context.WithoutCancel(r.Context())
	out := a.downloader.Process(ctx, req.URL)
	if out.Kind != OutcomeSuccess {
		writeJSON(w, out.HTTPStatus(), ErrorResponse{Error: out.Reason, Detail: out.Detail})
		return
	}

	writeJSON(w, http.StatusOK, DownloadResponse{
		File:     a.fileURL(r, out.File),
		FileName: out.File,
		Size:     out.Size,
		Message:  fmt.Sprintf("Download complete, the file is kept for %d minutes.", a.cfg.RetentionMinutes),
	})
}

func (a *App) fileURL(r *http.Request, name string) string {
	base := strings.TrimSuffix(a.cfg.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
			scheme = p
		}
		base = scheme + "://" + r.Host
	}
	return base + "/videos/" + name
}

// handleVideo serves a promoted file. Staging files and anything that is not
// a plain video name in the storage directory are reported as missing.
func (a *App) handleVideo(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !isVideoName(name) {
		http.NotFound(w, r)
		return
	}

	f, err := a.storage.Fs().Open(a.storage.Path(name))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			a.logger.Error("open video", "file", name, "error", err)
		}
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}

	mtype, err := mimetype.DetectReader(f)
	if err == nil {
		w.Header().Set("Content-Type", mtype.String())
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		a.logger.Error("rewind video", "file", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func (a *App) handleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, homeMessage)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
