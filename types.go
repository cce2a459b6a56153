package main

import (
	"net/http"
	"time"
)

// DownloadRequest is the body of POST /api/download.
type DownloadRequest struct {
	URL string `json:"url"`
}

// OutcomeKind classifies how a download job ended.
type OutcomeKind string

const (
	OutcomeSuccess  OutcomeKind = "success"
	OutcomeRejected OutcomeKind = "rejected"
	OutcomeFailed   OutcomeKind = "failed"
	OutcomeTimedOut OutcomeKind = "timed_out"
	OutcomeTooLarge OutcomeKind = "too_large"
)

var outcomeKinds = []OutcomeKind{
	OutcomeSuccess,
	OutcomeRejected,
	OutcomeFailed,
	OutcomeTimedOut,
	OutcomeTooLarge,
}

// Outcome is the terminal result of one job. File and Size are set only on
// success; Detail carries a bounded excerpt of the downloader's error output.
type Outcome struct {
	Kind   OutcomeKind
	File   string
	Size   int64
	Reason string
	Detail string
}

// HTTPStatus maps the outcome kind to the response status code.
func (o Outcome) HTTPStatus() int {
	switch o.Kind {
	case OutcomeSuccess:
		return http.StatusOK
	case OutcomeRejected, OutcomeTooLarge:
		return http.StatusBadRequest
	case OutcomeTimedOut:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func succeeded(file string, size int64) Outcome {
	return Outcome{Kind: OutcomeSuccess, File: file, Size: size}
}

func rejected(reason string) Outcome {
	return Outcome{Kind: OutcomeRejected, Reason: reason}
}

func failed(reason, detail string) Outcome {
	return Outcome{Kind: OutcomeFailed, Reason: reason, Detail: detail}
}

// StoredVideo is a finished file in the storage directory. The file's mtime
// is the only timestamp the service keeps.
type StoredVideo struct {
	Filename  string    `json:"file_name"`
	SizeBytes int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

type DownloadResponse struct {
	File     string `json:"file"`
	FileName string `json:"fileName"`
	Size     int64  `json:"size"`
	Message  string `json:"message"`
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

type HealthStatus struct {
	Status      string `json:"status"`
	Uptime      string `json:"uptime"`
	StoredFiles int    `json:"stored_files"`
	StoredBytes int64  `json:"stored_bytes"`
	StoredHuman string `json:"stored_human"`
}

type StatsResponse struct {
	Outcomes         map[OutcomeKind]int64 `json:"outcomes"`
	StoredFiles      int                   `json:"stored_files"`
	StoredBytes      int64                 `json:"stored_bytes"`
	RetentionMinutes int                   `json:"retention_minutes"`
	Recorder         string                `json:"recorder"`
	Degraded         bool                  `json:"degraded"`
}
