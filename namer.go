package main

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

const (
	videoPrefix   = "video_"
	videoExt      = ".mp4"
	stagingPrefix = ".incoming-"
)

// Namer hands out final and staging filenames for download jobs.
//
// Final names have the form video_<digits>.mp4. The digits are the current
// time in Unix nanoseconds, bumped past the previously issued value when the
// clock has not advanced, so names issued by one Namer never repeat.
type Namer struct {
	now  func() time.Time
	last atomic.Int64
}

func NewNamer() *Namer {
	return &Namer{now: time.Now}
}

func (n *Namer) NewFilename() string {
	return fmt.Sprintf("%s%d%s", videoPrefix, n.next(), videoExt)
}

func (n *Namer) next() int64 {
	candidate := n.now().UnixNano()
	for {
		last := n.last.Load()
		v := candidate
		if v <= last {
			v = last + 1
		}
		if n.last.CompareAndSwap(last, v) {
			return v
		}
	}
}

// IncomingName is the name a job writes to until its output is promoted.
func (n *Namer) IncomingName(jobID string) string {
	return stagingPrefix + jobID + videoExt
}

func isStagingName(name string) bool {
	return strings.HasPrefix(name, stagingPrefix)
}

// isVideoName reports whether name looks like a promoted download.
func isVideoName(name string) bool {
	if !strings.HasPrefix(name, videoPrefix) || !strings.HasSuffix(name, videoExt) {
		return false
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(name, videoPrefix), videoExt)
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
