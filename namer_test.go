package main

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var videoNamePattern = regexp.MustCompile(`^video_\d+\.mp4$`)

func TestNamer(t *testing.T) {
	t.Run("Format", func(t *testing.T) {
		n := NewNamer()
		name := n.NewFilename()
		assert.Regexp(t, videoNamePattern, name)
		assert.True(t, isVideoName(name))
	})

	t.Run("FrozenClockStillUnique", func(t *testing.T) {
		fixed := time.Unix(1700000000, 0)
		n := &Namer{now: func() time.Time { return fixed }}
		assert.Equal(t, "video_1700000000000000000.mp4", n.NewFilename())
		assert.Equal(t, "video_1700000000000000001.mp4", n.NewFilename())
		assert.Equal(t, "video_1700000000000000002.mp4", n.NewFilename())
	})

	t.Run("ClockGoingBackwards", func(t *testing.T) {
		times := []time.Time{time.Unix(200, 0), time.Unix(100, 0)}
		i := 0
		n := &Namer{now: func() time.Time {
			ts := times[i]
			i++
			return ts
		}}
		first := n.NewFilename()
		second := n.NewFilename()
		assert.Equal(t, "video_200000000000.mp4", first)
		assert.Equal(t, "video_200000000001.mp4", second)
	})

	t.Run("Concurrent", func(t *testing.T) {
		n := NewNamer()
		const workers, per = 8, 250
		var mu sync.Mutex
		seen := make(map[string]struct{}, workers*per)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < per; i++ {
					name := n.NewFilename()
					mu.Lock()
					seen[name] = struct{}{}
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		require.Len(t, seen, workers*per)
	})

	t.Run("IncomingName", func(t *testing.T) {
		n := NewNamer()
		name := n.IncomingName("abc")
		assert.Equal(t, ".incoming-abc.mp4", name)
		assert.True(t, isStagingName(name))
		assert.False(t, isVideoName(name))
	})
}

func TestIsVideoName(t *testing.T) {
	assert.True(t, isVideoName("video_1.mp4"))
	assert.False(t, isVideoName("video_.mp4"))
	assert.False(t, isVideoName("video_12a.mp4"))
	assert.False(t, isVideoName("video_12.mkv"))
	assert.False(t, isVideoName("../video_1.mp4"))
	assert.False(t, isVideoName("notes.txt"))
}
