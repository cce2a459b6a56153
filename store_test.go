package main

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoragePromote(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := newTestStorage(t, fs)
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	storage.now = func() time.Time { return now }

	touch(t, fs, "/videos/.incoming-job.mp4", 42, now.Add(-5*time.Minute))
	require.NoError(t, storage.Promote(".incoming-job.mp4", "video_1.mp4"))

	assert.Equal(t, []string{"video_1.mp4"}, dirNames(t, fs, "/videos"))
	info, err := fs.Stat("/videos/video_1.mp4")
	require.NoError(t, err)
	assert.Equal(t, int64(42), info.Size())
	assert.True(t, info.ModTime().Equal(now))

	err = storage.Promote(".incoming-gone.mp4", "video_2.mp4")
	assert.Error(t, err)
}

func TestStorageList(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := newTestStorage(t, fs)
	now := time.Now()

	touch(t, fs, "/videos/video_2.mp4", 20, now)
	touch(t, fs, "/videos/video_1.mp4", 10, now.Add(-time.Minute))
	touch(t, fs, "/videos/.incoming-x.mp4", 99, now)
	touch(t, fs, "/videos/readme.txt", 5, now)

	videos, err := storage.List()
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "video_1.mp4", videos[0].Filename)
	assert.Equal(t, "video_2.mp4", videos[1].Filename)

	n, total, err := storage.Usage()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, int64(30), total)
}
