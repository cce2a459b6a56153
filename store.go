package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"
)

// Storage is the shared video directory. Jobs write under staging names and
// promote on success; the sweeper and the static handler read the same
// directory. The filesystem is the only coordination between them.
type Storage struct {
	fs  afero.Fs
	dir string
	now func() time.Time
}

func NewStorage(fs afero.Fs, dir string) (*Storage, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %q: %w", dir, err)
	}
	return &Storage{fs: fs, dir: dir, now: time.Now}, nil
}

func (s *Storage) Fs() afero.Fs { return s.fs }

func (s *Storage) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Promote renames a validated staging file to its final name and stamps it
// with the current time, so retention counts from the moment it is visible.
func (s *Storage) Promote(stagingName, finalName string) error {
	src, dst := s.Path(stagingName), s.Path(finalName)
	if err := s.fs.Rename(src, dst); err != nil {
		return fmt.Errorf("promote %q: %w", stagingName, err)
	}
	now := s.now()
	if err := s.fs.Chtimes(dst, now, now); err != nil {
		return fmt.Errorf("touch %q: %w", finalName, err)
	}
	return nil
}

// List returns the promoted videos, oldest first.
func (s *Storage) List() ([]StoredVideo, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", s.dir, err)
	}
	videos := make([]StoredVideo, 0, len(entries))
	for _, e := range entries {
		if !e.Mode().IsRegular() || !isVideoName(e.Name()) {
			continue
		}
		videos = append(videos, StoredVideo{
			Filename:  e.Name(),
			SizeBytes: e.Size(),
			CreatedAt: e.ModTime(),
		})
	}
	sort.Slice(videos, func(i, j int) bool {
		return videos[i].CreatedAt.Before(videos[j].CreatedAt)
	})
	return videos, nil
}

// Usage sums the promoted videos.
func (s *Storage) Usage() (int, int64, error) {
	videos, err := s.List()
	if err != nil {
		return 0, 0, err
	}
	var total int64
	for _, v := range videos {
		total += v.SizeBytes
	}
	return len(videos), total, nil
}
