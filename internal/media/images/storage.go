// Package images stores poster images on disk so series artwork stays
// visible offline.
package images

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// Storage manages poster files under {basePath}/posters. Filenames are
// {seriesID}.jpg. Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex
}

// NewStorage creates poster storage rooted at basePath.
func NewStorage(basePath string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	storagePath := filepath.Join(basePath, "posters")
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return nil, fmt.Errorf("create posters directory: %w", err)
	}

	return &Storage{basePath: storagePath}, nil
}

// Path returns the on-disk path for a series poster.
func (s *Storage) Path(seriesID int) string {
	return filepath.Join(s.basePath, strconv.Itoa(seriesID)+".jpg")
}

// Save stores poster data for a series. The write goes through a temp
// file and rename so a crash mid-write never leaves a truncated poster.
func (s *Storage) Save(seriesID int, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("image data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(seriesID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write poster file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename poster file: %w", err)
	}
	return nil
}

// Get retrieves poster data for a series.
func (s *Storage) Get(seriesID int) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(seriesID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("poster not found for series %d: %w", seriesID, err)
		}
		return nil, fmt.Errorf("read poster file: %w", err)
	}
	return data, nil
}

// Exists reports whether a poster is stored for a series.
func (s *Storage) Exists(seriesID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(seriesID))
	return err == nil
}

// Delete removes a stored poster. Deleting an absent poster is a no-op.
func (s *Storage) Delete(seriesID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.Path(seriesID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete poster file: %w", err)
	}
	return nil
}
