package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// File stores each key as one JSON file under a root directory. Writes go
// through a temp file and an atomic rename so a crash mid-write never
// leaves a truncated blob behind.
type File struct {
	root string
}

// NewFile creates the root directory if needed and returns the backend.
func NewFile(root string) (*File, error) {
	if root == "" {
		return nil, fmt.Errorf("file storage root must not be empty")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &File{root: root}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.root, fmt.Sprintf("%s.json", key))
}

// Get reads the stored value for key.
func (f *File) Get(key string) ([]byte, error) {
	value, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

// Put writes value under key atomically.
func (f *File) Put(key string, value []byte) error {
	path := f.path(key)
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, value, 0644); err != nil {
		return fmt.Errorf("failed to write temp file for %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

// Close is a no-op.
func (f *File) Close() error {
	return nil
}
