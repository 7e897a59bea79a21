// Package artifact implements the durable store for trained model
// artifacts: one JSON blob per storage key under a single directory.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/finopsia/finopsia/internal/common"
)

// FileStore is a keyed blob store backed by a directory on disk.
//
// Save writes to a temporary file and renames it over the target, so a
// concurrent Load never observes a partially written artifact.
type FileStore struct {
	dir string
}

// NewFileStore creates the artifact directory if needed and returns a
// store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("artifact directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Has reports whether an artifact exists at key.
func (s *FileStore) Has(key string) bool {
	info, err := os.Stat(s.path(key))
	return err == nil && !info.IsDir()
}

// Load reads the artifact blob stored at key.
func (s *FileStore) Load(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: artifact %s", common.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load artifact %s: %w", key, err)
	}
	return data, nil
}

// Save atomically replaces the artifact blob at key.
func (s *FileStore) Save(key string, data []byte) error {
	target := s.path(key)

	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write artifact %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close artifact %s: %w", key, err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to publish artifact %s: %w", key, err)
	}

	return nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
