package repositories

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/natefinch/atomic"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// FileRecordStore keeps each record in <dir>/<key>.json and replaces it atomically,
// so a crash mid-write leaves the previous document in place.
type FileRecordStore struct {
	dir string
}

// NewFileRecordStore creates dir if needed.
func NewFileRecordStore(dir string) (*FileRecordStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	return &FileRecordStore{dir: dir}, nil
}

func (s *FileRecordStore) path(key string) string {
	return filepath.Join(s.dir, unsafeKeyChars.ReplaceAllString(key, "_")+".json")
}

func (s *FileRecordStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("reading record %q: %w", key, err)
	}
	return data, nil
}

func (s *FileRecordStore) Put(_ context.Context, key string, value []byte) error {
	if err := atomic.WriteFile(s.path(key), bytes.NewReader(value)); err != nil {
		return fmt.Errorf("writing record %q: %w", key, err)
	}
	return nil
}

func (s *FileRecordStore) Close() error { return nil }
