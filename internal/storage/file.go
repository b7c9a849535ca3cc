package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/Tiliavir/clockstorm/internal/logger"
)

// FileStore keeps one JSON file per key in a directory.
type FileStore struct {
	dir string

	mu     sync.Mutex
	closed bool
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// keyPath returns the file for key. Keys contain slashes (MM/DD/YYYY) so they
// are path-escaped into a flat file name.
func (s *FileStore) keyPath(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".json")
}

func (s *FileStore) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	out := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := s.keyPath(key)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("storage error reading %s: %w", path, err)
		}
		if !json.Valid(data) {
			// Back up corrupt file and treat the key as absent.
			backupPath := path + ".corrupt"
			_ = os.Rename(path, backupPath)
			logger.Warn("corrupt JSON in store", "path", path, "backup", backupPath)
			continue
		}
		out[key] = data
	}
	return out, nil
}

func (s *FileStore) Set(ctx context.Context, entries map[string]json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}
	for key, value := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !json.Valid(value) {
			return fmt.Errorf("storage error: value for %s is not valid JSON", key)
		}
		path := s.keyPath(key)

		// Atomic write: write to temp file then rename.
		tmpPath := path + ".tmp"
		if err := os.WriteFile(tmpPath, value, 0o600); err != nil {
			return fmt.Errorf("storage error writing temp file: %w", err)
		}
		if err := os.Rename(tmpPath, path); err != nil {
			_ = os.Remove(tmpPath)
			return fmt.Errorf("storage error renaming temp file: %w", err)
		}
	}
	return nil
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
