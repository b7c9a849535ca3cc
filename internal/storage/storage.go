package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Store is the local key-value store holding cached timesheets, the
// installation date and the reminder options. Values are raw JSON.
type Store interface {
	// Get returns the values for the keys that exist. Missing keys are
	// simply absent from the result.
	Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error)
	// Set writes every entry, replacing existing values.
	Set(ctx context.Context, entries map[string]json.RawMessage) error
	Close() error
}

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// BaseDir returns the root data directory (~/.clockstorm).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".clockstorm"), nil
}

// Open returns the store for the given backend. path is a directory for the
// file backend and a database file for sqlite; it is ignored for memory.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", BackendFile:
		return NewFileStore(path), nil
	case BackendSQLite:
		return NewSQLiteStore(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", backend)
}

// GetOne is a convenience wrapper returning a single value and whether it exists.
func GetOne(ctx context.Context, s Store, key string) (json.RawMessage, bool, error) {
	values, err := s.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// SetJSON marshals v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage error marshalling %s: %w", key, err)
	}
	return s.Set(ctx, map[string]json.RawMessage{key: data})
}
