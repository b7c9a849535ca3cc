package storage_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/clockstorm/internal/storage"
)

func stores(t *testing.T) map[string]storage.Store {
	t.Helper()
	sqlite, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "clockstorm.db"))
	require.NoError(t, err)
	return map[string]storage.Store{
		"file":   storage.NewFileStore(t.TempDir()),
		"sqlite": sqlite,
		"memory": storage.NewMemoryStore(),
	}
}

func TestStoreGetMissing(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()
			values, err := s.Get(context.Background(), "installationDate")
			require.NoError(t, err)
			assert.Empty(t, values)
		})
	}
}

func TestStoreSetAndGet(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()
			err := s.Set(ctx, map[string]json.RawMessage{
				"timesheet-03/13/2023": json.RawMessage(`{"dates":{},"timeCards":[]}`),
				"installationDate":     json.RawMessage(`{"year":2023,"month":3,"day":30}`),
			})
			require.NoError(t, err)

			values, err := s.Get(ctx, "timesheet-03/13/2023", "installationDate", "extensionOptions")
			require.NoError(t, err)
			require.Len(t, values, 2)
			assert.JSONEq(t, `{"year":2023,"month":3,"day":30}`, string(values["installationDate"]))

			require.NoError(t, storage.SetJSON(ctx, s, "installationDate", map[string]int{"year": 2024, "month": 1, "day": 1}))
			v, ok, err := storage.GetOne(ctx, s, "installationDate")
			require.NoError(t, err)
			require.True(t, ok)
			assert.JSONEq(t, `{"year":2024,"month":1,"day":1}`, string(v))
		})
	}
}

func TestStoreRejectsInvalidJSON(t *testing.T) {
	for name, s := range stores(t) {
		if name == "memory" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			defer s.Close()
			err := s.Set(context.Background(), map[string]json.RawMessage{"k": json.RawMessage("{bad")})
			assert.Error(t, err)
		})
	}
}

func TestStoreClosed(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Close())
			_, err := s.Get(context.Background(), "k")
			assert.ErrorIs(t, err, storage.ErrClosed)
		})
	}
}

func TestFileStoreCorruptFileIsBackedUp(t *testing.T) {
	dir := t.TempDir()
	s := storage.NewFileStore(dir)
	ctx := context.Background()
	require.NoError(t, storage.SetJSON(ctx, s, "timesheet-03/13/2023", map[string]any{}))

	// Corrupt the file directly.
	path := filepath.Join(dir, "timesheet-03%2F13%2F2023.json")
	require.FileExists(t, path)
	require.NoError(t, os.WriteFile(path, []byte("{bad json"), 0o600))

	values, err := s.Get(ctx, "timesheet-03/13/2023")
	require.NoError(t, err)
	assert.Empty(t, values)
	assert.FileExists(t, path+".corrupt")
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clockstorm.db")
	ctx := context.Background()

	s, err := storage.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, storage.SetJSON(ctx, s, "extensionOptions", map[string]bool{"dailyTimeEntryReminder": false}))
	require.NoError(t, s.Close())

	s, err = storage.NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()
	_, ok, err := storage.GetOne(ctx, s, "extensionOptions")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOpen(t *testing.T) {
	s, err := storage.Open(storage.BackendMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStore{}, s)

	s, err = storage.Open("", t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &storage.FileStore{}, s)

	_, err = storage.Open("redis", "")
	assert.Error(t, err)
}

func TestMemoryStoreClear(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStore()
	require.NoError(t, storage.SetJSON(ctx, s, "installationDate", map[string]int{"year": 2023, "month": 3, "day": 13}))

	s.Clear()

	_, ok, err := storage.GetOne(ctx, s, "installationDate")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, storage.SetJSON(ctx, s, "installationDate", 1), "store stays usable after Clear")
}
