package blobstore

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rokkenjima/watchface/internal/config"
)

// mapKV is an in-memory KeyValue following the gofiber storage contract.
type mapKV struct {
	mu     sync.Mutex
	data   map[string][]byte
	failOn string
}

var errKVDown = errors.New("kv down")

func newMapKV() *mapKV {
	return &mapKV{data: make(map[string][]byte)}
}

func (m *mapKV) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failOn == "get" {
		return nil, errKVDown
	}

	return m.data[key], nil
}

func (m *mapKV) Set(key string, val []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failOn == "set" {
		return errKVDown
	}

	m.data[key] = append([]byte(nil), val...)

	return nil
}

func (m *mapKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)

	return nil
}

func (m *mapKV) Close() error {
	return nil
}

func newGormStore(t *testing.T) *Gorm {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	store, err := NewGorm(db)
	require.NoError(t, err)

	return store
}

func TestStores(t *testing.T) {
	backends := []struct {
		name  string
		store func(t *testing.T) Store
	}{
		{name: "memory", store: func(_ *testing.T) Store { return NewMemory() }},
		{name: "gorm sqlite", store: func(t *testing.T) Store { return newGormStore(t) }},
		{name: "kv", store: func(_ *testing.T) Store { return NewKV(newMapKV()) }},
	}

	for _, backend := range backends {
		t.Run(backend.name, func(t *testing.T) {
			ctx := context.Background()
			store := backend.store(t)

			t.Cleanup(func() { _ = store.Close() })

			_, err := store.Load(ctx, 1)
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Save(ctx, 1, []byte{0x52, 0x02, 0x0c, 0xc0}))

			got, err := store.Load(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, []byte{0x52, 0x02, 0x0c, 0xc0}, got)

			// a shorter blob fully replaces the longer one
			require.NoError(t, store.Save(ctx, 1, []byte{0x01}))

			got, err = store.Load(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, []byte{0x01}, got)

			// keys are independent
			_, err = store.Load(ctx, 2)
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Delete(ctx, 1))
			require.ErrorIs(t, store.Delete(ctx, 1), ErrNotFound)

			_, err = store.Load(ctx, 1)
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemoryCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	blob := []byte{1, 2, 3}
	require.NoError(t, store.Save(ctx, 1, blob))

	blob[0] = 9

	got, err := store.Load(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)

	got[1] = 9

	again, err := store.Load(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, again)
}

func TestKVErrors(t *testing.T) {
	ctx := context.Background()
	kv := newMapKV()
	store := NewKV(kv)

	kv.failOn = "set"
	err := store.Save(ctx, 1, []byte{1})
	require.ErrorIs(t, err, errKVDown)

	kv.failOn = "get"
	_, err = store.Load(ctx, 1)
	require.ErrorIs(t, err, errKVDown)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestKVKeyLayout(t *testing.T) {
	kv := newMapKV()
	require.NoError(t, NewKV(kv).Save(context.Background(), 1, []byte{7}))

	assert.Equal(t, []byte{7}, kv.data["watchface:1"])
}

func TestOpen(t *testing.T) {
	testCases := []struct {
		name        string
		cfg         config.Storage
		expectedErr error
		check       func(t *testing.T, s Store)
	}{
		{
			name: "memory",
			cfg:  config.Storage{Engine: config.EngineMemory},
			check: func(t *testing.T, s Store) {
				assert.IsType(t, &Memory{}, s)
			},
		},
		{
			name: "sqlite file",
			cfg: config.Storage{
				Engine: config.EngineSQLite,
				Path:   filepath.Join(t.TempDir(), "watchface.db"),
			},
			check: func(t *testing.T, s Store) {
				assert.IsType(t, &Gorm{}, s)
			},
		},
		{
			name:        "unknown engine",
			cfg:         config.Storage{Engine: "floppy"},
			expectedErr: ErrUnknownEngine,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Open(tc.cfg)

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, s)

				return
			}

			require.NoError(t, err)
			tc.check(t, s)
			require.NoError(t, s.Close())
		})
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	cfg := config.Storage{Engine: config.EngineSQLite, Path: filepath.Join(t.TempDir(), "var", "watchface.db")}

	first, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, 1, []byte{0x52, 0x02}))
	require.NoError(t, first.Close())

	second, err := Open(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { _ = second.Close() })

	got, err := second.Load(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x52, 0x02}, got)
}

func TestSQLiteDSN(t *testing.T) {
	testCases := []struct {
		path     string
		expected string
	}{
		{path: "var/watchface.db", expected: "var/watchface.db?_pragma=busy_timeout(5000)"},
		{path: ":memory:", expected: ":memory:"},
		{path: "file:test.db?mode=memory", expected: "file:test.db?mode=memory"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, sqliteDSN(tc.path))
		})
	}
}
