package blobstore

import (
	"context"
	"slices"
	"sync"
)

// Memory keeps blobs in process memory. Nothing survives a restart.
type Memory struct {
	mu    sync.RWMutex
	blobs map[uint32][]byte
}

// NewMemory returns an empty memory store.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[uint32][]byte)}
}

// Load returns a copy of the blob stored under key.
func (m *Memory) Load(_ context.Context, key uint32) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}

	return slices.Clone(b), nil
}

// Save stores a copy of blob under key.
func (m *Memory) Save(_ context.Context, key uint32, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[key] = slices.Clone(blob)

	return nil
}

// Delete removes the blob stored under key.
func (m *Memory) Delete(_ context.Context, key uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blobs[key]; !ok {
		return ErrNotFound
	}

	delete(m.blobs, key)

	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
