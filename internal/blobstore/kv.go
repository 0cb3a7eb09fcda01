package blobstore

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

const kvKeyPrefix = "watchface:"

// KeyValue is the subset of the gofiber storage interface the KV store needs.
// Get returns a nil value without error for a missing key.
type KeyValue interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
	Close() error
}

// KV stores blobs in a gofiber storage backend under "watchface:<key>".
type KV struct {
	kv KeyValue
}

// NewKV wraps kv.
func NewKV(kv KeyValue) *KV {
	return &KV{kv: kv}
}

func kvKey(key uint32) string {
	return kvKeyPrefix + strconv.FormatUint(uint64(key), 10)
}

// Load returns the blob stored under key.
func (s *KV) Load(_ context.Context, key uint32) ([]byte, error) {
	b, err := s.kv.Get(kvKey(key))
	if err != nil {
		return nil, fmt.Errorf("load blob %d: %w", key, err)
	}

	if b == nil {
		return nil, ErrNotFound
	}

	return b, nil
}

// Save stores blob under key without expiry.
func (s *KV) Save(_ context.Context, key uint32, blob []byte) error {
	if err := s.kv.Set(kvKey(key), blob, 0); err != nil {
		return fmt.Errorf("save blob %d: %w", key, err)
	}

	return nil
}

// Delete removes the blob stored under key.
func (s *KV) Delete(ctx context.Context, key uint32) error {
	if _, err := s.Load(ctx, key); err != nil {
		return err
	}

	if err := s.kv.Delete(kvKey(key)); err != nil {
		return fmt.Errorf("delete blob %d: %w", key, err)
	}

	return nil
}

// Close closes the storage backend.
func (s *KV) Close() error {
	return s.kv.Close() //nolint:wrapcheck
}
