package blobstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rokkenjima/watchface/internal/db/controller/blob"
	"github.com/rokkenjima/watchface/internal/db/models"
)

// Gorm stores blobs as rows of the blobs table.
type Gorm struct {
	db *gorm.DB
}

// NewGorm migrates the blobs table and returns a store on db.
func NewGorm(db *gorm.DB) (*Gorm, error) {
	if err := db.AutoMigrate(&models.Blob{}); err != nil {
		return nil, fmt.Errorf("migrate blobs table: %w", err)
	}

	return &Gorm{db: db}, nil
}

// Load returns the blob stored under key.
func (g *Gorm) Load(ctx context.Context, key uint32) ([]byte, error) {
	value, err := blob.Get(g.db.WithContext(ctx), key)
	if errors.Is(err, blob.ErrBlobNotFound) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("load blob %d: %w", key, err)
	}

	return value, nil
}

// Save creates or replaces the blob stored under key.
func (g *Gorm) Save(ctx context.Context, key uint32, value []byte) error {
	if err := blob.Put(g.db.WithContext(ctx), key, value); err != nil {
		return fmt.Errorf("save blob %d: %w", key, err)
	}

	return nil
}

// Delete removes the blob stored under key.
func (g *Gorm) Delete(ctx context.Context, key uint32) error {
	err := blob.Delete(g.db.WithContext(ctx), key)
	if errors.Is(err, blob.ErrBlobNotFound) {
		return ErrNotFound
	}

	if err != nil {
		return fmt.Errorf("delete blob %d: %w", key, err)
	}

	return nil
}

// Close closes the underlying connection pool.
func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err //nolint:wrapcheck
	}

	return sqlDB.Close() //nolint:wrapcheck
}
