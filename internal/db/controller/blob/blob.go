// Package blob reads and writes the rows of the blobs table, one opaque value per
// numeric key.
package blob

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rokkenjima/watchface/internal/db/models"
)

const keyColumn = "blob_key"

var (
	// ErrBlobNotFound is returned when no row holds the key.
	ErrBlobNotFound = errors.New("blob not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get returns the value stored under key.
func Get(db *gorm.DB, key uint32) ([]byte, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var row models.Blob

	err := db.Select("value").Where(keyColumn+" = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBlobNotFound
	}

	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return row.Value, nil
}

// Put stores value under key in a single statement, replacing any existing value.
// Concurrent writers of the same key never collide on the unique index.
func Put(db *gorm.DB, key uint32, value []byte) error {
	if db == nil {
		return ErrDBNil
	}

	row := models.Blob{Key: key, Value: value}

	return db.Clauses(clause.OnConflict{ //nolint:wrapcheck
		Columns:   []clause.Column{{Name: keyColumn}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&row).Error
}

// Delete removes the row holding key.
func Delete(db *gorm.DB, key uint32) error {
	if db == nil {
		return ErrDBNil
	}

	res := db.Where(keyColumn+" = ?", key).Delete(&models.Blob{})
	if res.Error != nil {
		return res.Error //nolint:wrapcheck
	}

	if res.RowsAffected == 0 {
		return ErrBlobNotFound
	}

	return nil
}
