// Package models contains database model definitions.
package models

// Blob represents an opaque persisted record stored under a numeric key.
type Blob struct {
	ID    uint64 `gorm:"primaryKey"`
	Key   uint32 `gorm:"column:blob_key;uniqueIndex"`
	Value []byte
}
