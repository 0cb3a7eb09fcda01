package settings

import "errors"

var (
	// ErrBlobTooShort is returned when a persisted blob cannot hold a header.
	ErrBlobTooShort = errors.New("settings blob too short")
	// ErrBlobMagic is returned when a persisted blob does not start with the layout marker.
	ErrBlobMagic = errors.New("settings blob has no layout marker")
	// ErrBlobVersion is returned for layout versions this build cannot read.
	ErrBlobVersion = errors.New("unsupported settings blob version")
	// ErrBlobLength is returned when the field count or size does not match the version.
	ErrBlobLength = errors.New("settings blob length mismatch")
	// ErrBlobField is returned when a stored field holds an impossible value.
	ErrBlobField = errors.New("settings blob field out of range")

	// ErrValueType is returned when a payload value has a type that cannot be decoded.
	ErrValueType = errors.New("unsupported payload value type")
	// ErrValueRange is returned when a payload value is outside the field's range.
	ErrValueRange = errors.New("payload value out of range")
)
