package settings

import (
	"fmt"

	"github.com/rokkenjima/watchface/internal/colour"
)

// Persisted layout: magic, version, field count, then one byte per field in table
// order. Colours are stored as their ARGB2222 byte, booleans as 0 or 1.
const (
	blobMagic  byte = 'R'
	headerSize      = 3

	layoutV1 uint8 = 1
	layoutV2 uint8 = 2

	currentLayout = layoutV2
)

// fieldCount returns how many fields a layout version carries.
func fieldCount(version uint8) int {
	n := 0

	for _, f := range fields {
		if f.since <= version {
			n++
		}
	}

	return n
}

// Encode serialises the full record in the current layout.
func Encode(r Record) []byte {
	out := make([]byte, 0, headerSize+len(fields))
	out = append(out, blobMagic, currentLayout, byte(fieldCount(currentLayout)))

	for _, f := range fields {
		switch f.kind {
		case KindColour:
			out = append(out, byte(*f.colour(&r)))
		case KindBool:
			var b byte
			if *f.flag(&r) {
				b = 1
			}

			out = append(out, b)
		}
	}

	return out
}

// Decode parses a persisted blob. Fields missing from older layouts are taken from
// base. Any structural mismatch rejects the whole blob.
func Decode(blob []byte, base Record) (Record, error) {
	if len(blob) < headerSize {
		return base, fmt.Errorf("%w: %d bytes", ErrBlobTooShort, len(blob))
	}

	if blob[0] != blobMagic {
		return base, fmt.Errorf("%w: 0x%02x", ErrBlobMagic, blob[0])
	}

	version := blob[1]
	if version < layoutV1 || version > currentLayout {
		return base, fmt.Errorf("%w: %d", ErrBlobVersion, version)
	}

	count := fieldCount(version)
	if int(blob[2]) != count || len(blob) != headerSize+count {
		return base, fmt.Errorf("%w: version %d wants %d fields, header says %d in %d bytes",
			ErrBlobLength, version, count, blob[2], len(blob))
	}

	r := base
	body := blob[headerSize:]
	i := 0

	for _, f := range fields {
		if f.since > version {
			continue
		}

		b := body[i]
		i++

		switch f.kind {
		case KindColour:
			*f.colour(&r) = colour.Colour(b)
		case KindBool:
			if b > 1 {
				return base, fmt.Errorf("%w: %s=%d", ErrBlobField, f.key, b)
			}

			*f.flag(&r) = b == 1
		}
	}

	return r, nil
}
