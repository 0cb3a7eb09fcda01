package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/rokkenjima/watchface/internal/blobstore"
	"github.com/rokkenjima/watchface/internal/platform"
)

// BlobKey is the well-known key the settings blob is persisted under.
const BlobKey uint32 = 1

// BlobStore loads and saves opaque blobs. Load returns blobstore.ErrNotFound when
// nothing has been stored under the key yet.
type BlobStore interface {
	Load(ctx context.Context, key uint32) ([]byte, error)
	Save(ctx context.Context, key uint32, blob []byte) error
}

// Notifier is told about every applied update.
type Notifier interface {
	SettingsChanged()
}

// Result reports what ApplyUpdate did with a payload.
type Result struct {
	Applied []Key
	Skipped []Key
	Unknown []Key
}

// Store owns the canonical settings record. It is not safe for concurrent use; the
// host runtime serialises every call.
type Store struct {
	blobs    BlobStore
	notifier Notifier
	defaults Record
	record   Record
}

// New creates a store holding the platform defaults. Call Initialize to load the
// persisted record.
func New(caps platform.Capabilities, blobs BlobStore) *Store {
	d := Defaults(caps)

	return &Store{
		blobs:    blobs,
		defaults: d,
		record:   d,
	}
}

// SetNotifier registers the component re-rendered after each update.
func (s *Store) SetNotifier(n Notifier) {
	s.notifier = n
}

// Current returns a copy of the record.
func (s *Store) Current() Record {
	return s.record
}

// Defaults returns the platform default record.
func (s *Store) Defaults() Record {
	return s.defaults
}

// Initialize resets the record to defaults and overlays the persisted blob if one
// with a readable layout exists. A missing or unreadable blob leaves the defaults in
// place; only a failing blob store is reported.
func (s *Store) Initialize(ctx context.Context) error {
	s.record = s.defaults

	blob, err := s.blobs.Load(ctx, BlobKey)
	if errors.Is(err, blobstore.ErrNotFound) {
		log.Debug().Uint32("key", BlobKey).Msg("no persisted settings, using defaults")
		return nil
	}

	if err != nil {
		return fmt.Errorf("load settings blob: %w", err)
	}

	record, err := Decode(blob, s.defaults)
	if err != nil {
		blobRejected.Inc()
		log.Warn().Err(err).Int("size", len(blob)).Msg("persisted settings rejected, using defaults")

		return nil
	}

	s.record = record
	log.Debug().Uint32("key", BlobKey).Int("size", len(blob)).Msg("persisted settings loaded")

	return nil
}

// ApplyUpdate merges a sparse payload into the record. Keys absent from the payload
// leave their field untouched; values that cannot be decoded are skipped while the
// remaining fields still apply. The record is then persisted and the notifier
// invoked, both unconditionally. The returned error reports a failed persist only.
func (s *Store) ApplyUpdate(ctx context.Context, payload Payload) (Result, error) {
	var res Result

	next := s.record

	for _, f := range fields {
		raw, ok := payload[f.key]
		if !ok {
			continue
		}

		if err := f.apply(&next, raw); err != nil {
			fieldsSkipped.WithLabelValues(string(f.key)).Inc()
			log.Warn().Err(err).Str("key", string(f.key)).Msg("skipping malformed settings field")

			res.Skipped = append(res.Skipped, f.key)

			continue
		}

		res.Applied = append(res.Applied, f.key)
	}

	for k := range payload {
		if _, known := KindOf(k); !known {
			res.Unknown = append(res.Unknown, k)
			log.Debug().Str("key", string(k)).Msg("ignoring unknown settings key")
		}
	}

	s.record = next
	updatesApplied.Inc()

	err := s.Persist(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to persist settings")
	}

	s.Notify()

	return res, err
}

// Persist writes the whole record under BlobKey, replacing any previous blob.
func (s *Store) Persist(ctx context.Context) error {
	if err := s.blobs.Save(ctx, BlobKey, Encode(s.record)); err != nil {
		persistFailures.Inc()
		return fmt.Errorf("save settings blob: %w", err)
	}

	return nil
}

// Notify hands control to the registered notifier.
func (s *Store) Notify() {
	if s.notifier == nil {
		return
	}

	s.notifier.SettingsChanged()
}

func (f field) apply(r *Record, raw any) error {
	switch f.kind {
	case KindColour:
		c, err := decodeColour(raw)
		if err != nil {
			return err
		}

		*f.colour(r) = c
	case KindBool:
		b, err := decodeBool(raw)
		if err != nil {
			return err
		}

		*f.flag(r) = b
	}

	return nil
}
