package daemon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rokkenjima/watchface/internal/channel"
	"github.com/rokkenjima/watchface/internal/display"
	"github.com/rokkenjima/watchface/internal/host"
	"github.com/rokkenjima/watchface/internal/platform"
	"github.com/rokkenjima/watchface/internal/settings"
	"github.com/rokkenjima/watchface/internal/web/handler"
)

// Snapshotter encodes the current canvas content.
type Snapshotter interface {
	Snapshot() ([]byte, error)
}

// Face binds the settings store and the display controller to the host loop. Every
// entry point runs on the loop, so store and controller never see concurrent calls.
type Face struct {
	caps      platform.Capabilities
	loop      *host.Loop
	store     *settings.Store
	ctrl      *display.Controller
	snapshot  Snapshotter
	framePath string

	mu  sync.RWMutex
	png []byte
}

var _ handler.Watchface = (*Face)(nil)

// Settings returns the current record.
func (f *Face) Settings(ctx context.Context) (settings.Record, error) {
	var rec settings.Record

	err := f.loop.Do(ctx, func() {
		rec = f.store.Current()
	})

	return rec, err
}

// Defaults returns the platform defaults.
func (f *Face) Defaults() settings.Record {
	return f.store.Defaults()
}

// Apply merges a delivery into the store. The store persists and notifies the
// controller, which renders before Apply returns. A persist failure is returned
// alongside the result; the merged values stay in effect.
func (f *Face) Apply(ctx context.Context, d channel.Delivery) (settings.Result, error) {
	res, perr, err := f.apply(ctx, d)
	if err != nil {
		return res, err
	}

	return res, perr
}

// apply separates a loop failure from a persist failure.
func (f *Face) apply(ctx context.Context, d channel.Delivery) (res settings.Result, perr, err error) {
	err = f.loop.Do(ctx, func() {
		log.Debug().Str("delivery", d.ID).Str("source", d.Source).Int("keys", len(d.Payload)).
			Msg("applying settings update")

		res, perr = f.store.ApplyUpdate(ctx, d.Payload)
	})

	return res, perr, err //nolint:wrapcheck
}

// Handle is the channel.Handler of the face. Only a stopped loop fails a delivery;
// persist failures are logged by the store.
func (f *Face) Handle(ctx context.Context, d channel.Delivery) error {
	res, _, err := f.apply(ctx, d)
	if err != nil {
		return err
	}

	log.Info().Str("delivery", d.ID).Str("source", d.Source).
		Int("applied", len(res.Applied)).Int("skipped", len(res.Skipped)).Int("unknown", len(res.Unknown)).
		Msg("settings update applied")

	return nil
}

// SetConnected injects a connectivity change and redraws.
func (f *Face) SetConnected(ctx context.Context, connected bool) error {
	return f.loop.Do(ctx, func() { //nolint:wrapcheck
		log.Info().Bool("connected", connected).Msg("connectivity changed")
		f.ctrl.OnConnectivityChange(connected)
		f.ctrl.Flush()
	})
}

// SetObstructed injects an obstruction change and redraws.
func (f *Face) SetObstructed(ctx context.Context, obstructed bool) error {
	return f.loop.Do(ctx, func() { //nolint:wrapcheck
		log.Info().Bool("obstructed", obstructed).Msg("obstruction changed")
		f.ctrl.OnObstructionChange(obstructed)
		f.ctrl.Flush()
	})
}

// OnTick is the minute tick handler, it runs on the loop.
func (f *Face) OnTick(now time.Time, units host.TimeUnits) {
	f.ctrl.OnTick(now, units)
	f.ctrl.Flush()
}

// Status reports the display state.
func (f *Face) Status(ctx context.Context) (handler.Status, error) {
	var st handler.Status

	err := f.loop.Do(ctx, func() {
		regions := make(map[string]string)
		for _, r := range display.Regions() {
			regions[r.String()] = f.ctrl.State(r).String()
		}

		st = handler.Status{
			Platform:   f.caps.Name,
			Connected:  f.ctrl.Connected(),
			Obstructed: f.ctrl.Obstructed(),
			Background: f.ctrl.Background(),
			Regions:    regions,
			LastFrame:  f.ctrl.LastFrame().Time,
		}
	})

	return st, err
}

// Frame returns the PNG of the last rendered frame.
func (f *Face) Frame() []byte {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.png
}

// onFrame captures the canvas after every render. It runs on the loop.
func (f *Face) onFrame(frame display.Frame) {
	if f.snapshot == nil {
		return
	}

	png, err := f.snapshot.Snapshot()
	if err != nil {
		log.Error().Err(err).Msg("failed to encode frame")
		return
	}

	if f.framePath != "" {
		if err := writeFile(f.framePath, png); err != nil {
			log.Warn().Err(err).Str("path", f.framePath).Msg("failed to write frame")
		}
	}

	f.mu.Lock()
	f.png = png
	f.mu.Unlock()

	log.Trace().Time("frame", frame.Time).Int("size", len(png)).Msg("frame captured")
}

// writeFile replaces path atomically.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create frame directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".frame-*")
	if err != nil {
		return fmt.Errorf("create temp frame: %w", err)
	}

	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp frame: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp frame: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace frame: %w", err)
	}

	return nil
}
