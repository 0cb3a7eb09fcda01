package channel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const (
	dropExt     = ".json"
	rejectedExt = ".rejected"
)

// DropDir applies every *.json file written into a directory and removes it afterwards.
// A file that cannot be parsed is renamed to <name>.rejected. Truncated files are
// left alone until the next write completes them.
type DropDir struct {
	dir     string
	handler Handler
	watcher *fsnotify.Watcher
}

// NewDropDir creates the directory if needed and starts watching it.
func NewDropDir(dir string, h Handler) (*DropDir, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating drop directory %s: %w", dir, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	return &DropDir{dir: dir, handler: h, watcher: w}, nil
}

// Run applies files already present, then processes events until ctx is done or
// the watcher is closed.
func (d *DropDir) Run(ctx context.Context) error {
	d.sweep(ctx)

	log.Info().Str("dir", d.dir).Msg("watching drop directory for settings")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-d.watcher.Events:
			if !ok {
				return nil
			}

			d.handleEvent(ctx, event)
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return nil
			}

			log.Warn().Err(err).Str("dir", d.dir).Msg("drop directory watcher error")
		}
	}
}

// Close stops the watcher.
func (d *DropDir) Close() error {
	return d.watcher.Close() //nolint: wrapcheck
}

func (d *DropDir) sweep(ctx context.Context) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", d.dir).Msg("failed to list drop directory")
		return
	}

	for _, e := range entries {
		if e.IsDir() || !isDrop(e.Name()) {
			continue
		}

		d.apply(ctx, filepath.Join(d.dir, e.Name()))
	}
}

func (d *DropDir) handleEvent(ctx context.Context, event fsnotify.Event) {
	// atomic writers produce Create (or Rename on some platforms) on the target
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	if !isDrop(event.Name) {
		return
	}

	log.Trace().Str("op", event.Op.String()).Str("file", event.Name).Msg("drop directory event")
	d.apply(ctx, event.Name)
}

func (d *DropDir) apply(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}

	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("failed to read drop file")
		return
	}

	delivery, err := Decode(SourceDropDir, data)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return
	}

	if err != nil {
		countDelivery(SourceDropDir, err)
		log.Warn().Err(err).Str("file", path).Msg("rejecting drop file")

		if rerr := os.Rename(path, path+rejectedExt); rerr != nil {
			log.Warn().Err(rerr).Str("file", path).Msg("failed to rename rejected drop file")
		}

		return
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Str("file", path).Msg("failed to remove drop file")
	}

	err = d.handler(ctx, delivery)
	countDelivery(SourceDropDir, err)

	if err != nil {
		log.Error().Err(err).Str("delivery", delivery.ID).Str("file", path).Msg("drop delivery failed")
		return
	}

	log.Debug().Str("delivery", delivery.ID).Str("file", filepath.Base(path)).Msg("drop delivery applied")
}

func isDrop(name string) bool {
	return strings.HasSuffix(name, dropExt)
}
