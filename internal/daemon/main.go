// Package daemon assembles the watchface runtime: blob store, settings store, display
// controller on a raster canvas, the host loop with its ticker and haptics, the
// configuration channels and the web surface.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rokkenjima/watchface/internal/blobstore"
	"github.com/rokkenjima/watchface/internal/channel"
	"github.com/rokkenjima/watchface/internal/config"
	"github.com/rokkenjima/watchface/internal/display"
	"github.com/rokkenjima/watchface/internal/display/raster"
	"github.com/rokkenjima/watchface/internal/haptics"
	"github.com/rokkenjima/watchface/internal/host"
	"github.com/rokkenjima/watchface/internal/platform"
	"github.com/rokkenjima/watchface/internal/settings"
	"github.com/rokkenjima/watchface/internal/web"
)

const (
	loopBuffer   = 64
	hapticsQueue = 4
	embedHost    = "127.0.0.1"
)

// Daemon represents the running watchface.
type Daemon struct {
	cfg   *config.Config
	blobs blobstore.Store
	loop  *host.Loop
	queue *haptics.Queue
	face  *Face

	webService *web.Service
}

// New loads the persisted settings and builds every component. Nothing runs until
// Run is called.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	caps, err := platform.Lookup(cfg.Platform)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	blobs, err := blobstore.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open blob store: %w", err)
	}

	store := settings.New(caps, blobs)
	if err := store.Initialize(ctx); err != nil {
		_ = blobs.Close()
		return nil, fmt.Errorf("initialize settings: %w", err)
	}

	canvas, err := raster.New(caps)
	if err != nil {
		_ = blobs.Close()
		return nil, fmt.Errorf("create canvas: %w", err)
	}

	d := &Daemon{
		cfg:   cfg,
		blobs: blobs,
		loop:  host.NewLoop(loopBuffer),
		queue: haptics.NewQueue(haptics.LogMotor{}, hapticsQueue),
	}

	d.face = &Face{
		caps:      caps,
		loop:      d.loop,
		store:     store,
		snapshot:  canvas,
		framePath: cfg.Render.FramePath,
	}

	ctrl := display.New(display.Options{
		Caps:     caps,
		Canvas:   canvas,
		Source:   store,
		Vibrator: d.queue,
		OnFrame:  d.face.onFrame,
	})
	d.face.ctrl = ctrl
	store.SetNotifier(ctrl)

	if cfg.Webserver.Enabled {
		d.webService = web.New(cfg, d.face)
	}

	log.Info().
		Str("platform", caps.Name).
		Str("storage", cfg.Storage.Engine).
		Bool("web", cfg.Webserver.Enabled).
		Msg("watchface assembled")

	return d, nil
}

// Face returns the running face.
func (d *Daemon) Face() *Face {
	return d.face
}

// Start runs the daemon until SIGINT or SIGTERM.
func (d *Daemon) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return d.Run(ctx)
}

// Run starts every component and blocks until ctx is done or one of them fails.
func (d *Daemon) Run(ctx context.Context) error {
	defer func() {
		if err := d.blobs.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close blob store")
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return ignoreCanceled(d.loop.Run(gctx)) })
	g.Go(func() error { return ignoreCanceled(d.queue.Run(gctx)) })
	g.Go(func() error { return ignoreCanceled(host.NewTicker(d.loop, d.face.OnTick).Run(gctx)) })

	// the phone is assumed connected at start, the first frame is drawn here
	if err := d.face.SetConnected(gctx, true); err != nil {
		return d.stop(g, fmt.Errorf("first frame: %w", err))
	}

	closers, err := d.startChannels(gctx, g)
	defer func() {
		for _, c := range closers {
			c()
		}
	}()

	if err != nil {
		return d.stop(g, err)
	}

	if d.webService != nil {
		d.startWeb(gctx, g)
	}

	log.Info().Msg("watchface running")

	<-gctx.Done()
	log.Info().Msg("watchface stopping")

	return ignoreCanceled(g.Wait())
}

// stop cancels the group by failing it and waits for the running components.
func (d *Daemon) stop(g *errgroup.Group, err error) error {
	g.Go(func() error { return err })

	return g.Wait() //nolint:wrapcheck
}

func (d *Daemon) startChannels(ctx context.Context, g *errgroup.Group) ([]func(), error) {
	var closers []func()

	ch := d.cfg.Channel
	natsURL := ch.NATSURL

	if ch.EmbedNATS {
		port := ch.NATSPort
		if port == 0 {
			port = -1
		}

		srv, err := channel.StartEmbeddedNATS(embedHost, port)
		if err != nil {
			return closers, err //nolint:wrapcheck
		}

		closers = append(closers, func() { shutdownNATS(srv) })
		natsURL = srv.ClientURL()
	}

	if natsURL != "" {
		sub, err := channel.NewNATSSubscriber(natsURL)
		if err != nil {
			return closers, err //nolint:wrapcheck
		}

		closers = append([]func(){func() { _ = sub.Close() }}, closers...)

		if err := sub.Subscribe(ctx, ch.NATSSubject, d.face.Handle); err != nil {
			return closers, err //nolint:wrapcheck
		}
	}

	if ch.DropDir != "" {
		dd, err := channel.NewDropDir(ch.DropDir, d.face.Handle)
		if err != nil {
			return closers, err //nolint:wrapcheck
		}

		closers = append([]func(){func() { _ = dd.Close() }}, closers...)

		g.Go(func() error { return dd.Run(ctx) })
	}

	return closers, nil
}

func (d *Daemon) startWeb(ctx context.Context, g *errgroup.Group) {
	addr := ":" + strconv.Itoa(d.cfg.Webserver.Port)

	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("starting web server")

		if err := d.webService.Start(addr); err != nil {
			return fmt.Errorf("web server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		timeout := time.Duration(d.cfg.Webserver.ShutDownTime)*time.Second + 5*time.Second

		sctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := d.webService.Shutdown(sctx); err != nil {
			log.Error().Err(err).Msg("web server shutdown failed")
		}

		return nil
	})
}

func shutdownNATS(srv *natsserver.Server) {
	srv.Shutdown()
	srv.WaitForShutdown()
	log.Info().Msg("embedded nats server stopped")
}

// ignoreCanceled drops the errors every component returns on a regular shutdown.
func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, host.ErrStopped) {
		return nil
	}

	return err
}
