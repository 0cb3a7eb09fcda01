// Package web serves the settings page, the JSON API, the rendered frame and the
// Prometheus metrics of the running watchface.
package web

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/gofiber/template/html/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/rokkenjima/watchface/internal/config"
	fiberlogger "github.com/rokkenjima/watchface/internal/logger/adapter/fiber"
	"github.com/rokkenjima/watchface/internal/web/handler"
	"github.com/rokkenjima/watchface/internal/web/handler/api"
	"github.com/rokkenjima/watchface/internal/web/handler/frame"
	"github.com/rokkenjima/watchface/internal/web/handler/settings/form"
)

const (
	// CheckAlivePath answers load balancer health checks.
	CheckAlivePath = "/checkalive"
	// MetricsPath exposes the Prometheus registry.
	MetricsPath = "/metrics"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start serves on addr until Shutdown is called.
func (s *Service) Start(addr string) error {
	s.alive.Store(true)

	err := s.App.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err //nolint: wrapcheck
	}

	return nil
}

// Shutdown stops the web service. Unless fast shutdown is set, /checkalive answers 503
// for Webserver.ShutDownTime seconds first so a load balancer can drain this instance.
func (s *Service) Shutdown(ctx context.Context) error {
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)

		select {
		case <-time.After(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second):
		case <-ctx.Done():
		}
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.ShutdownWithContext(ctx); err != nil {
		return err //nolint: wrapcheck
	}

	log.Info().Msg("http server was stopped")

	return nil
}

// Alive reports whether /checkalive answers 200.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// New creates the web service serving face.
func New(cfg *config.Config, face handler.Watchface) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if face == nil {
		panic("face cannot be nil")
	}

	templateEngine := html.NewFileSystem(http.FS(subFS{content: embeddedTemplates, dir: "templates"}), ".html")

	// in dev mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".html")
		templateEngine.Reload(true)

		log.Warn().Msg("dev mode enabled: using local filesystem for templates")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Immutable:      true,
			Views:          templateEngine,
		},
	)

	service := &Service{
		cfg:          cfg,
		App:          app,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{Config: cfg.Log}))

	// serve embedded static files
	app.Use("/static", static.New("", static.Config{
		FS: subFS{content: embeddedStaticFiles, dir: "static"},
	}))

	app.Get(CheckAlivePath, func(c fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})

	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	// init handlers, they register their own routes
	for _, h := range []handler.Service{&form.Service{}, &api.Service{}, &frame.Service{}} {
		if err := h.Init(app, cfg, face); err != nil {
			log.Fatal().Err(err).Msg("failed to init web handler")
		}
	}

	// redirect root to the settings page
	app.Get("/", func(c fiber.Ctx) error {
		return c.Redirect().To(form.Path)
	})

	return service
}
