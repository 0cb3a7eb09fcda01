// Package fiber provides the zerolog access log middleware of the web surface.
package fiber

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rokkenjima/watchface/internal/logger"
)

const logDirMode = 0o750

// Config of the access log middleware.
type Config struct {
	// Next skips the middleware when it returns true.
	Next func(c fiber.Ctx) bool

	// Config of the logger.
	Config logger.Log

	// CacheControlError is set on responses whose chain failed.
	CacheControlError string

	// CheckAliveURI is not logged when Config.DisableCheckAlive is set.
	CheckAliveURI string

	// Output overrides the configured writers.
	Output io.Writer
}

// ConfigDefault is the default config.
var ConfigDefault = Config{
	CacheControlError: "max-age=0",
	CheckAliveURI:     "/checkalive",
}

func configDefault(config ...Config) Config {
	if len(config) < 1 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.CacheControlError == "" {
		cfg.CacheControlError = ConfigDefault.CacheControlError
	}

	if cfg.CheckAliveURI == "" {
		cfg.CheckAliveURI = ConfigDefault.CheckAliveURI
	}

	return cfg
}

// New creates the access logging middleware.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)
	accessLogger := zerolog.New(zerolog.MultiLevelWriter(writers(&cfg)...)).
		With().
		Timestamp().
		Logger().
		Level(zerolog.NoLevel)

	return func(c fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		start := time.Now()

		chainErr := c.Next()
		if chainErr != nil {
			// run the error handler now so the logged status is the one the client sees
			if errH := c.App().Config().ErrorHandler(c, chainErr); errH != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError) //nolint:errcheck
			}

			c.Response().Header.Set(fiber.HeaderCacheControl, cfg.CacheControlError)
		}

		elapsed := time.Since(start).Seconds()
		c.Response().Header.Set("X-Performance", strconv.FormatFloat(elapsed, 'f', 6, 64))

		if cfg.Config.DisableCheckAlive && c.Path() == cfg.CheckAliveURI {
			return nil
		}

		// fasthttp normalises the path, log the raw request URI instead
		uri := string(c.Request().RequestURI())

		event := accessLogger.Log().
			Str("IP", c.IP()).
			Int("status", c.Response().StatusCode()).
			Float64("X-Performance", elapsed).
			Str("URI", uri).
			Str("method", c.Method()).
			Bytes("host", c.Request().Host()).
			Str(fiber.HeaderXForwardedFor, c.Get(fiber.HeaderXForwardedFor)).
			Str(fiber.HeaderUserAgent, c.Get(fiber.HeaderUserAgent)).
			Str(fiber.HeaderReferer, c.Get(fiber.HeaderReferer))

		if chainErr != nil {
			event.Err(chainErr)
		}

		event.Send()

		return nil
	}
}

func writers(cfg *Config) []io.Writer {
	if cfg.Output != nil {
		return []io.Writer{cfg.Output}
	}

	var out []io.Writer

	if cfg.Config.File.Enabled {
		if err := os.MkdirAll(cfg.Config.File.Path, logDirMode); err != nil {
			log.Error().Err(err).Str("path", cfg.Config.File.Path).Msg("can't create log directory")
		} else {
			out = append(out, logger.RollingFile(cfg.Config.File.Path, cfg.Config.File.Access))
		}
	}

	if cfg.Config.Console.Enabled && cfg.Config.EnableAccessLogToConsole {
		if cfg.Config.Console.UseConsoleWriter {
			out = append(out, zerolog.ConsoleWriter{
				Out:          os.Stdout,
				TimeFormat:   zerolog.TimeFieldFormat,
				PartsExclude: []string{"level"},
			})
		} else {
			out = append(out, os.Stdout)
		}
	}

	return out
}
