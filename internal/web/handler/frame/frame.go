// Package frame serves the last rendered frame as PNG.
package frame

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/rokkenjima/watchface/internal/config"
	"github.com/rokkenjima/watchface/internal/web/handler"
)

// Path is the path of the frame image.
const Path = "/frame.png"

// Service is the frame handler service.
type Service struct {
	face handler.Watchface
}

// Init registers the frame route.
func (s *Service) Init(app *fiber.App, cfg *config.Config, face handler.Watchface) error {
	if app == nil || cfg == nil || face == nil {
		return errors.New(handler.ErrNilACFLogMsg)
	}

	s.face = face
	app.Get(Path, s.Get)

	return nil
}

// Get sends the frame or 404 before the first render.
func (s *Service) Get(c fiber.Ctx) error {
	png := s.face.Frame()
	if png == nil {
		return c.Status(fiber.StatusNotFound).SendString("no frame rendered yet")
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Type("png")

	return c.Send(png)
}
