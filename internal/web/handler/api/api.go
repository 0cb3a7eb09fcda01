// Package api serves the JSON settings endpoint and the connectivity and obstruction
// switches used to drive the face from outside.
package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/rokkenjima/watchface/internal/channel"
	"github.com/rokkenjima/watchface/internal/config"
	"github.com/rokkenjima/watchface/internal/settings"
	"github.com/rokkenjima/watchface/internal/web/handler"
)

const (
	// Path is the prefix of the JSON API.
	Path = "/api"

	settingsPath     = "/settings"
	defaultsPath     = "/settings/defaults"
	connectivityPath = "/connectivity"
	obstructionPath  = "/obstruction"
	statusPath       = "/status"
)

// Service is the JSON API handler service.
type Service struct {
	face handler.Watchface
}

// UpdateResponse is returned after a settings update.
type UpdateResponse struct {
	Delivery  string          `json:"delivery"`
	Applied   []settings.Key  `json:"applied"`
	Skipped   []settings.Key  `json:"skipped"`
	Unknown   []settings.Key  `json:"unknown"`
	Persisted bool            `json:"persisted"`
	Settings  settings.Record `json:"settings"`
}

// ConnectivityRequest switches the phone connection.
type ConnectivityRequest struct {
	Connected *bool `json:"connected"`
}

// ObstructionRequest switches the screen obstruction.
type ObstructionRequest struct {
	Obstructed *bool `json:"obstructed"`
}

// ErrorResponse carries a failure message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Init registers the API routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, face handler.Watchface) error {
	if app == nil || cfg == nil || face == nil {
		return errors.New(handler.ErrNilACFLogMsg)
	}

	s.face = face

	app.Route(Path, func(router fiber.Router) {
		router.Get(settingsPath, s.GetSettings)
		router.Post(settingsPath, s.PostSettings)
		router.Get(defaultsPath, s.GetDefaults)
		router.Post(connectivityPath, s.PostConnectivity)
		router.Post(obstructionPath, s.PostObstruction)
		router.Get(statusPath, s.GetStatus)
	})

	return nil
}

// GetSettings returns the current record.
func (s *Service) GetSettings(c fiber.Ctx) error {
	rec, err := s.face.Settings(c.Context())
	if err != nil {
		return unavailable(c, err)
	}

	return c.JSON(rec)
}

// GetDefaults returns the platform default record.
func (s *Service) GetDefaults(c fiber.Ctx) error {
	return c.JSON(s.face.Defaults())
}

// PostSettings merges a sparse JSON payload, exactly as a channel delivery would.
func (s *Service) PostSettings(c fiber.Ctx) error {
	d, err := channel.Decode(channel.SourceWeb, c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	res, err := s.face.Apply(c.Context(), d)

	rec, rerr := s.face.Settings(c.Context())
	if rerr != nil {
		return unavailable(c, rerr)
	}

	if err != nil {
		log.Warn().Err(err).Str("delivery", d.ID).Msg("settings update applied but not persisted")
	}

	return c.JSON(UpdateResponse{
		Delivery:  d.ID,
		Applied:   orEmpty(res.Applied),
		Skipped:   orEmpty(res.Skipped),
		Unknown:   orEmpty(res.Unknown),
		Persisted: err == nil,
		Settings:  rec,
	})
}

// PostConnectivity switches the simulated phone connection.
func (s *Service) PostConnectivity(c fiber.Ctx) error {
	var req ConnectivityRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil || req.Connected == nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: `expected {"connected": bool}`})
	}

	if err := s.face.SetConnected(c.Context(), *req.Connected); err != nil {
		return unavailable(c, err)
	}

	return s.GetStatus(c)
}

// PostObstruction switches the simulated screen obstruction.
func (s *Service) PostObstruction(c fiber.Ctx) error {
	var req ObstructionRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil || req.Obstructed == nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: `expected {"obstructed": bool}`})
	}

	if err := s.face.SetObstructed(c.Context(), *req.Obstructed); err != nil {
		return unavailable(c, err)
	}

	return s.GetStatus(c)
}

// GetStatus returns the display state.
func (s *Service) GetStatus(c fiber.Ctx) error {
	st, err := s.face.Status(c.Context())
	if err != nil {
		return unavailable(c, err)
	}

	return c.JSON(st)
}

func unavailable(c fiber.Ctx, err error) error {
	log.Error().Err(err).Str("path", c.Path()).Msg("watchface unavailable")
	return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: err.Error()})
}

func orEmpty(keys []settings.Key) []settings.Key {
	if keys == nil {
		return []settings.Key{}
	}

	return keys
}
