package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/rokkenjima/watchface/internal/channel"
	"github.com/rokkenjima/watchface/internal/colour"
	"github.com/rokkenjima/watchface/internal/config"
	"github.com/rokkenjima/watchface/internal/settings"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, face Watchface) error
}

// Watchface is the running face as seen by the handlers. Every method runs on the
// host loop and may fail once the loop has stopped.
type Watchface interface {
	Settings(ctx context.Context) (settings.Record, error)
	Defaults() settings.Record
	Apply(ctx context.Context, d channel.Delivery) (settings.Result, error)
	SetConnected(ctx context.Context, connected bool) error
	SetObstructed(ctx context.Context, obstructed bool) error
	Status(ctx context.Context) (Status, error)
	// Frame returns the PNG of the last rendered frame, nil before the first render.
	Frame() []byte
}

// Status is a snapshot of the display state.
type Status struct {
	Platform   string            `json:"platform"`
	Connected  bool              `json:"connected"`
	Obstructed bool              `json:"obstructed"`
	Background colour.Colour     `json:"background"`
	Regions    map[string]string `json:"regions"`
	LastFrame  time.Time         `json:"lastFrame"`
}
