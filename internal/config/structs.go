package config

import (
	"github.com/rokkenjima/watchface/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool   // enable dev mode for development
	Title     string `validate:"required"`
	Platform  string `validate:"required"` // display class, see internal/platform
	Storage   Storage
	Channel   Channel
	Render    Render
	Log       logger.Log
	Webserver Webserver
}

// Channel configures the inbound configuration channels. Empty values disable a channel.
type Channel struct {
	NATSURL     string // nats://host:4222
	NATSSubject string // subject the companion publishes updates on
	DropDir     string // directory watched for *.json update files

	// EmbedNATS starts an in-process NATS server listening on NATSPort,
	// NATSURL then defaults to it.
	EmbedNATS bool
	NATSPort  int
}

// Render configures the frame output.
type Render struct {
	FramePath string // write a PNG of every rendered frame here, empty disables it
}

// Webserver implement webserver settings.
type Webserver struct {
	Enabled      bool   // serve the settings page, simulation API and metrics
	Port         int    // listening port for the webserver
	ShutDownTime int    // wait time for shutdown
	URL          string // base url for the webserver
}
