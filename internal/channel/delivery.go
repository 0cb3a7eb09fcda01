// Package channel receives sparse settings updates from the companion side and hands
// them to a Handler one delivery at a time.
package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rokkenjima/watchface/internal/settings"
)

const (
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 10
)

// Sources tagging a delivery.
const (
	SourceNATS    = "nats"
	SourceDropDir = "dropdir"
	SourceWeb     = "web"
)

var deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "watchface_deliveries_total",
	Help: "Number of configuration deliveries by source and outcome.",
}, []string{"source", "outcome"})

// Delivery is one update as received from a channel.
type Delivery struct {
	ID      string
	Source  string
	Payload settings.Payload
}

// Handler consumes a delivery. Calls from a single channel never overlap.
type Handler func(ctx context.Context, d Delivery) error

// NewID returns a short identifier used to correlate a delivery across log lines.
func NewID() string {
	id, err := nanoid.Generate(idAlphabet, idLength)
	if err != nil {
		return "unknown"
	}

	return id
}

// Decode parses a JSON object into a delivery. Numbers are kept as json.Number so
// colour values survive without float rounding.
func Decode(source string, data []byte) (Delivery, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return Delivery{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	if m == nil {
		return Delivery{}, ErrMalformedPayload
	}

	return Delivery{
		ID:      NewID(),
		Source:  source,
		Payload: settings.PayloadFromMap(m),
	}, nil
}

func countDelivery(source string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	deliveries.WithLabelValues(source, outcome).Inc()
}
