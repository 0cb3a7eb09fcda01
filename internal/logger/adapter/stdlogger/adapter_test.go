package stdlogger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rokkenjima/watchface/internal/logger/adapter/stdlogger"
)

var _ server.Logger = (*stdlogger.Logger)(nil)

type entry struct {
	Level     string `json:"level"`
	Component string `json:"component"`
	Message   string `json:"message"`
	Fatal     bool   `json:"fatal"`
}

func TestLogger(t *testing.T) {
	var out bytes.Buffer

	previous := log.Logger
	log.Logger = zerolog.New(&out)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	t.Cleanup(func() { log.Logger = previous })

	l := stdlogger.New("nats")

	l.Tracef("hidden %s", "trace")
	l.Debugf("hidden %s", "debug")
	l.Noticef("listening on %d", 4222)
	l.Warningf("slow consumer %s", "c1")
	l.Errorf("write failed: %v", "broken pipe")
	l.Fatalf("cannot %s", "start")

	var entries []entry

	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var e entry
		require.NoError(t, json.Unmarshal([]byte(line), &e), line)
		entries = append(entries, e)
	}

	require.Len(t, entries, 4)

	expected := []entry{
		{Level: "info", Component: "nats", Message: "listening on 4222"},
		{Level: "warn", Component: "nats", Message: "slow consumer c1"},
		{Level: "error", Component: "nats", Message: "write failed: broken pipe"},
		{Level: "error", Component: "nats", Message: "cannot start", Fatal: true},
	}

	assert.Equal(t, expected, entries)
}

func TestLoggerWithoutComponent(t *testing.T) {
	var out bytes.Buffer

	previous := log.Logger
	log.Logger = zerolog.New(&out)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	t.Cleanup(func() { log.Logger = previous })

	stdlogger.New("").Debugf("plain %d", 1)

	var e entry
	require.NoError(t, json.Unmarshal(out.Bytes(), &e))
	assert.Equal(t, entry{Level: "debug", Message: "plain 1"}, e)
}
