package channel

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rokkenjima/watchface/internal/settings"
)

const waitFor = 5 * time.Second

type collector struct {
	mu  sync.Mutex
	got []Delivery
	err error
}

func (c *collector) handle(_ context.Context, d Delivery) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.got = append(c.got, d)

	return c.err
}

func (c *collector) deliveries() []Delivery {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]Delivery(nil), c.got...)
}

func TestDecode(t *testing.T) {
	testCases := []struct {
		name     string
		data     string
		expected settings.Payload
		err      error
	}{
		{
			name: "colour and flag",
			data: `{"BackgroundColour": 16711680, "BtVibration": true}`,
			expected: settings.Payload{
				settings.KeyBackgroundColour: json.Number("16711680"),
				settings.KeyBtVibration:      true,
			},
		},
		{
			name:     "empty object",
			data:     `{}`,
			expected: settings.Payload{},
		},
		{
			name: "array",
			data: `[1, 2]`,
			err:  ErrMalformedPayload,
		},
		{
			name: "null",
			data: `null`,
			err:  ErrMalformedPayload,
		},
		{
			name: "garbage",
			data: `BackgroundColour=1`,
			err:  ErrMalformedPayload,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Decode(SourceWeb, []byte(tc.data))
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, SourceWeb, d.Source)
			assert.Len(t, d.ID, idLength)
			assert.Equal(t, tc.expected, d.Payload)
		})
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := map[string]bool{}

	for range 50 {
		id := NewID()
		assert.Len(t, id, idLength)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestNATSSubscriber(t *testing.T) {
	srv, err := StartEmbeddedNATS("127.0.0.1", -1)
	require.NoError(t, err)
	t.Cleanup(srv.Shutdown)

	c := &collector{}

	sub, err := NewNATSSubscriber(srv.ClientURL())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sub.Close() })

	require.NoError(t, sub.Subscribe(context.Background(), "watchface.settings", c.handle))

	pub, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	t.Cleanup(pub.Close)

	t.Run("request is answered", func(t *testing.T) {
		msg, err := pub.Request("watchface.settings", []byte(`{"HourlyVibration": 1}`), waitFor)
		require.NoError(t, err)
		assert.Equal(t, replyOK, string(msg.Data))

		got := c.deliveries()
		require.Len(t, got, 1)
		assert.Equal(t, SourceNATS, got[0].Source)
		assert.Equal(t, json.Number("1"), got[0].Payload[settings.KeyHourlyVibration])
	})

	t.Run("malformed request reports the error", func(t *testing.T) {
		msg, err := pub.Request("watchface.settings", []byte(`not json`), waitFor)
		require.NoError(t, err)
		assert.Contains(t, string(msg.Data), ErrMalformedPayload.Error())
		assert.Len(t, c.deliveries(), 1)
	})

	t.Run("handler error is returned", func(t *testing.T) {
		c.mu.Lock()
		c.err = errors.New("loop stopped")
		c.mu.Unlock()

		msg, err := pub.Request("watchface.settings", []byte(`{}`), waitFor)
		require.NoError(t, err)
		assert.Equal(t, "loop stopped", string(msg.Data))
	})

	t.Run("fire and forget publish", func(t *testing.T) {
		c.mu.Lock()
		c.err = nil
		c.mu.Unlock()

		before := len(c.deliveries())

		require.NoError(t, pub.Publish("watchface.settings", []byte(`{"BtVibration": 0}`)))
		require.NoError(t, pub.Flush())

		assert.Eventually(t, func() bool {
			return len(c.deliveries()) == before+1
		}, waitFor, 10*time.Millisecond)
	})
}

func TestNewNATSSubscriberUnreachable(t *testing.T) {
	_, err := NewNATSSubscriber("nats://127.0.0.1:1", nats.Timeout(100*time.Millisecond), nats.NoReconnect())
	require.Error(t, err)
}

func runDropDir(t *testing.T, dir string, c *collector) {
	t.Helper()

	d, err := NewDropDir(dir, c.handle)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		_ = d.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
		_ = d.Close()
	})
}

func TestDropDirSweepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(`{"ShowClockPattern": 0}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`ignored`), 0o600))

	c := &collector{}
	runDropDir(t, dir, c)

	assert.Eventually(t, func() bool { return len(c.deliveries()) == 1 }, waitFor, 10*time.Millisecond)

	got := c.deliveries()
	assert.Equal(t, SourceDropDir, got[0].Source)
	assert.Equal(t, json.Number("0"), got[0].Payload[settings.KeyShowClockPattern])

	assert.NoFileExists(t, filepath.Join(dir, "a.json"))
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
}

func TestDropDirAppliesNewFiles(t *testing.T) {
	dir := t.TempDir()
	c := &collector{}
	runDropDir(t, dir, c)

	tmp := filepath.Join(dir, "update.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(`{"HandColour": "#FF0000"}`), 0o600))
	require.NoError(t, os.Rename(tmp, filepath.Join(dir, "update.json")))

	assert.Eventually(t, func() bool { return len(c.deliveries()) == 1 }, waitFor, 10*time.Millisecond)
	assert.Equal(t, "#FF0000", c.deliveries()[0].Payload[settings.KeyHandColour])

	assert.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "update.json"))
		return os.IsNotExist(err)
	}, waitFor, 10*time.Millisecond)
}

func TestDropDirRejectsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	c := &collector{}
	runDropDir(t, dir, c)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`[true]`), 0o600))

	assert.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "bad.json"+rejectedExt))
		return err == nil
	}, waitFor, 10*time.Millisecond)
	assert.Empty(t, c.deliveries())
}
