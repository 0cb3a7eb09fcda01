package fiber_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/rokkenjima/watchface/internal/logger/adapter/fiber"

	"github.com/rokkenjima/watchface/internal/logger"
)

type accessEntry struct {
	IP           string  `json:"IP"`
	Status       int     `json:"status"`
	XPerformance float64 `json:"X-Performance"`
	URI          string  `json:"URI"`
	Method       string  `json:"method"`
	Host         string  `json:"host"`
	Error        string  `json:"error"`
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		targetPath string
		log        logger.Log
		wantOutput bool
		wantStatus int
		wantError  bool
	}{
		{
			name:       "root",
			targetPath: "/",
			wantOutput: true,
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "query string is kept",
			targetPath: "/?test=123",
			wantOutput: true,
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "double slash is logged unnormalised",
			targetPath: "//missing",
			wantOutput: true,
			wantStatus: fiber.StatusNotFound,
			wantError:  true,
		},
		{
			name:       "failing handler",
			targetPath: "/fail",
			wantOutput: true,
			wantStatus: fiber.StatusTeapot,
			wantError:  true,
		},
		{
			name:       "checkalive suppressed",
			targetPath: "/checkalive",
			log:        logger.Log{DisableCheckAlive: true},
		},
		{
			name:       "checkalive logged",
			targetPath: "/checkalive",
			wantOutput: true,
			wantStatus: fiber.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			app := fiber.New()
			app.Use(adapter.New(adapter.Config{Config: tt.log, Output: &out}))
			app.Get("/", func(c fiber.Ctx) error {
				return c.SendString("hello test")
			})
			app.Get("/fail", func(_ fiber.Ctx) error {
				return fiber.NewError(fiber.StatusTeapot, "short and stout")
			})
			app.Get("/checkalive", func(c fiber.Ctx) error {
				return c.SendString("OK")
			})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.targetPath, nil),
				fiber.TestConfig{Timeout: 5 * time.Second})
			require.NoError(t, err)
			assert.NotEmpty(t, resp.Header.Get("X-Performance"))

			if !tt.wantOutput {
				assert.Empty(t, out.String())
				return
			}

			var entry accessEntry
			require.NoError(t, json.Unmarshal(out.Bytes(), &entry), out.String())

			assert.Equal(t, tt.wantStatus, entry.Status)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.targetPath, entry.URI)
			assert.Equal(t, fiber.MethodGet, entry.Method)
			assert.Equal(t, "example.com", entry.Host)
			assert.Equal(t, tt.wantError, entry.Error != "")
		})
	}
}

func TestNewSkipsWithNext(t *testing.T) {
	var out bytes.Buffer

	app := fiber.New()
	app.Use(adapter.New(adapter.Config{
		Next:   func(_ fiber.Ctx) bool { return true },
		Output: &out,
	}))
	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("hello test")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, out.String())
}
