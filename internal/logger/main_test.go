package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rokkenjima/watchface/internal/logger"
)

func TestInit(t *testing.T) {
	testCases := []struct {
		name         string
		cfg          logger.Log
		expectOutput bool
		expectJSON   bool
	}{
		{
			name: "no logger enabled",
			cfg: logger.Log{
				LogLevel:    "",
				ServiceName: "test",
				AppName:     "test",
			},
		},
		{
			name: "console info",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true},
			},
			expectOutput: true,
			expectJSON:   true,
		},
		{
			name: "console writer trace",
			cfg: logger.Log{
				LogLevel:    "trace",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true, UseConsoleWriter: true},
			},
			expectOutput: true,
		},
		{
			name: "console json with caller and stack",
			cfg: logger.Log{
				LogLevel:     "trace",
				ServiceName:  "test",
				AppName:      "test",
				ReportCaller: true,
				Console:      logger.Console{Enabled: true},
			},
			expectOutput: true,
			expectJSON:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := captureInit(t, tc.cfg)

			if !tc.expectOutput {
				assert.Empty(t, out)
				return
			}

			require.NotEmpty(t, out)

			if !tc.expectJSON {
				return
			}

			for _, line := range strings.Split(out, "\n") {
				if line == "" {
					continue
				}

				var entry struct {
					Level   string `json:"level"`
					App     string `json:"app"`
					Message string `json:"message"`
				}

				require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
				assert.Equal(t, "test", entry.App)
				assert.NotEmpty(t, entry.Message)
			}
		})
	}
}

func TestInitErrors(t *testing.T) {
	testCases := []struct {
		name        string
		cfg         logger.Log
		expectedErr error
	}{
		{
			name:        "missing service name",
			cfg:         logger.Log{LogLevel: "info", AppName: "test"},
			expectedErr: logger.ErrServiceNameIsEmpty,
		},
		{
			name:        "missing app name",
			cfg:         logger.Log{LogLevel: "info", ServiceName: "test"},
			expectedErr: logger.ErrAppNameIsEmpty,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, logger.Init(tc.cfg), tc.expectedErr)
		})
	}

	t.Run("unsupported level", func(t *testing.T) {
		err := logger.Init(logger.Log{LogLevel: "loud", AppName: "test", ServiceName: "test"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loud")
	})
}

func TestLevelWriter(t *testing.T) {
	var errOut, infoOut, traceOut, warnOut bytes.Buffer

	lw := &logger.LevelWriter{
		ErrorWriter: &errOut,
		InfoWriter:  &infoOut,
		TraceWriter: &traceOut,
		WarnWriter:  &warnOut,
	}

	testCases := []struct {
		level    zerolog.Level
		expected *bytes.Buffer
	}{
		{zerolog.TraceLevel, &traceOut},
		{zerolog.DebugLevel, &infoOut},
		{zerolog.InfoLevel, &infoOut},
		{zerolog.WarnLevel, &warnOut},
		{zerolog.ErrorLevel, &errOut},
		{zerolog.FatalLevel, &errOut},
	}

	for _, tc := range testCases {
		t.Run(tc.level.String(), func(t *testing.T) {
			before := tc.expected.Len()

			n, err := lw.WriteLevel(tc.level, []byte("x"))
			require.NoError(t, err)
			assert.Equal(t, 1, n)
			assert.Equal(t, before+1, tc.expected.Len())
		})
	}

	n, err := lw.WriteLevel(zerolog.Disabled, []byte("x"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInitFiles(t *testing.T) {
	dir := t.TempDir()

	err := logger.Init(logger.Log{
		LogLevel:    "info",
		AppName:     "test",
		ServiceName: "test",
		File: logger.LogFile{
			Enabled: true,
			Path:    dir,
			Error:   logger.Rotation{Name: "error.log", MaxSize: 1},
			Info:    logger.Rotation{Name: "info.log", MaxSize: 1},
			Trace:   logger.Rotation{Name: "trace.log", MaxSize: 1},
			Warn:    logger.Rotation{Name: "warn.log", MaxSize: 1},
		},
	})
	require.NoError(t, err)

	log.Info().Msg("to the info file")
	log.Error().Err(errors.New("boom")).Msg("to the error file") //nolint:goerr113

	info, err := os.ReadFile(filepath.Join(dir, "info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "to the info file")

	errLog, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errLog), "boom")
	assert.NotContains(t, string(errLog), "to the info file")
}

func captureInit(t *testing.T, cfg logger.Log) string {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w
	os.Stderr = w

	initErr := logger.Init(cfg)

	log.Info().Msg("this info message should be seen...")
	log.Error().Err(errors.New("a test error")).Msg("this err message should be seen...") //nolint:goerr113
	log.Trace().Msg("this trace message should be seen...")

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr

	require.NoError(t, initErr)

	return <-outC
}
