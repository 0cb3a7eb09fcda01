// Package logger sets up the global zerolog logger of the watchface daemon.
package logger

import (
	"fmt"
	"io"
	"os"
	"path"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logDirMode = 0o750

// LevelWriter splits output by level, see WriteLevel.
type LevelWriter struct {
	io.Writer
	ErrorWriter io.Writer
	InfoWriter  io.Writer
	TraceWriter io.Writer
	WarnWriter  io.Writer
}

// WriteLevel routes trace, warn and error-and-up to their own writers; debug and info go to InfoWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (n int, err error) {
	var w io.Writer

	switch {
	case l == zerolog.Disabled:
		return 0, nil
	case l == zerolog.TraceLevel:
		w = lw.TraceWriter
	case l == zerolog.WarnLevel:
		w = lw.WarnWriter
	case l > zerolog.WarnLevel:
		w = lw.ErrorWriter
	default:
		w = lw.InfoWriter
	}

	if w == nil {
		return len(p), nil
	}

	return w.Write(p) //nolint:wrapcheck
}

// Init the zerolog logger.
// Depending on the config it enables console, files, both or nothing.
func Init(cfg Log) error {
	logLevel, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("loglevel %s is not supported", cfg.LogLevel))
	}

	if cfg.ServiceName == "" {
		return ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return ErrAppNameIsEmpty
	}

	stack := logLevel == zerolog.TraceLevel
	if stack {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
	}

	zerolog.SetGlobalLevel(logLevel)

	var writers []io.Writer

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg))
	}

	if cfg.File.Enabled {
		if fw := newRollingFiles(cfg.File); fw != nil {
			writers = append(writers, fw)
		}
	}

	dd, err := newSink(cfg)
	if err != nil {
		return err
	}

	if dd != nil {
		writers = append(writers, dd)
	}

	zc := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Hook(NewPrometheusHook(cfg.ServiceName)).
		With().
		Timestamp().
		Str("app", cfg.AppName)

	switch {
	case cfg.ReportCaller && stack:
		zc = zc.Stack().Caller()
	case cfg.ReportCaller:
		zc = zc.Caller()
	case stack:
		zc = zc.Stack()
	}

	log.Logger = zc.Logger()

	swapSink(dd)

	return nil
}

// Close flushes and stops the Datadog sink, if one is running.
func Close() {
	swapSink(nil)
}

var (
	sinkMu sync.Mutex     //nolint:gochecknoglobals
	sink   *DatadogWriter //nolint:gochecknoglobals
)

func newSink(cfg Log) (*DatadogWriter, error) {
	if !cfg.DataDog.Enabled {
		return nil, nil //nolint:nilnil
	}

	dd, err := NewDatadogWriter(cfg.DataDog, cfg.ServiceName)
	if err != nil {
		return nil, errors.Wrap(err, "can't start datadog sink")
	}

	return dd, nil
}

// swapSink installs next and closes the sink of a previous Init.
func swapSink(next *DatadogWriter) {
	sinkMu.Lock()
	prev := sink
	sink = next
	sinkMu.Unlock()

	if prev != nil {
		_ = prev.Close()
	}
}

// RollingFile returns a lumberjack writer for one rotation entry below dir.
func RollingFile(dir string, r Rotation) io.Writer {
	return &lumberjack.Logger{
		Filename:   path.Join(dir, r.Name),
		MaxSize:    r.MaxSize,
		MaxAge:     r.MaxAge,
		MaxBackups: r.MaxBackups,
	}
}

func newRollingFiles(cfg LogFile) io.Writer {
	if err := os.MkdirAll(cfg.Path, logDirMode); err != nil {
		log.Error().Err(err).Str("path", cfg.Path).Msg("can't create log directory")

		return nil
	}

	return &LevelWriter{
		ErrorWriter: RollingFile(cfg.Path, cfg.Error),
		InfoWriter:  RollingFile(cfg.Path, cfg.Info),
		TraceWriter: RollingFile(cfg.Path, cfg.Trace),
		WarnWriter:  RollingFile(cfg.Path, cfg.Warn),
	}
}

// NewConsoleWriter sends info and debug to stdout, everything else to stderr.
func NewConsoleWriter(cfg Log) io.Writer {
	wrap := func(out io.Writer) io.Writer {
		if !cfg.Console.UseConsoleWriter {
			return out
		}

		return zerolog.ConsoleWriter{Out: out, TimeFormat: zerolog.TimeFieldFormat}
	}

	return &LevelWriter{
		ErrorWriter: wrap(os.Stderr),
		InfoWriter:  wrap(os.Stdout),
		TraceWriter: wrap(os.Stderr),
		WarnWriter:  wrap(os.Stderr),
	}
}
