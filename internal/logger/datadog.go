package logger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"
)

const (
	datadogQueue          = 256
	datadogBatch          = 100
	defaultDatadogSite    = "datadoghq.com"
	defaultDatadogSource  = "watchface"
	defaultDatadogTimeout = 5 * time.Second
	envDatadogAPIKey      = "DD_API_KEY"
)

// ErrDatadogAPIKeyEmpty is returned when the Datadog sink is enabled without an API key.
var ErrDatadogAPIKeyEmpty = errors.New("config Log.DataDog.apiKey and DD_API_KEY are empty")

// DataDog configures shipping log lines to the Datadog logs intake.
type DataDog struct {
	Enabled     bool          `toml:"enabled"`
	APIKey      string        `toml:"apiKey"` // DD_API_KEY is used when empty
	Site        string        `toml:"site"`   // regional site aka DD_SITE ("datadoghq.eu")
	ServiceName string        `toml:"serviceName"`
	Source      string        `toml:"source"`
	Timeout     time.Duration `toml:"timeout"` // per request
}

type submitFunc func(items []datadogV2.HTTPLogItem) error

// DatadogWriter ships every written log line to Datadog from a background goroutine.
// Writes never block: lines are dropped while the queue is full.
type DatadogWriter struct {
	service  string
	source   string
	hostname string
	submit   submitFunc

	lines   chan []byte
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
	dropped atomic.Uint64
}

// NewDatadogWriter starts a writer submitting through the Datadog logs API.
func NewDatadogWriter(cfg DataDog, service string) (*DatadogWriter, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(envDatadogAPIKey)
	}

	if apiKey == "" {
		return nil, ErrDatadogAPIKeyEmpty
	}

	site := cfg.Site
	if site == "" {
		site = defaultDatadogSite
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultDatadogTimeout
	}

	base := context.WithValue(context.Background(), datadog.ContextAPIKeys, map[string]datadog.APIKey{
		"apiKeyAuth": {Key: apiKey},
	})
	base = context.WithValue(base, datadog.ContextServerVariables, map[string]string{"site": site})

	api := datadogV2.NewLogsApi(datadog.NewAPIClient(datadog.NewConfiguration()))

	submit := func(items []datadogV2.HTTPLogItem) error {
		ctx, cancel := context.WithTimeout(base, timeout)
		defer cancel()

		_, _, err := api.SubmitLog(ctx, items, *datadogV2.NewSubmitLogOptionalParameters())

		return err //nolint:wrapcheck
	}

	if cfg.ServiceName != "" {
		service = cfg.ServiceName
	}

	return newDatadogWriter(service, cfg.Source, submit), nil
}

func newDatadogWriter(service, source string, submit submitFunc) *DatadogWriter {
	if source == "" {
		source = defaultDatadogSource
	}

	hostname, _ := os.Hostname()

	w := &DatadogWriter{
		service:  service,
		source:   source,
		hostname: hostname,
		submit:   submit,
		lines:    make(chan []byte, datadogQueue),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go w.run()

	return w
}

// Write queues one log line. zerolog reuses p, so it is copied.
func (w *DatadogWriter) Write(p []byte) (int, error) {
	line := bytes.TrimSpace(p)
	if len(line) == 0 {
		return len(p), nil
	}

	select {
	case <-w.stop:
		return len(p), nil
	default:
	}

	select {
	case w.lines <- bytes.Clone(line):
	default:
		w.dropped.Add(1)
	}

	return len(p), nil
}

// Dropped returns the number of lines lost to a full queue.
func (w *DatadogWriter) Dropped() uint64 {
	return w.dropped.Load()
}

// Close sends the queued lines and stops the writer.
func (w *DatadogWriter) Close() error {
	w.once.Do(func() { close(w.stop) })
	<-w.done

	return nil
}

func (w *DatadogWriter) run() {
	defer close(w.done)

	for {
		select {
		case line := <-w.lines:
			w.send(w.batch(line))
		case <-w.stop:
			for {
				select {
				case line := <-w.lines:
					w.send(w.batch(line))
				default:
					return
				}
			}
		}
	}
}

// batch collects first and whatever else is queued, up to datadogBatch lines.
func (w *DatadogWriter) batch(first []byte) [][]byte {
	out := [][]byte{first}

	for len(out) < datadogBatch {
		select {
		case line := <-w.lines:
			out = append(out, line)
		default:
			return out
		}
	}

	return out
}

func (w *DatadogWriter) send(lines [][]byte) {
	items := make([]datadogV2.HTTPLogItem, len(lines))

	for i, line := range lines {
		items[i] = datadogV2.HTTPLogItem{
			Message:  string(line),
			Service:  datadog.PtrString(w.service),
			Ddsource: datadog.PtrString(w.source),
			Hostname: datadog.PtrString(w.hostname),
		}
	}

	// the global logger may be the caller, report on stderr
	if err := w.submit(items); err != nil {
		fmt.Fprintf(os.Stderr, "datadog: dropped %d log lines: %v\n", len(items), err)
	}
}
