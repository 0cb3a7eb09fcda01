package haptics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var vibrations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "watchface_vibrations_total",
	Help: "Number of vibration patterns played.",
}, []string{"pattern"})

// Motor switches the vibration motor.
type Motor interface {
	Set(on bool)
}

// LogMotor writes motor transitions to the log.
type LogMotor struct{}

// Set implements Motor.
func (LogMotor) Set(on bool) {
	log.Trace().Bool("on", on).Msg("vibration motor")
}

// Queue plays patterns one after another. A pattern already waiting or playing is
// not queued a second time.
type Queue struct {
	motor Motor
	queue chan Pattern
	sleep func(ctx context.Context, d time.Duration) error

	mu      sync.Mutex
	pending map[string]struct{}
}

// NewQueue returns a queue holding up to size waiting patterns.
func NewQueue(motor Motor, size int) *Queue {
	return &Queue{
		motor:   motor,
		queue:   make(chan Pattern, size),
		sleep:   sleep,
		pending: make(map[string]struct{}),
	}
}

// Enqueue implements Vibrator.
func (q *Queue) Enqueue(p Pattern) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.pending[p.Name]; ok {
		log.Debug().Str("pattern", p.Name).Msg("vibration already queued")
		return
	}

	select {
	case q.queue <- p:
		q.pending[p.Name] = struct{}{}
	default:
		log.Warn().Str("pattern", p.Name).Msg("vibration queue full, dropping pattern")
	}
}

// Pending counts the patterns waiting or playing.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.pending)
}

// Run plays queued patterns until ctx is done.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			q.motor.Set(false)
			return ctx.Err() //nolint:wrapcheck
		case p := <-q.queue:
			q.play(ctx, p)
		}
	}
}

func (q *Queue) play(ctx context.Context, p Pattern) {
	defer func() {
		q.motor.Set(false)

		q.mu.Lock()
		delete(q.pending, p.Name)
		q.mu.Unlock()
	}()

	vibrations.WithLabelValues(p.Name).Inc()
	log.Debug().Str("pattern", p.Name).Dur("duration", p.Duration()).Msg("playing vibration")

	for i, d := range p.Segments {
		q.motor.Set(i%2 == 0)

		if err := q.sleep(ctx, d); err != nil {
			return
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck
	case <-t.C:
		return nil
	}
}
