package haptics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMotor struct {
	mu     sync.Mutex
	states []bool
}

func (m *fakeMotor) Set(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.states = append(m.states, on)
}

func (m *fakeMotor) snapshot() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]bool(nil), m.states...)
}

func TestPatternDuration(t *testing.T) {
	assert.Equal(t, 1200*time.Millisecond, Disconnect.Duration())
	assert.Equal(t, 300*time.Millisecond, Hourly.Duration())
	assert.Zero(t, Pattern{}.Duration())
}

func TestEnqueueDeduplicates(t *testing.T) {
	q := NewQueue(&fakeMotor{}, 4)

	q.Enqueue(Disconnect)
	q.Enqueue(Disconnect)
	q.Enqueue(Hourly)

	assert.Len(t, q.queue, 2)
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	q := NewQueue(&fakeMotor{}, 1)

	q.Enqueue(Disconnect)
	q.Enqueue(Hourly)

	require.Len(t, q.queue, 1)
	assert.Equal(t, Disconnect.Name, (<-q.queue).Name)
	assert.NotContains(t, q.pending, Hourly.Name)
}

func TestRunPlaysSegments(t *testing.T) {
	motor := &fakeMotor{}
	q := NewQueue(motor, 4)

	var (
		mu    sync.Mutex
		slept []time.Duration
		done  = make(chan struct{})
	)

	q.sleep = func(_ context.Context, d time.Duration) error {
		mu.Lock()
		defer mu.Unlock()

		slept = append(slept, d)
		if len(slept) == len(Disconnect.Segments) {
			close(done)
		}

		return nil
	}

	before := testutil.ToFloat64(vibrations.WithLabelValues(Disconnect.Name))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errC := make(chan error, 1)

	go func() { errC <- q.Run(ctx) }()

	q.Enqueue(Disconnect)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pattern was not played")
	}

	require.Eventually(t, func() bool {
		q.mu.Lock()
		defer q.mu.Unlock()

		return len(q.pending) == 0
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-errC, context.Canceled)

	mu.Lock()
	assert.Equal(t, Disconnect.Segments, slept)
	mu.Unlock()

	// on, off, on, then off when the pattern ends and again when Run stops
	assert.Equal(t, []bool{true, false, true, false, false}, motor.snapshot())
	assert.InDelta(t, before+1, testutil.ToFloat64(vibrations.WithLabelValues(Disconnect.Name)), 0)

	// once played the same pattern can be queued again
	q.Enqueue(Disconnect)
	assert.Len(t, q.queue, 1)
}

func TestRecorder(t *testing.T) {
	var r Recorder

	r.Enqueue(Disconnect)
	r.Enqueue(Hourly)
	assert.Equal(t, []string{"disconnect", "hourly"}, r.Names())

	r.Reset()
	assert.Empty(t, r.Names())
}
