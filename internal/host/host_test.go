package host

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) (*Loop, context.CancelFunc) {
	t.Helper()

	loop := NewLoop(8)
	ctx, cancel := context.WithCancel(context.Background())
	errC := make(chan error, 1)

	go func() { errC <- loop.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		<-errC
	})

	return loop, cancel
}

func TestLoopRunsInOrder(t *testing.T) {
	loop, _ := startLoop(t)

	var got []int

	for i := range 5 {
		require.True(t, loop.Post(func() { got = append(got, i) }))
	}

	// Do waits behind everything posted before it
	require.NoError(t, loop.Do(context.Background(), func() {}))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestLoopNeverOverlaps(t *testing.T) {
	loop, _ := startLoop(t)

	var (
		wg      sync.WaitGroup
		active  int
		overlap bool
		count   int
	)

	for range 50 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_ = loop.Do(context.Background(), func() {
				active++
				if active > 1 {
					overlap = true
				}

				count++
				active--
			})
		}()
	}

	wg.Wait()

	require.NoError(t, loop.Do(context.Background(), func() {
		assert.False(t, overlap)
		assert.Equal(t, 50, count)
	}))
}

func TestLoopSurvivesPanic(t *testing.T) {
	loop, _ := startLoop(t)

	require.True(t, loop.Post(func() { panic("boom") }))

	ran := false
	require.NoError(t, loop.Do(context.Background(), func() { ran = true }))
	assert.True(t, ran)
}

func TestLoopStopped(t *testing.T) {
	loop := NewLoop(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, loop.Run(ctx), context.Canceled)
	assert.False(t, loop.Post(func() {}))
	require.ErrorIs(t, loop.Do(context.Background(), func() {}), ErrStopped)
}

func TestDoContextCancelled(t *testing.T) {
	loop, _ := startLoop(t)

	release := make(chan struct{})
	require.True(t, loop.Post(func() { <-release }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var ran atomic.Bool

	err := loop.Do(ctx, func() { ran.Store(true) })
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)

	// the loop is free again, a job posted now runs after the abandoned one
	require.NoError(t, loop.Do(context.Background(), func() {}))
	assert.False(t, ran.Load())
}

func TestDoWaitsForStartedJob(t *testing.T) {
	loop, _ := startLoop(t)

	started := make(chan struct{})
	release := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)

	value := 0

	go func() {
		result <- loop.Do(ctx, func() {
			close(started)
			<-release
			value = 42
		})
	}()

	<-started
	cancel()
	close(release)

	require.NoError(t, <-result)
	assert.Equal(t, 42, value)
}

func TestChanged(t *testing.T) {
	base := time.Date(2024, 3, 9, 13, 59, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		next     time.Time
		expected TimeUnits
	}{
		{name: "same instant", next: base, expected: 0},
		{name: "next minute", next: base.Add(time.Minute), expected: MinuteUnit | HourUnit},
		{name: "within hour", next: base.Add(-time.Minute), expected: MinuteUnit},
		{name: "seconds only", next: base.Add(30 * time.Second), expected: SecondUnit},
		{name: "midnight", next: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), expected: MinuteUnit | HourUnit | DayUnit},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Changed(base, tc.next))
		})
	}
}

func TestNextMinute(t *testing.T) {
	at := time.Date(2024, 3, 9, 13, 59, 42, 500, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 9, 14, 0, 0, 0, time.UTC), NextMinute(at))
}

func TestTicker(t *testing.T) {
	loop, _ := startLoop(t)

	clock := []time.Time{
		time.Date(2024, 3, 9, 13, 58, 30, 0, time.UTC), // start
		time.Date(2024, 3, 9, 13, 58, 30, 0, time.UTC), // before first wait
		time.Date(2024, 3, 9, 13, 59, 0, 0, time.UTC),
		time.Date(2024, 3, 9, 13, 59, 0, 0, time.UTC),
		time.Date(2024, 3, 9, 14, 0, 0, 0, time.UTC),
	}

	type tick struct {
		now   time.Time
		units TimeUnits
	}

	var (
		mu    sync.Mutex
		ticks []tick
	)

	ticker := NewTicker(loop, func(now time.Time, units TimeUnits) {
		mu.Lock()
		defer mu.Unlock()

		ticks = append(ticks, tick{now, units})
	})

	i := 0
	ticker.now = func() time.Time {
		now := clock[min(i, len(clock)-1)]
		i++

		return now
	}

	ctx, cancel := context.WithCancel(context.Background())
	waits := 0
	ticker.wait = func(_ context.Context, d time.Duration) error {
		waits++
		if waits > 2 {
			cancel()
			return context.Canceled
		}

		assert.Positive(t, d)

		return nil
	}

	require.ErrorIs(t, ticker.Run(ctx), context.Canceled)
	require.NoError(t, loop.Do(context.Background(), func() {}))

	mu.Lock()
	defer mu.Unlock()

	require.Len(t, ticks, 2)
	assert.True(t, ticks[0].units.Has(MinuteUnit))
	assert.False(t, ticks[0].units.Has(HourUnit))
	assert.True(t, ticks[1].units.Has(MinuteUnit|HourUnit))
	assert.Equal(t, 14, ticks[1].now.Hour())
}
