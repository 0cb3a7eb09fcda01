// Package host provides the single logical thread the watchface callbacks run on,
// plus the minute ticker feeding it.
package host

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// ErrStopped is returned by Do once the loop has stopped.
var ErrStopped = errors.New("host loop stopped")

// Loop runs posted callbacks strictly one at a time, in posting order.
type Loop struct {
	jobs    chan func()
	stopped chan struct{}
}

// NewLoop returns a loop buffering up to size callbacks.
func NewLoop(size int) *Loop {
	return &Loop{
		jobs:    make(chan func(), size),
		stopped: make(chan struct{}),
	}
}

// Run executes callbacks until ctx is done. A panicking callback is logged and the
// loop carries on.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.stopped)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err() //nolint:wrapcheck
		case fn := <-l.jobs:
			l.run(fn)
		}
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Err(fmt.Errorf("%v", r)).Msg("host callback panicked") //nolint:goerr113
		}
	}()

	fn()
}

// Post schedules fn. It blocks while the buffer is full and returns false once the
// loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.stopped:
		return false
	default:
	}

	select {
	case l.jobs <- fn:
		return true
	case <-l.stopped:
		return false
	}
}

// Do runs fn on the loop and waits for it to finish. When ctx ends or the loop stops
// before fn was dequeued, fn never runs and the error is returned. Once fn has
// started, Do waits for it and returns nil.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	var claimed atomic.Bool

	done := make(chan struct{})

	posted := l.Post(func() {
		if !claimed.CompareAndSwap(false, true) {
			return
		}

		defer close(done)
		fn()
	})
	if !posted {
		return ErrStopped
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		if claimed.CompareAndSwap(false, true) {
			return ctx.Err() //nolint:wrapcheck
		}
	case <-l.stopped:
		if claimed.CompareAndSwap(false, true) {
			return ErrStopped
		}
	}

	<-done

	return nil
}
