package host

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// TimeUnits flags which calendar units changed since the previous tick.
type TimeUnits uint8

// Time units.
const (
	SecondUnit TimeUnits = 1 << iota
	MinuteUnit
	HourUnit
	DayUnit
)

// Has reports whether all units in u2 are set.
func (u TimeUnits) Has(u2 TimeUnits) bool {
	return u&u2 == u2
}

// Changed returns the units that differ between prev and now.
func Changed(prev, now time.Time) TimeUnits {
	var u TimeUnits

	if prev.Second() != now.Second() {
		u |= SecondUnit
	}

	if prev.Minute() != now.Minute() || prev.Hour() != now.Hour() {
		u |= MinuteUnit
	}

	if prev.Hour() != now.Hour() {
		u |= HourUnit
	}

	if prev.YearDay() != now.YearDay() || prev.Year() != now.Year() {
		u |= DayUnit
	}

	return u
}

// NextMinute returns the start of the minute after t.
func NextMinute(t time.Time) time.Time {
	return t.Truncate(time.Minute).Add(time.Minute)
}

// TickHandler receives minute ticks on the loop.
type TickHandler func(now time.Time, units TimeUnits)

// Ticker posts a tick to the loop at the start of every minute.
type Ticker struct {
	loop    *Loop
	handler TickHandler
	now     func() time.Time
	wait    func(ctx context.Context, d time.Duration) error
}

// NewTicker returns a ticker posting to loop.
func NewTicker(loop *Loop, handler TickHandler) *Ticker {
	return &Ticker{
		loop:    loop,
		handler: handler,
		now:     time.Now,
		wait:    wait,
	}
}

// Run ticks until ctx is done or the loop stops.
func (t *Ticker) Run(ctx context.Context) error {
	prev := t.now()

	for {
		if err := t.wait(ctx, NextMinute(prev).Sub(t.now())); err != nil {
			return err
		}

		now := t.now()
		units := Changed(prev, now)
		prev = now

		if !units.Has(MinuteUnit) {
			continue
		}

		log.Trace().Time("now", now).Uint8("units", uint8(units)).Msg("tick")

		if !t.loop.Post(func() { t.handler(now, units) }) {
			return ErrStopped
		}
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck
	case <-timer.C:
		return nil
	}
}
