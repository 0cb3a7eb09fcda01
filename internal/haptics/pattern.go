// Package haptics queues vibration patterns for the motor.
package haptics

import (
	"time"
)

// Pattern is a named sequence of alternating on and off segments, starting with on.
type Pattern struct {
	Name     string
	Segments []time.Duration
}

// Duration is the total run time of the pattern.
func (p Pattern) Duration() time.Duration {
	var d time.Duration
	for _, s := range p.Segments {
		d += s
	}

	return d
}

var (
	// Disconnect is played when the phone connection drops.
	Disconnect = Pattern{
		Name:     "disconnect",
		Segments: []time.Duration{800 * time.Millisecond, 100 * time.Millisecond, 300 * time.Millisecond},
	}

	// Hourly is the double pulse played at the top of the hour.
	Hourly = Pattern{
		Name:     "hourly",
		Segments: []time.Duration{100 * time.Millisecond, 100 * time.Millisecond, 100 * time.Millisecond},
	}
)

// Vibrator accepts patterns. Enqueue never blocks.
type Vibrator interface {
	Enqueue(p Pattern)
}
