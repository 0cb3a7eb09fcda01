package haptics

import "sync"

// Recorder is a Vibrator remembering every enqueued pattern, for tests and dry runs.
type Recorder struct {
	mu       sync.Mutex
	patterns []Pattern
}

// Enqueue implements Vibrator.
func (r *Recorder) Enqueue(p Pattern) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.patterns = append(r.patterns, p)
}

// Names returns the names of the recorded patterns in order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, len(r.patterns))
	for i, p := range r.patterns {
		names[i] = p.Name
	}

	return names
}

// Reset forgets all recorded patterns.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.patterns = nil
}
