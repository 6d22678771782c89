package progress

import "sync"

// Recorder keeps the append-only event sequence for one job. The job's own
// goroutine is the only writer; progress queries read through Snapshot, which
// returns a copy so callers can never observe a partially appended sequence.
type Recorder struct {
	mu     sync.RWMutex
	events []Event
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Emit appends evt, satisfying the Emitter interface.
func (r *Recorder) Emit(evt Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

// Snapshot returns a copy of all events appended so far, in order.
func (r *Recorder) Snapshot() []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Len reports the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}
