package capture

import "sync"

// Replay feeds a prerecorded raw-event slice to its handlers. Start emits
// every event synchronously in order and leaves the source inactive again,
// which makes it suitable for batch reduction runs and tests.
type Replay struct {
	Emitter

	events []RawEvent

	mu     sync.Mutex
	active bool
}

// NewReplay creates a replay source over the given events.
func NewReplay(events []RawEvent) *Replay {
	return &Replay{events: events}
}

func (r *Replay) Start() bool {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return true
	}
	r.active = true
	r.mu.Unlock()

	for _, event := range r.events {
		r.Emit(event)
	}

	r.mu.Lock()
	r.active = false
	r.mu.Unlock()
	return true
}

func (r *Replay) Stop() bool { return true }

func (r *Replay) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}
