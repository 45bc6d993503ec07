package recorder

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/agentnet/recorder/pkg/action"
	"github.com/agentnet/recorder/pkg/capture"
	"github.com/agentnet/recorder/pkg/events"
	"github.com/agentnet/recorder/pkg/platform"
	"github.com/agentnet/recorder/pkg/session"
)

// Store is the persistence boundary the recorder writes through. Declared
// here to avoid a dependency on the concrete store.
type Store interface {
	AppendAction(sessionID string, action map[string]any) error
	SaveSession(sessionID string, snapshot map[string]any) error
}

// Options wires a Recorder together. Session is required; the remaining
// fields default to fresh instances (and a no-op store).
type Options struct {
	Session  *session.Session
	Bus      *events.Bus
	Factory  *action.Factory
	Store    Store
	Provider platform.Provider
	Sources  []capture.Source
	Logger   *slog.Logger
}

// Recorder is the single coordinator for one recording run: it converts raw
// capture events into actions, folds them through the reducer, publishes
// the merged stream on the bus, and persists it. It replaces the original
// design's global singletons with one explicitly constructed object.
type Recorder struct {
	bus      *events.Bus
	factory  *action.Factory
	reducer  *action.Reducer
	session  *session.Session
	store    Store
	provider platform.Provider
	sources  []capture.Source
	log      *slog.Logger

	// mu serializes the reduce/persist path across producer goroutines;
	// it also covers session mutation, which has no internal locking.
	mu sync.Mutex
}

// New builds a Recorder and subscribes the session's event counter to
// input traffic on the bus.
func New(opts Options) (*Recorder, error) {
	if opts.Session == nil {
		return nil, fmt.Errorf("recorder: session is required")
	}

	r := &Recorder{
		bus:      opts.Bus,
		factory:  opts.Factory,
		reducer:  action.NewReducer(),
		session:  opts.Session,
		store:    opts.Store,
		provider: opts.Provider,
		sources:  opts.Sources,
		log:      opts.Logger,
	}
	if r.bus == nil {
		r.bus = events.NewBus()
	}
	if r.factory == nil {
		r.factory = action.NewFactory()
	}
	if r.log == nil {
		r.log = slog.Default()
	}

	for _, typ := range []events.EventType{
		events.EventMouseMoved,
		events.EventMouseClicked,
		events.EventKeyPressed,
		events.EventScroll,
	} {
		r.bus.Subscribe(typ, func(events.Event) {
			r.session.IncrementEventCount()
		})
	}

	for _, src := range r.sources {
		src.AddHandler(r.handleRaw)
	}

	return r, nil
}

// Bus exposes the event bus for additional subscribers (UI feedback,
// extra persistence).
func (r *Recorder) Bus() *events.Bus { return r.bus }

// Session exposes the governed session.
func (r *Recorder) Session() *session.Session { return r.session }

// Start prepares the session, begins recording, and starts every capture
// source. A source that fails to start is logged and skipped; recording
// proceeds with the remaining sources.
func (r *Recorder) Start() error {
	r.mu.Lock()
	if !r.session.Prepare() {
		r.mu.Unlock()
		return fmt.Errorf("recorder: prepare rejected in state %s", r.session.State())
	}
	if !r.session.Start() {
		r.mu.Unlock()
		return fmt.Errorf("recorder: start rejected in state %s", r.session.State())
	}
	// Sources are started outside the lock: a synchronous source delivers
	// events on this call path, and delivery takes the lock.
	r.mu.Unlock()

	for _, src := range r.sources {
		if !src.Start() {
			r.log.Warn("capture source unavailable", "source", fmt.Sprintf("%T", src))
		}
	}

	r.bus.CreateEvent(events.EventRecordingStarted, "recorder", map[string]any{
		"session_id": r.session.ID,
	})
	return nil
}

// Pause suspends recording; raw events arriving while paused are dropped.
func (r *Recorder) Pause() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.session.Pause() {
		return false
	}
	r.bus.CreateEvent(events.EventRecordingPaused, "recorder", map[string]any{
		"session_id": r.session.ID,
	})
	return true
}

// Resume continues a paused recording.
func (r *Recorder) Resume() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.session.Resume() {
		return false
	}
	r.bus.CreateEvent(events.EventRecordingResumed, "recorder", map[string]any{
		"session_id": r.session.ID,
	})
	return true
}

// Stop halts capture, flushes the reducer, completes the session, and
// persists the final snapshot.
func (r *Recorder) Stop() error {
	for _, src := range r.sources {
		if !src.Stop() {
			r.log.Warn("capture source did not stop cleanly", "source", fmt.Sprintf("%T", src))
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.session.Stop() {
		return fmt.Errorf("recorder: stop rejected in state %s", r.session.State())
	}

	if final, ok := r.reducer.Flush(); ok {
		r.emit(final)
	}

	if !r.session.Complete() {
		return fmt.Errorf("recorder: complete rejected in state %s", r.session.State())
	}

	r.bus.CreateEvent(events.EventBatchCompleted, "recorder", map[string]any{
		"session_id":  r.session.ID,
		"event_count": r.session.EventCount(),
	})
	r.bus.CreateEvent(events.EventRecordingStopped, "recorder", map[string]any{
		"session_id": r.session.ID,
	})

	if r.store != nil {
		if err := r.store.SaveSession(r.session.ID, r.session.Snapshot()); err != nil {
			return fmt.Errorf("recorder: save session: %w", err)
		}
	}
	return nil
}

// Reset returns the session to IDLE for another run.
func (r *Recorder) Reset() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reducer = action.NewReducer()
	return r.session.Reset()
}

// Snapshot returns the session's inspectable state.
func (r *Recorder) Snapshot() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.Snapshot()
}

// handleRaw runs on a capture source's producer goroutine for every raw
// event.
func (r *Recorder) handleRaw(raw capture.RawEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.session.Active() {
		return
	}

	r.bus.CreateEvent(inputEventType(raw.Kind), string(raw.Kind), raw.Data)

	data, ok := r.toAction(raw)
	if !ok {
		return
	}

	act, err := r.factory.Create(data)
	if err != nil {
		r.log.Warn("discarding raw event", "kind", string(raw.Kind), "error", err)
		return
	}

	if emitted, ok := r.reducer.Push(act); ok {
		r.emit(emitted)
	}
}

// emit publishes one merged action and appends it to the store. Callers
// hold r.mu.
func (r *Recorder) emit(a *action.Action) {
	wire := a.ToMap()
	r.bus.CreateEvent(events.EventProcessed, "recorder", map[string]any{
		"action": wire,
	})
	if r.store == nil {
		return
	}
	if err := r.store.AppendAction(r.session.ID, wire); err != nil {
		r.log.Error("persist action failed", "session", r.session.ID, "error", err)
	}
}
