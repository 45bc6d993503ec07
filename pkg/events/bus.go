package events

import (
	"fmt"
	"sync"
)

const (
	// maxHistory bounds the in-memory event history; oldest entries are
	// evicted first.
	maxHistory = 1000

	// maxErrorEventsPerPublish caps how many error events a single Publish
	// call may synthesize when several handlers fail at once.
	maxErrorEventsPerPublish = 8
)

// Handler consumes one event. A handler that panics is isolated by the bus:
// the panic is converted into an error event and never reaches the publisher.
type Handler func(Event)

// Subscription identifies one handler registration. The same handler
// function may be registered any number of times; each registration is
// invoked once per matching publish.
type Subscription struct {
	id      string
	typ     EventType
	global  bool
	handler Handler
}

// ID returns the registration identifier, used to attribute handler faults.
func (s *Subscription) ID() string { return s.id }

// Bus is an in-process publish/subscribe dispatcher with bounded history.
// Registry and history are guarded by a single lock; handlers are invoked
// outside the lock from a snapshot taken under it, so a handler may publish
// reentrantly and concurrent publishers do not serialize behind handler
// execution.
type Bus struct {
	mu       sync.Mutex
	handlers map[EventType][]*Subscription
	global   []*Subscription
	history  []Event
	nextID   int
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]*Subscription),
		history:  make([]Event, 0, 256),
	}
}

// Subscribe registers a handler for a single event type.
func (b *Bus) Subscribe(typ EventType, h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := b.newSubscription(typ, false, h)
	b.handlers[typ] = append(b.handlers[typ], sub)
	return sub
}

// SubscribeGlobal registers a handler for all event types.
func (b *Bus) SubscribeGlobal(h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := b.newSubscription("", true, h)
	b.global = append(b.global, sub)
	return sub
}

func (b *Bus) newSubscription(typ EventType, global bool, h Handler) *Subscription {
	b.nextID++
	return &Subscription{
		id:      fmt.Sprintf("sub_%d", b.nextID),
		typ:     typ,
		global:  global,
		handler: h,
	}
}

// Unsubscribe removes a registration. Unknown or already-removed
// subscriptions are a no-op.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if sub.global {
		b.global = removeSub(b.global, sub)
		return
	}
	b.handlers[sub.typ] = removeSub(b.handlers[sub.typ], sub)
}

func removeSub(subs []*Subscription, target *Subscription) []*Subscription {
	for i, s := range subs {
		if s == target {
			return append(subs[:i], subs[i+1:]...)
		}
	}
	return subs
}

// Publish appends the event to history and delivers it to every handler
// registered for its type, then to every global handler, each in
// registration order. Handler panics are absorbed and reported as
// error events; they never propagate to the caller.
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	b.history = append(b.history, event)
	if len(b.history) > maxHistory {
		b.history = b.history[1:]
	}

	subs := make([]*Subscription, 0, len(b.handlers[event.Type])+len(b.global))
	subs = append(subs, b.handlers[event.Type]...)
	subs = append(subs, b.global...)
	b.mu.Unlock()

	var faults []Event
	for _, sub := range subs {
		if fault, ok := b.invoke(sub, event); ok {
			faults = append(faults, fault)
		}
	}

	// An error event whose handlers fail must not spawn further error
	// events, and a burst of distinct failures in one publish is capped.
	if event.Type == EventErrorOccurred {
		return
	}
	if len(faults) > maxErrorEventsPerPublish {
		faults = faults[:maxErrorEventsPerPublish]
	}
	for _, fault := range faults {
		b.Publish(fault)
	}
}

// invoke runs one handler, converting a panic into an error event.
func (b *Bus) invoke(sub *Subscription, event Event) (fault Event, faulted bool) {
	defer func() {
		if r := recover(); r != nil {
			fault = NewEvent(EventErrorOccurred, "event_bus", map[string]any{
				"handler":       sub.id,
				"error":         fmt.Sprint(r),
				"source_event":  event.ID,
				"original_type": string(event.Type),
			})
			faulted = true
		}
	}()
	sub.handler(event)
	return Event{}, false
}

// CreateEvent constructs an event, publishes it, and returns it.
func (b *Bus) CreateEvent(typ EventType, source string, payload map[string]any) Event {
	event := NewEvent(typ, source, payload)
	b.Publish(event)
	return event
}

// History returns the most recent limit entries, most-recent-last. When typ
// is non-empty the window is filtered afterwards, so fewer than limit
// entries may be returned.
func (b *Bus) History(typ EventType, limit int) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if limit <= 0 || limit > len(b.history) {
		limit = len(b.history)
	}
	window := b.history[len(b.history)-limit:]

	result := make([]Event, 0, len(window))
	for _, e := range window {
		if typ == "" || e.Type == typ {
			result = append(result, e)
		}
	}
	return result
}

// ClearHistory drops all retained events.
func (b *Bus) ClearHistory() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history = b.history[:0]
}

// HandlerCount reports registrations for one type, or all registrations
// (including global handlers) when typ is empty.
func (b *Bus) HandlerCount(typ EventType) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if typ != "" {
		return len(b.handlers[typ])
	}
	total := len(b.global)
	for _, subs := range b.handlers {
		total += len(subs)
	}
	return total
}
