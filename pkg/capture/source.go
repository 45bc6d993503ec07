package capture

import (
	"fmt"
	"sync"
	"time"
)

// RawKind identifies a raw input event before it is shaped into an action.
type RawKind string

const (
	RawMouseMove   RawKind = "mouse_move"
	RawMouseClick  RawKind = "mouse_click"
	RawMouseScroll RawKind = "mouse_scroll"
	RawKeyPress    RawKind = "key_press"
	RawKeyRelease  RawKind = "key_release"
	RawWindowFocus RawKind = "window_focus"
	RawAppSwitch   RawKind = "app_switch"
)

// RawEvent is one raw input event emitted by a capture source on its own
// producer goroutine. Sources buffer nothing: every event is dispatched to
// registered handlers synchronously.
type RawEvent struct {
	Kind      RawKind        `json:"kind"`
	Timestamp float64        `json:"timestamp"`
	Data      map[string]any `json:"data"`
	ID        string         `json:"id"`
}

// NewRawEvent stamps the current time and derives the id from kind and
// microsecond timestamp.
func NewRawEvent(kind RawKind, data map[string]any) RawEvent {
	if data == nil {
		data = make(map[string]any)
	}
	ts := nowSeconds()
	return RawEvent{
		Kind:      kind,
		Timestamp: ts,
		Data:      data,
		ID:        fmt.Sprintf("%s_%d", kind, int64(ts*1e6)),
	}
}

func nowSeconds() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

// Handler consumes one raw event on the producing goroutine.
type Handler func(RawEvent)

// Source is one stream of raw input events. Start reports false when the
// underlying facility is unavailable; that is not fatal to the process.
// Stop is idempotent: stopping an inactive source is a no-op success.
type Source interface {
	Start() bool
	Stop() bool
	Active() bool
	AddHandler(h Handler)
}

// Emitter implements the handler fan-out shared by all sources. Handlers
// are snapshotted under the lock and invoked outside it; a panicking
// handler is recovered so it can never kill the producer goroutine.
type Emitter struct {
	mu       sync.Mutex
	handlers []Handler
}

// AddHandler registers a handler for every emitted event.
func (e *Emitter) AddHandler(h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, h)
}

// Emit delivers the event to every registered handler.
func (e *Emitter) Emit(event RawEvent) {
	e.mu.Lock()
	handlers := make([]Handler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.Unlock()

	for _, h := range handlers {
		safeInvoke(h, event)
	}
}

func safeInvoke(h Handler, event RawEvent) {
	defer func() {
		_ = recover()
	}()
	h(event)
}
