package capture

import (
	"sync"
	"testing"
	"time"
)

func TestEmitterFanOut(t *testing.T) {
	var e Emitter

	var a, b int
	e.AddHandler(func(RawEvent) { a++ })
	e.AddHandler(func(RawEvent) { b++ })

	e.Emit(NewRawEvent(RawMouseMove, nil))

	if a != 1 || b != 1 {
		t.Errorf("expected each handler invoked once, got %d and %d", a, b)
	}
}

func TestEmitterHandlerPanicIsolated(t *testing.T) {
	var e Emitter

	var delivered bool
	e.AddHandler(func(RawEvent) { panic("bad handler") })
	e.AddHandler(func(RawEvent) { delivered = true })

	e.Emit(NewRawEvent(RawKeyPress, nil))

	if !delivered {
		t.Error("panicking handler must not block later handlers")
	}
}

func TestNewRawEventDefaults(t *testing.T) {
	ev := NewRawEvent(RawMouseClick, nil)
	if ev.Data == nil {
		t.Error("data must never be nil")
	}
	if ev.Timestamp <= 0 {
		t.Error("timestamp must be stamped")
	}
	if ev.ID == "" {
		t.Error("id must be derived")
	}
}

// scriptedWindows returns a different window on each call.
type scriptedWindows struct {
	mu    sync.Mutex
	calls int
}

func (s *scriptedWindows) WindowInfo() (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return map[string]any{"title": s.calls}, nil
}

func TestWindowSourceEmitsOnChange(t *testing.T) {
	src := NewWindowSource(&scriptedWindows{}, 5*time.Millisecond)

	events := make(chan RawEvent, 16)
	src.AddHandler(func(ev RawEvent) { events <- ev })

	if !src.Start() {
		t.Fatal("start failed")
	}
	defer src.Stop()

	select {
	case ev := <-events:
		if ev.Kind != RawWindowFocus {
			t.Errorf("expected window_focus, got %s", ev.Kind)
		}
		if ev.Data["previous_window"] == nil || ev.Data["current_window"] == nil {
			t.Errorf("expected previous and current windows, got %v", ev.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for window change")
	}
}

func TestWindowSourceStopIdempotent(t *testing.T) {
	src := NewWindowSource(&scriptedWindows{}, 5*time.Millisecond)

	// Stopping an inactive source is a no-op success.
	if !src.Stop() {
		t.Error("stop on inactive source must succeed")
	}

	if !src.Start() {
		t.Fatal("start failed")
	}
	if !src.Start() {
		t.Error("start on active source must succeed")
	}
	if !src.Stop() {
		t.Error("stop failed")
	}
	if src.Active() {
		t.Error("source still active after stop")
	}
	if !src.Stop() {
		t.Error("second stop must succeed")
	}
}

func TestWindowSourceWithoutProvider(t *testing.T) {
	src := NewWindowSource(nil, time.Millisecond)
	if src.Start() {
		t.Error("start without provider must report failure")
	}
}

func TestCompositeForwardsAndControls(t *testing.T) {
	replayA := NewReplay([]RawEvent{NewRawEvent(RawMouseMove, nil)})
	replayB := NewReplay([]RawEvent{NewRawEvent(RawKeyPress, nil)})
	comp := NewComposite(replayA, replayB)

	var kinds []RawKind
	comp.AddHandler(func(ev RawEvent) { kinds = append(kinds, ev.Kind) })

	if !comp.Start() {
		t.Fatal("composite start failed")
	}
	if len(kinds) != 2 {
		t.Fatalf("expected 2 forwarded events, got %d", len(kinds))
	}
	if kinds[0] != RawMouseMove || kinds[1] != RawKeyPress {
		t.Errorf("unexpected forwarding order: %v", kinds)
	}

	if !comp.Stop() {
		t.Error("composite stop failed")
	}
}

func TestReplayEmitsInOrder(t *testing.T) {
	events := []RawEvent{
		NewRawEvent(RawMouseMove, map[string]any{"seq": 0}),
		NewRawEvent(RawMouseMove, map[string]any{"seq": 1}),
		NewRawEvent(RawMouseClick, map[string]any{"seq": 2}),
	}
	src := NewReplay(events)

	var got []int
	src.AddHandler(func(ev RawEvent) { got = append(got, ev.Data["seq"].(int)) })

	if !src.Start() {
		t.Fatal("replay start failed")
	}
	if src.Active() {
		t.Error("replay must be inactive after draining")
	}
	for i, seq := range got {
		if seq != i {
			t.Errorf("event %d out of order: %d", i, seq)
		}
	}
	if len(got) != 3 {
		t.Errorf("expected 3 events, got %d", len(got))
	}
}
