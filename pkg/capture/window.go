package capture

import (
	"reflect"
	"sync"
	"time"
)

// joinTimeout bounds how long Stop waits for the polling goroutine.
const joinTimeout = time.Second

// WindowProvider is the slice of the platform provider the window poller
// needs.
type WindowProvider interface {
	WindowInfo() (map[string]any, error)
}

// WindowSource polls the focused window on a fixed interval and emits a
// window_focus event whenever it changes. The first observed window is
// recorded silently.
type WindowSource struct {
	Emitter

	provider WindowProvider
	interval time.Duration

	mu     sync.Mutex
	active bool
	stop   chan struct{}
	done   chan struct{}
}

// NewWindowSource creates a poller. A non-positive interval defaults to
// 500ms.
func NewWindowSource(provider WindowProvider, interval time.Duration) *WindowSource {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &WindowSource{provider: provider, interval: interval}
}

func (w *WindowSource) Active() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// Start launches the polling goroutine. Starting an active source is a
// no-op success; a missing provider reports failure.
func (w *WindowSource) Start() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.active {
		return true
	}
	if w.provider == nil {
		return false
	}

	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	w.active = true
	go w.poll(w.stop, w.done)
	return true
}

// Stop halts polling and joins the goroutine with a bounded timeout so a
// wedged provider call cannot hang shutdown indefinitely.
func (w *WindowSource) Stop() bool {
	w.mu.Lock()
	if !w.active {
		w.mu.Unlock()
		return true
	}
	w.active = false
	close(w.stop)
	done := w.done
	w.mu.Unlock()

	select {
	case <-done:
		return true
	case <-time.After(joinTimeout):
		return false
	}
}

func (w *WindowSource) poll(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var last map[string]any
	first := true

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		current, err := w.provider.WindowInfo()
		if err != nil {
			continue
		}
		if reflect.DeepEqual(current, last) {
			continue
		}

		if !first {
			w.Emit(NewRawEvent(RawWindowFocus, map[string]any{
				"previous_window": last,
				"current_window":  current,
			}))
		}
		last = current
		first = false
	}
}
