package recorder

import (
	"github.com/agentnet/recorder/pkg/action"
	"github.com/agentnet/recorder/pkg/capture"
	"github.com/agentnet/recorder/pkg/events"
)

// inputEventType maps a raw capture kind to the bus event type it is
// announced as.
func inputEventType(kind capture.RawKind) events.EventType {
	switch kind {
	case capture.RawMouseMove:
		return events.EventMouseMoved
	case capture.RawMouseClick:
		return events.EventMouseClicked
	case capture.RawMouseScroll:
		return events.EventScroll
	case capture.RawKeyPress, capture.RawKeyRelease:
		return events.EventKeyPressed
	case capture.RawWindowFocus:
		return events.EventWindowChanged
	case capture.RawAppSwitch:
		return events.EventAppSwitched
	default:
		return events.EventProcessed
	}
}

// toAction shapes a raw event into an action payload. Events that carry no
// action semantics (window focus, key releases, button releases) return
// ok=false.
func (r *Recorder) toAction(raw capture.RawEvent) (action.Data, bool) {
	switch raw.Kind {
	case capture.RawMouseMove:
		return action.Data{
			Kind:        action.Move,
			Timestamp:   raw.Timestamp,
			Coordinates: pointFrom(raw.Data),
		}, true

	case capture.RawMouseClick:
		pressed, _ := raw.Data["pressed"].(bool)
		if !pressed {
			return action.Data{}, false
		}
		d := action.Data{
			Kind:        action.Click,
			Timestamp:   raw.Timestamp,
			Coordinates: pointFrom(raw.Data),
			Metadata:    map[string]any{},
		}
		if button, ok := raw.Data["button"].(string); ok {
			d.Metadata["button"] = button
		}
		if r.session.Config.GenerateElementA11y && r.provider != nil {
			if tree, err := r.provider.AccessibilityTree(); err == nil {
				d.ElementInfo = tree
			}
		}
		return d, true

	case capture.RawMouseScroll:
		dy := intFrom(raw.Data, "dy")
		if !r.session.Config.NaturalScrolling {
			// Non-natural setups report inverted wheel deltas; normalize
			// so stored scrolls always mean content direction.
			dy = -dy
		}
		return action.Data{
			Kind:        action.Scroll,
			Timestamp:   raw.Timestamp,
			Coordinates: pointFrom(raw.Data),
			Scroll:      &action.ScrollDelta{DX: intFrom(raw.Data, "dx"), DY: dy},
		}, true

	case capture.RawKeyPress:
		key, _ := raw.Data["key"].(map[string]any)
		if key["type"] == "char" {
			text, _ := key["value"].(string)
			return action.Data{
				Kind:      action.Type,
				Timestamp: raw.Timestamp,
				Text:      text,
			}, true
		}
		return action.Data{
			Kind:      action.Press,
			Timestamp: raw.Timestamp,
			KeyInfo:   key,
		}, true

	default:
		return action.Data{}, false
	}
}

func pointFrom(data map[string]any) *action.Point {
	x, okX := numFrom(data, "x")
	y, okY := numFrom(data, "y")
	if !okX || !okY {
		return nil
	}
	return &action.Point{X: x, Y: y}
}

func intFrom(data map[string]any, key string) int {
	n, _ := numFrom(data, key)
	return n
}

func numFrom(data map[string]any, key string) (int, bool) {
	switch v := data[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
