package events

import (
	"fmt"
	"time"
)

// EventType identifies the kind of event flowing through the bus.
type EventType string

const (
	// Recording lifecycle events.
	EventRecordingStarted EventType = "recording.started"
	EventRecordingStopped EventType = "recording.stopped"
	EventRecordingPaused  EventType = "recording.paused"
	EventRecordingResumed EventType = "recording.resumed"

	// Input events.
	EventMouseMoved   EventType = "input.mouse_moved"
	EventMouseClicked EventType = "input.mouse_clicked"
	EventKeyPressed   EventType = "input.key_pressed"
	EventScroll       EventType = "input.scroll"

	// System events.
	EventWindowChanged EventType = "system.window_changed"
	EventAppSwitched   EventType = "system.app_switched"
	EventScreenChanged EventType = "system.screen_changed"

	// Processing events.
	EventProcessed      EventType = "processing.event_processed"
	EventBatchCompleted EventType = "processing.batch_completed"
	EventErrorOccurred  EventType = "processing.error_occurred"

	// File events.
	EventFileCreated EventType = "file.created"
	EventFileSaved   EventType = "file.saved"
	EventFileDeleted EventType = "file.deleted"

	// Accessibility events.
	EventA11yTreeUpdated EventType = "a11y.tree_updated"
	EventElementFocused  EventType = "a11y.element_focused"
)

// Event is a single bus message. The ID is derived from the type and the
// microsecond timestamp; two same-type events within the same microsecond
// share an id.
type Event struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Source    string         `json:"source"`
	Payload   map[string]any `json:"payload"`
	ID        string         `json:"id"`
}

// NewEvent creates an Event stamped with the current time.
func NewEvent(typ EventType, source string, payload map[string]any) Event {
	if payload == nil {
		payload = make(map[string]any)
	}
	now := time.Now()
	return Event{
		Type:      typ,
		Timestamp: now,
		Source:    source,
		Payload:   payload,
		ID:        eventID(typ, now),
	}
}

func eventID(typ EventType, t time.Time) string {
	return fmt.Sprintf("%s_%d", typ, t.UnixMicro())
}
