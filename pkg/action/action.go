package action

import (
	"fmt"
	"math"
)

// Kind identifies the type of a user action. The set is closed; new kinds
// are added by registering a constructor and, if needed, a merge rule.
type Kind string

const (
	Move       Kind = "MOVE"
	Click      Kind = "CLICK"
	Type       Kind = "TYPE"
	Press      Kind = "PRESS"
	Scroll     Kind = "SCROLL"
	Drag       Kind = "DRAG"
	Wait       Kind = "WAIT"
	Screenshot Kind = "SCREENSHOT"
)

// Kinds lists every built-in action kind.
func Kinds() []Kind {
	return []Kind{Move, Click, Type, Press, Scroll, Drag, Wait, Screenshot}
}

// Point is a screen coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ScrollDelta is an accumulated scroll offset.
type ScrollDelta struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// Data is the payload used to construct an Action.
type Data struct {
	Kind        Kind
	Timestamp   float64 // seconds
	Coordinates *Point
	Text        string
	ElementInfo map[string]any
	KeyInfo     map[string]any
	Scroll      *ScrollDelta
	Metadata    map[string]any
}

// Action is one discrete user action. The Kind never changes after
// construction. The ID is derived from the kind and the microsecond
// timestamp and is not guaranteed globally unique.
type Action struct {
	Data
	ID string
}

func deriveID(kind Kind, timestamp float64) string {
	return fmt.Sprintf("%s_%d", kind, int64(timestamp*1e6))
}

// newAction stamps an id; callers go through a Factory constructor for
// payload validation.
func newAction(d Data) *Action {
	if d.Metadata == nil {
		d.Metadata = make(map[string]any)
	}
	return &Action{Data: d, ID: deriveID(d.Kind, d.Timestamp)}
}

// mergeRule pairs the per-kind merge predicate with its combine function.
// Both are symmetric over call order; combine receives the pair already
// ordered by timestamp.
type mergeRule struct {
	canMerge func(a, b *Action) bool
	combine  func(earlier, later *Action) *Action
}

var mergeRules = map[Kind]mergeRule{
	Move: {
		canMerge: func(a, b *Action) bool {
			return math.Abs(a.Timestamp-b.Timestamp) < 0.1
		},
		combine: func(earlier, later *Action) *Action {
			// Keep the later position, discard the earlier one entirely.
			return later
		},
	},
	Type: {
		canMerge: func(a, b *Action) bool {
			return math.Abs(a.Timestamp-b.Timestamp) < 1.0
		},
		combine: func(earlier, later *Action) *Action {
			return newAction(Data{
				Kind:        Type,
				Timestamp:   later.Timestamp,
				Text:        earlier.Text + later.Text,
				ElementInfo: firstNonNil(later.ElementInfo, earlier.ElementInfo),
				Metadata:    mergeMetadata(earlier.Metadata, later.Metadata),
			})
		},
	},
	Scroll: {
		canMerge: func(a, b *Action) bool {
			if math.Abs(a.Timestamp-b.Timestamp) >= 0.5 {
				return false
			}
			if a.Coordinates == nil || b.Coordinates == nil {
				return true
			}
			dx := float64(a.Coordinates.X - b.Coordinates.X)
			dy := float64(a.Coordinates.Y - b.Coordinates.Y)
			return math.Hypot(dx, dy) < 50
		},
		combine: func(earlier, later *Action) *Action {
			sum := &ScrollDelta{}
			for _, a := range []*Action{earlier, later} {
				if a.Scroll != nil {
					sum.DX += a.Scroll.DX
					sum.DY += a.Scroll.DY
				}
			}
			return newAction(Data{
				Kind:        Scroll,
				Timestamp:   later.Timestamp,
				Coordinates: later.Coordinates,
				Scroll:      sum,
				ElementInfo: firstNonNil(later.ElementInfo, earlier.ElementInfo),
				Metadata:    mergeMetadata(earlier.Metadata, later.Metadata),
			})
		},
	},
	// Clicks are always emitted individually; the remaining kinds have no
	// specified merge semantics and default to never-mergeable.
	Click:      {},
	Press:      {},
	Drag:       {},
	Wait:       {},
	Screenshot: {},
}

// CanMergeWith reports whether other may be losslessly combined into a.
// A kind mismatch is always false, never an error.
func (a *Action) CanMergeWith(other *Action) bool {
	if other == nil || a.Kind != other.Kind {
		return false
	}
	rule, ok := mergeRules[a.Kind]
	if !ok || rule.canMerge == nil {
		return false
	}
	return rule.canMerge(a, other)
}

// MergeWith combines a with other according to the kind's merge rule. The
// result carries the later timestamp of the pair. Calling MergeWith when
// CanMergeWith is false returns a MergeError.
func (a *Action) MergeWith(other *Action) (*Action, error) {
	if !a.CanMergeWith(other) {
		otherKind := Kind("")
		if other != nil {
			otherKind = other.Kind
		}
		return nil, &MergeError{A: a.Kind, B: otherKind}
	}

	earlier, later := a, other
	if earlier.Timestamp > later.Timestamp {
		earlier, later = later, earlier
	}
	return mergeRules[a.Kind].combine(earlier, later), nil
}

func firstNonNil(a, b map[string]any) map[string]any {
	if a != nil {
		return a
	}
	return b
}

// mergeMetadata combines two metadata maps; later values win on collision.
func mergeMetadata(earlier, later map[string]any) map[string]any {
	merged := make(map[string]any, len(earlier)+len(later))
	for k, v := range earlier {
		merged[k] = v
	}
	for k, v := range later {
		merged[k] = v
	}
	return merged
}
