package action

import (
	"fmt"
	"sync"
)

// Constructor builds an Action from a payload, validating it for one kind.
type Constructor func(Data) (*Action, error)

// kindConstructor returns the default constructor for a kind: it rejects
// payloads tagged with any other kind and otherwise stamps a fresh id.
func kindConstructor(kind Kind) Constructor {
	return func(d Data) (*Action, error) {
		if d.Kind != kind {
			return nil, &ValidationError{Got: d.Kind, Want: kind}
		}
		return newAction(d), nil
	}
}

// Factory is a registry of per-kind action constructors. All built-in kinds
// are registered up front; Register extends the set at runtime without
// touching existing kinds.
type Factory struct {
	mu           sync.RWMutex
	constructors map[Kind]Constructor
}

// NewFactory creates a factory with every built-in kind registered.
func NewFactory() *Factory {
	f := &Factory{constructors: make(map[Kind]Constructor, 8)}
	for _, kind := range Kinds() {
		f.constructors[kind] = kindConstructor(kind)
	}
	return f
}

// Register installs a constructor for a kind, replacing any existing one.
func (f *Factory) Register(kind Kind, c Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.constructors[kind] = c
}

// Create builds an Action from the payload via the registered constructor.
func (f *Factory) Create(d Data) (*Action, error) {
	f.mu.RLock()
	c, ok := f.constructors[d.Kind]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, d.Kind)
	}
	return c(d)
}

// FromMap decodes the wire representation produced by ToMap. The serialized
// action_id is deliberately ignored; the id is always re-derived from the
// kind and timestamp.
func (f *Factory) FromMap(m map[string]any) (*Action, error) {
	kindName, _ := m["action_type"].(string)
	if kindName == "" {
		return nil, fmt.Errorf("%w: missing action_type", ErrUnknownKind)
	}

	d := Data{
		Kind:      Kind(kindName),
		Timestamp: toFloat(m["timestamp"]),
		Text:      toString(m["text"]),
	}
	if coords, ok := toIntPair(m["coordinates"]); ok {
		d.Coordinates = &Point{X: coords[0], Y: coords[1]}
	}
	if info, ok := m["element_info"].(map[string]any); ok {
		d.ElementInfo = info
	}
	if info, ok := m["key_info"].(map[string]any); ok {
		d.KeyInfo = info
	}
	if scroll, ok := m["scroll_info"].(map[string]any); ok {
		d.Scroll = &ScrollDelta{DX: toInt(scroll["dx"]), DY: toInt(scroll["dy"])}
	}
	if meta, ok := m["metadata"].(map[string]any); ok {
		d.Metadata = meta
	}

	return f.Create(d)
}

// ToMap converts the action to its wire representation: unset payload
// fields serialize as nil.
func (a *Action) ToMap() map[string]any {
	m := map[string]any{
		"action_type":  string(a.Kind),
		"timestamp":    a.Timestamp,
		"action_id":    a.ID,
		"coordinates":  nil,
		"text":         nil,
		"element_info": nil,
		"key_info":     nil,
		"scroll_info":  nil,
		"metadata":     a.Metadata,
	}
	if a.Coordinates != nil {
		m["coordinates"] = []int{a.Coordinates.X, a.Coordinates.Y}
	}
	if a.Text != "" {
		m["text"] = a.Text
	}
	if a.ElementInfo != nil {
		m["element_info"] = a.ElementInfo
	}
	if a.KeyInfo != nil {
		m["key_info"] = a.KeyInfo
	}
	if a.Scroll != nil {
		m["scroll_info"] = map[string]any{"dx": a.Scroll.DX, "dy": a.Scroll.DY}
	}
	return m
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}

// toIntPair accepts []int or the []any produced by JSON decoding.
func toIntPair(v any) ([2]int, bool) {
	switch pair := v.(type) {
	case []int:
		if len(pair) == 2 {
			return [2]int{pair[0], pair[1]}, true
		}
	case []any:
		if len(pair) == 2 {
			return [2]int{toInt(pair[0]), toInt(pair[1])}, true
		}
	}
	return [2]int{}, false
}
