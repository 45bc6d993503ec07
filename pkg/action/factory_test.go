package action

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestFactoryCreateUnknownKind(t *testing.T) {
	f := NewFactory()

	_, err := f.Create(Data{Kind: "TELEPORT", Timestamp: 1.0})
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestFactoryRegister(t *testing.T) {
	f := NewFactory()

	f.Register("HOVER", func(d Data) (*Action, error) {
		if d.Kind != "HOVER" {
			return nil, &ValidationError{Got: d.Kind, Want: "HOVER"}
		}
		return &Action{Data: d, ID: "hover"}, nil
	})

	a, err := f.Create(Data{Kind: "HOVER", Timestamp: 2.0})
	if err != nil {
		t.Fatalf("create registered kind: %v", err)
	}
	if a.Kind != "HOVER" {
		t.Errorf("expected HOVER, got %s", a.Kind)
	}

	// Existing kinds are untouched.
	if _, err := f.Create(Data{Kind: Move, Timestamp: 1.0}); err != nil {
		t.Errorf("built-in kind broken after Register: %v", err)
	}
}

func TestConstructorValidatesKind(t *testing.T) {
	ctor := kindConstructor(Move)

	var vErr *ValidationError
	if _, err := ctor(Data{Kind: Click, Timestamp: 1.0}); !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Got != Click || vErr.Want != Move {
		t.Errorf("unexpected error fields: %+v", vErr)
	}
}

func TestRoundTrip(t *testing.T) {
	f := NewFactory()

	original := mustCreate(t, f, Data{
		Kind:        Scroll,
		Timestamp:   3.25,
		Coordinates: &Point{X: 42, Y: 99},
		Scroll:      &ScrollDelta{DX: -2, DY: 7},
		ElementInfo: map[string]any{"role": "list"},
		KeyInfo:     map[string]any{"modifiers": "shift"},
		Metadata:    map[string]any{"app": "browser"},
	})

	decoded, err := f.FromMap(original.ToMap())
	if err != nil {
		t.Fatalf("from map: %v", err)
	}

	if decoded.Kind != original.Kind {
		t.Errorf("kind mismatch: %s vs %s", decoded.Kind, original.Kind)
	}
	if decoded.Timestamp != original.Timestamp {
		t.Errorf("timestamp mismatch: %v vs %v", decoded.Timestamp, original.Timestamp)
	}
	if *decoded.Coordinates != *original.Coordinates {
		t.Errorf("coordinates mismatch: %+v vs %+v", decoded.Coordinates, original.Coordinates)
	}
	if *decoded.Scroll != *original.Scroll {
		t.Errorf("scroll mismatch: %+v vs %+v", decoded.Scroll, original.Scroll)
	}
	if !reflect.DeepEqual(decoded.Metadata, original.Metadata) {
		t.Errorf("metadata mismatch: %v vs %v", decoded.Metadata, original.Metadata)
	}
	if !reflect.DeepEqual(decoded.ElementInfo, original.ElementInfo) {
		t.Errorf("element_info mismatch: %v vs %v", decoded.ElementInfo, original.ElementInfo)
	}
}

func TestRoundTripThroughJSON(t *testing.T) {
	f := NewFactory()

	original := mustCreate(t, f, Data{
		Kind:        Move,
		Timestamp:   1.5,
		Coordinates: &Point{X: 10, Y: 20},
	})

	raw, err := json.Marshal(original.ToMap())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	decoded, err := f.FromMap(m)
	if err != nil {
		t.Fatalf("from map: %v", err)
	}
	if decoded.Kind != Move || decoded.Timestamp != 1.5 {
		t.Errorf("unexpected decode: %+v", decoded)
	}
	if decoded.Coordinates == nil || decoded.Coordinates.X != 10 || decoded.Coordinates.Y != 20 {
		t.Errorf("coordinates lost through JSON: %+v", decoded.Coordinates)
	}
}

func TestFromMapDerivesFreshID(t *testing.T) {
	f := NewFactory()

	m := map[string]any{
		"action_type": "CLICK",
		"timestamp":   2.0,
		"action_id":   "CLICK_tampered",
	}
	decoded, err := f.FromMap(m)
	if err != nil {
		t.Fatalf("from map: %v", err)
	}
	if decoded.ID != "CLICK_2000000" {
		t.Errorf("expected id derived from kind+timestamp, got %s", decoded.ID)
	}
}

func TestFromMapMissingKind(t *testing.T) {
	f := NewFactory()

	if _, err := f.FromMap(map[string]any{"timestamp": 1.0}); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind for missing action_type, got %v", err)
	}
}

func TestToMapNullFields(t *testing.T) {
	f := NewFactory()

	a := mustCreate(t, f, Data{Kind: Wait, Timestamp: 1.0})
	m := a.ToMap()

	for _, field := range []string{"coordinates", "text", "element_info", "key_info", "scroll_info"} {
		if m[field] != nil {
			t.Errorf("expected %s to serialize as nil, got %v", field, m[field])
		}
	}
	if m["metadata"] == nil {
		t.Error("metadata must always be an object")
	}
}
