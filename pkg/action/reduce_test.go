package action

import "testing"

func TestReduceEndToEnd(t *testing.T) {
	f := NewFactory()

	in := []*Action{
		moveAt(t, f, 0.0, 10, 10),
		moveAt(t, f, 0.05, 20, 20),
		mustCreate(t, f, Data{Kind: Click, Timestamp: 0.2, Coordinates: &Point{X: 20, Y: 20}}),
		mustCreate(t, f, Data{Kind: Type, Timestamp: 1.0, Text: "Hi"}),
		mustCreate(t, f, Data{Kind: Type, Timestamp: 1.4, Text: " there"}),
	}

	out := Reduce(in)

	if len(out) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(out))
	}
	if out[0].Kind != Move || out[0].Timestamp != 0.05 || out[0].Coordinates.X != 20 {
		t.Errorf("unexpected first action: %+v", out[0])
	}
	if out[1].Kind != Click || out[1].Timestamp != 0.2 {
		t.Errorf("unexpected second action: %+v", out[1])
	}
	if out[2].Kind != Type || out[2].Text != "Hi there" || out[2].Timestamp != 1.4 {
		t.Errorf("unexpected third action: %+v", out[2])
	}
}

func TestReduceEmptyAndSingle(t *testing.T) {
	f := NewFactory()

	if out := Reduce(nil); len(out) != 0 {
		t.Errorf("expected empty output, got %d", len(out))
	}

	single := []*Action{moveAt(t, f, 0.0, 1, 1)}
	out := Reduce(single)
	if len(out) != 1 || out[0] != single[0] {
		t.Errorf("single action must pass through unchanged")
	}
}

func TestReduceNeverReorders(t *testing.T) {
	f := NewFactory()

	// Nothing here is mergeable, so output must equal input exactly.
	in := []*Action{
		mustCreate(t, f, Data{Kind: Click, Timestamp: 0.0}),
		moveAt(t, f, 0.5, 1, 1),
		mustCreate(t, f, Data{Kind: Press, Timestamp: 1.0}),
		moveAt(t, f, 2.0, 2, 2),
		mustCreate(t, f, Data{Kind: Click, Timestamp: 3.0}),
	}

	out := Reduce(in)
	if len(out) != len(in) {
		t.Fatalf("expected %d actions, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("position %d reordered: %+v", i, out[i])
		}
	}
}

func TestReduceNeverIncreasesLength(t *testing.T) {
	f := NewFactory()

	var in []*Action
	for i := 0; i < 100; i++ {
		in = append(in, moveAt(t, f, float64(i)*0.01, i, i))
	}
	// Every adjacent pair is within 100ms, so the run collapses to one.
	out := Reduce(in)
	if len(out) != 1 {
		t.Fatalf("expected 1 merged move, got %d", len(out))
	}
	if out[0].Coordinates.X != 99 {
		t.Errorf("expected final position kept, got %+v", out[0].Coordinates)
	}
}

func TestReducerStreaming(t *testing.T) {
	f := NewFactory()
	r := NewReducer()

	if _, ok := r.Push(moveAt(t, f, 0.0, 1, 1)); ok {
		t.Error("first push must not emit")
	}
	if _, ok := r.Push(moveAt(t, f, 0.05, 2, 2)); ok {
		t.Error("mergeable push must not emit")
	}

	emitted, ok := r.Push(mustCreate(t, f, Data{Kind: Click, Timestamp: 0.2}))
	if !ok {
		t.Fatal("incompatible push must emit the pending action")
	}
	if emitted.Kind != Move || emitted.Coordinates.X != 2 {
		t.Errorf("expected merged move emitted, got %+v", emitted)
	}

	flushed, ok := r.Flush()
	if !ok || flushed.Kind != Click {
		t.Errorf("expected pending click on flush, got %+v", flushed)
	}
	if _, ok := r.Flush(); ok {
		t.Error("second flush must be empty")
	}
}
