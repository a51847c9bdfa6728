package strokedata

import (
	"encoding/json"
	"testing"
)

func TestParse(t *testing.T) {
	raw := json.RawMessage(`{"strokes":["M 1 2","M 3 4"],"medians":[[[1,2],[3,4]],[[5,6]]],"radStrokes":[1]}`)
	ch, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(ch.Strokes) != 2 {
		t.Fatalf("expected 2 strokes, got %d", len(ch.Strokes))
	}
	if ch.Medians[0][1] != [2]float64{3, 4} {
		t.Fatalf("unexpected median: %v", ch.Medians[0])
	}
	if !ch.IsRadicalStroke(1) || ch.IsRadicalStroke(0) {
		t.Fatalf("unexpected radical strokes: %v", ch.RadStrokes)
	}

	if _, err := Parse(json.RawMessage(`{"strokes":["a"],"medians":[[],[]]}`)); err == nil {
		t.Fatalf("expected mismatch error")
	}
	if _, err := Parse(nil); err == nil {
		t.Fatalf("expected error for empty data")
	}
}

func TestStrokeCount(t *testing.T) {
	if got := StrokeCount(json.RawMessage(`{"strokes":["a","b","c"]}`)); got != 3 {
		t.Fatalf("expected 3 strokes, got %d", got)
	}
	if got := StrokeCount(nil); got != 0 {
		t.Fatalf("expected 0 for nil, got %d", got)
	}
	if got := StrokeCount(json.RawMessage(`{}`)); got != 0 {
		t.Fatalf("expected 0 without strokes, got %d", got)
	}
}

func TestDirections(t *testing.T) {
	ch := Character{
		Strokes: []string{"a", "b", "c", "d", "e"},
		Medians: [][][2]float64{
			{{100, 500}, {900, 510}},
			{{500, 900}, {505, 100}},
			{{600, 700}, {200, 300}},
			{{300, 700}, {700, 300}},
			{{400, 400}},
		},
	}
	got := ch.Directions()
	want := []Direction{Right, Down, DownLeft, DownRight, Right}
	if len(got) != len(want) {
		t.Fatalf("expected %d directions, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stroke %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestDirectionKeys(t *testing.T) {
	for d := Right; d <= DownRight; d++ {
		back, ok := DirectionForKey(d.Key())
		if !ok || back != d {
			t.Fatalf("key %q did not map back to %s", d.Key(), d)
		}
	}
	if _, ok := DirectionForKey('5'); ok {
		t.Fatalf("5 has no direction")
	}
	if Down.String() != "↓" {
		t.Fatalf("unexpected arrow %s", Down)
	}
}
