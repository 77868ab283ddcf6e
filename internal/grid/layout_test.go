package grid

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func floatPtr(f float64) *float64 { return &f }

func TestPlace(t *testing.T) {
	l := New(16)
	out, err := Place(l, "a", Position{Row: 0, Column: 1, ColumnSpan: 2})
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	p, ok := out.Position("a")
	if !ok {
		t.Fatal("widget 'a' not placed")
	}
	if p.Column != 1 || p.ColumnSpan != 2 {
		t.Errorf("position = %+v, want column 1 span 2", p)
	}
	if l.Len() != 0 {
		t.Errorf("input layout mutated: len = %d, want 0", l.Len())
	}

	// overwrite
	out, err = Place(out, "a", Position{Row: 2, Column: 0, ColumnSpan: 3})
	if err != nil {
		t.Fatalf("Place() overwrite error: %v", err)
	}
	if p, _ := out.Position("a"); p.Row != 2 || p.ColumnSpan != 3 {
		t.Errorf("overwritten position = %+v", p)
	}
}

func TestPlaceInvalid(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
	}{
		{"negative row", Position{Row: -1, Column: 0, ColumnSpan: 1}},
		{"negative column", Position{Row: 0, Column: -1, ColumnSpan: 1}},
		{"zero span", Position{Row: 0, Column: 0, ColumnSpan: 0}},
		{"span too wide", Position{Row: 0, Column: 0, ColumnSpan: 4}},
		{"overflow", Position{Row: 0, Column: 2, ColumnSpan: 2}},
		{"overflow full", Position{Row: 3, Column: 1, ColumnSpan: 3}},
	}
	base, _ := Place(New(8), "x", Position{Row: 0, Column: 0, ColumnSpan: 1})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Place(base, "y", tt.pos)
			if !errors.Is(err, ErrInvalidPosition) {
				t.Fatalf("Place() error = %v, want ErrInvalidPosition", err)
			}
			if !reflect.DeepEqual(out, base) {
				t.Errorf("layout modified on rejected place: %+v", out)
			}
		})
	}
}

func TestPlaceBoundProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	base := New(0)
	for i := 0; i < 500; i++ {
		span := rng.Intn(MaxSpan) + 1
		col := Columns - span + 1 + rng.Intn(4)
		_, err := Place(base, "w", Position{Row: rng.Intn(10), Column: col, ColumnSpan: span})
		if !errors.Is(err, ErrInvalidPosition) {
			t.Fatalf("Place(col=%d, span=%d) error = %v, want ErrInvalidPosition", col, span, err)
		}
	}
	if base.Len() != 0 {
		t.Errorf("base layout modified")
	}
}

func TestRemove(t *testing.T) {
	l, _ := Place(New(0), "a", Position{ColumnSpan: 1})
	out := Remove(l, "a")
	if out.Len() != 0 {
		t.Errorf("Remove() len = %d, want 0", out.Len())
	}
	if l.Len() != 1 {
		t.Errorf("input layout mutated")
	}
	// absent id is a no-op
	again := Remove(out, "missing")
	if !reflect.DeepEqual(again, out) {
		t.Errorf("Remove(missing) changed layout")
	}
}

func TestReorderPacking(t *testing.T) {
	l := New(16)
	l, _ = Place(l, "A", Position{ColumnSpan: 2})
	l, _ = Place(l, "B", Position{Row: 4, ColumnSpan: 2})
	l, _ = Place(l, "C", Position{Row: 9, Column: 2, ColumnSpan: 1})

	out := Reorder(l, []string{"A", "B", "C"})
	want := map[string]Position{
		"A": {Row: 0, Column: 0, ColumnSpan: 2},
		"B": {Row: 1, Column: 0, ColumnSpan: 2},
		"C": {Row: 1, Column: 2, ColumnSpan: 1},
	}
	if !reflect.DeepEqual(out.Widgets, want) {
		t.Errorf("Reorder() = %+v, want %+v", out.Widgets, want)
	}
	if out.Gap != 16 || out.Columns != Columns {
		t.Errorf("Reorder() gap/columns = %v/%d", out.Gap, out.Columns)
	}
}

func TestReorderIdempotent(t *testing.T) {
	l := New(0)
	spans := map[string]int{"a": 1, "b": 3, "c": 2, "d": 2, "e": 1}
	for id, s := range spans {
		l, _ = Place(l, id, Position{ColumnSpan: s})
	}
	order := []string{"c", "a", "e", "b", "d"}
	first := Reorder(l, order)
	second := Reorder(l, order)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Reorder() not deterministic")
	}
	if third := Reorder(first, order); !reflect.DeepEqual(first, third) {
		t.Errorf("Reorder() of packed layout changed it: %+v vs %+v", first, third)
	}
	for id, p := range first.Widgets {
		if err := p.Validate(); err != nil {
			t.Errorf("widget %s: %v", id, err)
		}
	}
}

func TestReorderKeepsHeightAndDefaults(t *testing.T) {
	l, _ := Place(New(0), "a", Position{ColumnSpan: 3, Height: floatPtr(400)})
	out := Reorder(l, []string{"new", "a", "new"})
	if p := out.Widgets["new"]; p.ColumnSpan != 1 || p.Row != 0 || p.Column != 0 {
		t.Errorf("unplaced widget = %+v, want span 1 at origin", p)
	}
	a := out.Widgets["a"]
	if a.Row != 1 || a.Height == nil || *a.Height != 400 {
		t.Errorf("widget a = %+v, want row 1 with height 400", a)
	}
	if out.Len() != 2 {
		t.Errorf("len = %d, want 2 (duplicates placed once)", out.Len())
	}
}

func TestReorderDropsUnlisted(t *testing.T) {
	l, _ := Place(New(0), "a", Position{ColumnSpan: 1})
	l, _ = Place(l, "b", Position{Column: 1, ColumnSpan: 1})
	out := Reorder(l, []string{"b"})
	if _, ok := out.Position("a"); ok {
		t.Error("unlisted widget 'a' still placed")
	}
}

func TestClampSpan(t *testing.T) {
	for in, want := range map[int]int{-5: 1, 0: 1, 1: 1, 2: 2, 3: 3, 4: 3, 99: 3} {
		if got := ClampSpan(in); got != want {
			t.Errorf("ClampSpan(%d) = %d, want %d", in, got, want)
		}
	}
}
