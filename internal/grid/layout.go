package grid

import (
	"errors"
	"fmt"
)

// Columns is the fixed column count of the dashboard grid.
const Columns = 3

// MinSpan and MaxSpan bound the valid column span set {1,2,3}.
const (
	MinSpan = 1
	MaxSpan = Columns
)

// ErrInvalidPosition reports a placement outside the 3-column grid.
var ErrInvalidPosition = errors.New("invalid position")

// Position is the placement of a single widget in the grid.
type Position struct {
	Row        int      `json:"row" yaml:"row"`
	Column     int      `json:"column" yaml:"column"`
	ColumnSpan int      `json:"columnSpan" yaml:"column_span"`
	Height     *float64 `json:"height,omitempty" yaml:"height,omitempty"`
}

// Validate checks the position against the grid bounds.
func (p Position) Validate() error {
	switch {
	case p.Row < 0:
		return fmt.Errorf("%w: row %d is negative", ErrInvalidPosition, p.Row)
	case p.Column < 0:
		return fmt.Errorf("%w: column %d is negative", ErrInvalidPosition, p.Column)
	case p.ColumnSpan < MinSpan || p.ColumnSpan > MaxSpan:
		return fmt.Errorf("%w: column span %d outside [%d,%d]", ErrInvalidPosition, p.ColumnSpan, MinSpan, MaxSpan)
	case p.Column+p.ColumnSpan > Columns:
		return fmt.Errorf("%w: column %d + span %d exceeds %d columns", ErrInvalidPosition, p.Column, p.ColumnSpan, Columns)
	}
	return nil
}

// Layout maps widget ids to their positions. It is the single source of
// truth for placement; values are never mutated in place.
type Layout struct {
	Columns int                 `json:"columns"`
	Gap     float64             `json:"gap"`
	Widgets map[string]Position `json:"widgets"`
}

// New returns an empty layout with the given gap.
func New(gap float64) Layout {
	return Layout{Columns: Columns, Gap: gap, Widgets: map[string]Position{}}
}

// Position returns the placement of a widget.
func (l Layout) Position(widgetID string) (Position, bool) {
	p, ok := l.Widgets[widgetID]
	return p, ok
}

// Len returns the number of placed widgets.
func (l Layout) Len() int {
	return len(l.Widgets)
}

// Clone returns a deep copy of the layout.
func (l Layout) Clone() Layout {
	out := Layout{Columns: Columns, Gap: l.Gap, Widgets: make(map[string]Position, len(l.Widgets))}
	for id, p := range l.Widgets {
		out.Widgets[id] = p.copy()
	}
	return out
}

func (p Position) copy() Position {
	if p.Height != nil {
		h := *p.Height
		p.Height = &h
	}
	return p
}

// Place inserts or overwrites the position of a widget. An out-of-bounds
// position is rejected and the input layout is left untouched.
func Place(l Layout, widgetID string, pos Position) (Layout, error) {
	if err := pos.Validate(); err != nil {
		return l, fmt.Errorf("placing %s: %w", widgetID, err)
	}
	out := l.Clone()
	out.Widgets[widgetID] = pos.copy()
	return out, nil
}

// Remove drops a widget from the layout. Removing an absent widget is a no-op.
func Remove(l Layout, widgetID string) Layout {
	out := l.Clone()
	delete(out.Widgets, widgetID)
	return out
}

// Reorder reassigns rows and columns by packing the widgets of order, in
// sequence, into the grid. Each widget keeps its span and height hint;
// widgets without a valid span in l get span 1. Widgets of l missing from
// order are dropped, and repeated ids are placed once.
func Reorder(l Layout, order []string) Layout {
	out := Layout{Columns: Columns, Gap: l.Gap, Widgets: make(map[string]Position, len(order))}
	packer := NewPacker()
	for _, id := range order {
		if _, seen := out.Widgets[id]; seen {
			continue
		}
		prev, ok := l.Widgets[id]
		span := prev.ColumnSpan
		if !ok || span < MinSpan || span > MaxSpan {
			span = MinSpan
		}
		row, col := packer.Place(span)
		pos := Position{Row: row, Column: col, ColumnSpan: span, Height: prev.Height}
		out.Widgets[id] = pos.copy()
	}
	return out
}

// ClampSpan bounds a span to the valid range.
func ClampSpan(span int) int {
	if span < MinSpan {
		return MinSpan
	}
	if span > MaxSpan {
		return MaxSpan
	}
	return span
}
