package resize

import (
	"fmt"
	"strings"
)

// Direction names the widget edge or corner being dragged.
type Direction string

const (
	Left        Direction = "left"
	Right       Direction = "right"
	Top         Direction = "top"
	Bottom      Direction = "bottom"
	TopLeft     Direction = "top-left"
	TopRight    Direction = "top-right"
	BottomLeft  Direction = "bottom-left"
	BottomRight Direction = "bottom-right"
)

// Directions lists all handle directions.
var Directions = []Direction{Left, Right, Top, Bottom, TopLeft, TopRight, BottomLeft, BottomRight}

// ParseDirection validates a direction tag.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range Directions {
		if v == d {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// horizontal is +1 when positive x grows the widget, -1 when negative x
// does, and 0 when the handle ignores x.
func (d Direction) horizontal() float64 {
	switch d {
	case Right, TopRight, BottomRight:
		return 1
	case Left, TopLeft, BottomLeft:
		return -1
	}
	return 0
}

// vertical is the same for the y axis.
func (d Direction) vertical() float64 {
	switch d {
	case Bottom, BottomLeft, BottomRight:
		return 1
	case Top, TopLeft, TopRight:
		return -1
	}
	return 0
}

// AffectsSpan reports whether the direction can change the column span.
func (d Direction) AffectsSpan() bool {
	return d.horizontal() != 0
}

// AffectsHeight reports whether the direction can change the height hint.
func (d Direction) AffectsHeight() bool {
	return d.vertical() != 0
}
