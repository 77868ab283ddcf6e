// Package resize maps pointer movement on a widget handle to a discrete
// column span.
package resize

import (
	"errors"
	"fmt"
	"math"

	"github.com/wcatz/dashboard-grid/internal/grid"
)

var (
	// ErrResizeAlreadyActive rejects a second concurrent resize.
	ErrResizeAlreadyActive = errors.New("resize already active")
	// ErrNotResizing is returned by Move without an active session.
	ErrNotResizing = errors.New("no resize in progress")
	// ErrInvalidDirection rejects unknown handle tags.
	ErrInvalidDirection = errors.New("invalid resize direction")
)

// Defaults for Options.
const (
	DefaultColumnWidth   = 320
	DefaultHeight        = 280
	DefaultMinimumHeight = 120
)

// Point is a pointer position in client coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Options configures quantization.
type Options struct {
	// ColumnWidth is the pixel width one column span is worth. It is a fixed
	// reference, independent of the rendered container.
	ColumnWidth   float64
	DefaultHeight float64
	MinHeight     float64
}

func (o Options) withDefaults() Options {
	if o.ColumnWidth <= 0 {
		o.ColumnWidth = DefaultColumnWidth
	}
	if o.DefaultHeight <= 0 {
		o.DefaultHeight = DefaultHeight
	}
	if o.MinHeight < 0 {
		o.MinHeight = 0
	}
	return o
}

// Session is the ephemeral record of one resize gesture.
type Session struct {
	WidgetID    string        `json:"widgetId"`
	Direction   Direction     `json:"direction"`
	Start       Point         `json:"start"`
	Delta       Point         `json:"delta"`
	Origin      grid.Position `json:"origin"`
	startHeight float64
}

// Preview is the live, non-committed size during a gesture.
type Preview struct {
	WidgetID   string  `json:"widgetId"`
	ColumnSpan int     `json:"columnSpan"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// Result is produced when a gesture ends. Position keeps the origin row and
// column; only the span and height hint can differ.
type Result struct {
	WidgetID      string        `json:"widgetId"`
	Position      grid.Position `json:"position"`
	SpanChanged   bool          `json:"spanChanged"`
	HeightChanged bool          `json:"heightChanged"`
}

// Changed reports whether the layout needs an update.
func (r Result) Changed() bool {
	return r.SpanChanged || r.HeightChanged
}

// Controller allows a single resize at a time.
type Controller struct {
	opts    Options
	session *Session
}

// NewController returns an idle controller.
func NewController(opts Options) *Controller {
	return &Controller{opts: opts.withDefaults()}
}

// Options returns the effective options.
func (c *Controller) Options() Options {
	return c.opts
}

// Active reports whether a resize is in progress.
func (c *Controller) Active() bool {
	return c.session != nil
}

// Session returns the active session, if any.
func (c *Controller) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// BeginResize starts a gesture on widgetID whose current placement is origin.
func (c *Controller) BeginResize(widgetID string, dir Direction, p Point, origin grid.Position) (Session, error) {
	if c.session != nil {
		return Session{}, fmt.Errorf("%w: %s is being resized", ErrResizeAlreadyActive, c.session.WidgetID)
	}
	d, err := ParseDirection(string(dir))
	if err != nil {
		return Session{}, err
	}
	h := c.opts.DefaultHeight
	if origin.Height != nil {
		h = *origin.Height
	}
	c.session = &Session{
		WidgetID:    widgetID,
		Direction:   d,
		Start:       p,
		Origin:      origin,
		startHeight: h,
	}
	return *c.session, nil
}

// Move records the latest pointer position and returns the live preview.
func (c *Controller) Move(p Point) (Preview, error) {
	if c.session == nil {
		return Preview{}, ErrNotResizing
	}
	s := c.session
	s.Delta = p.Sub(s.Start)

	width := float64(s.Origin.ColumnSpan)*c.opts.ColumnWidth + s.Direction.horizontal()*s.Delta.X
	if width < 0 {
		width = 0
	}
	return Preview{
		WidgetID:   s.WidgetID,
		ColumnSpan: c.span(s),
		Width:      width,
		Height:     c.height(s),
	}, nil
}

// End finishes the gesture and quantizes the accumulated delta. The
// controller is idle afterwards no matter the outcome; ok is false only when
// there was no session.
func (c *Controller) End() (res Result, ok bool) {
	if c.session == nil {
		return Result{}, false
	}
	s := c.session
	c.session = nil

	pos := s.Origin
	res = Result{WidgetID: s.WidgetID, Position: pos}
	if span := c.span(s); span != s.Origin.ColumnSpan {
		res.Position.ColumnSpan = span
		res.SpanChanged = true
	}
	if s.Direction.AffectsHeight() {
		if h := c.height(s); h != s.startHeight {
			res.Position.Height = &h
			res.HeightChanged = true
		}
	}
	return res, true
}

func (c *Controller) span(s *Session) int {
	if !s.Direction.AffectsSpan() {
		return s.Origin.ColumnSpan
	}
	return Quantize(s.Origin.ColumnSpan, s.Direction.horizontal()*s.Delta.X, c.opts.ColumnWidth)
}

func (c *Controller) height(s *Session) float64 {
	h := s.startHeight + s.Direction.vertical()*s.Delta.Y
	if h < c.opts.MinHeight {
		h = c.opts.MinHeight
	}
	return h
}

// Quantize converts a growth of dx pixels on a widget of span into a new
// span, rounding to whole columns and clamping to [1,3].
func Quantize(span int, dx, columnWidth float64) int {
	if columnWidth <= 0 || math.IsNaN(dx) {
		return grid.ClampSpan(span)
	}
	steps := math.Round(dx / columnWidth)
	if math.IsInf(steps, 0) || math.Abs(steps) > grid.MaxSpan {
		steps = math.Copysign(grid.MaxSpan, steps)
	}
	return grid.ClampSpan(span + int(steps))
}
