// Package board hosts the single active dashboard and applies the intents
// emitted by the drag, resize and generation controllers, one at a time.
package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wcatz/dashboard-grid/internal/config"
	"github.com/wcatz/dashboard-grid/internal/drag"
	"github.com/wcatz/dashboard-grid/internal/generation"
	"github.com/wcatz/dashboard-grid/internal/grid"
	"github.com/wcatz/dashboard-grid/internal/resize"
	"github.com/wcatz/dashboard-grid/internal/widget"
)

var (
	// ErrUnknownWidget is returned for ids not on the dashboard.
	ErrUnknownWidget = errors.New("unknown widget")
	// ErrInvalidOrder rejects an order that is not a permutation of the
	// dashboard's widgets.
	ErrInvalidOrder = errors.New("invalid widget order")
)

// DashboardState is the lifecycle of the hosted dashboard.
type DashboardState string

const (
	StateEmpty      DashboardState = "empty"
	StateGenerating DashboardState = "generating"
	StatePreview    DashboardState = "preview"
)

// Dashboard is the populated widget set shown on the grid.
type Dashboard struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	State      DashboardState       `json:"state"`
	Widgets    []widget.Widget      `json:"widgets"`
	AIInsights []generation.Insight `json:"aiInsights,omitempty"`
}

// Snapshot is a consistent copy of everything the board holds.
type Snapshot struct {
	Dashboard  Dashboard        `json:"dashboard"`
	Layout     grid.Layout      `json:"layout"`
	Order      []string         `json:"order"`
	Generation generation.State `json:"generation"`
	Phase      generation.Phase `json:"phase"`
	Drag       *drag.Session    `json:"drag,omitempty"`
	Resize     *resize.Session  `json:"resize,omitempty"`
}

// Options configures a Board.
type Options struct {
	Gap          float64
	Resize       resize.Options
	StepInterval time.Duration
}

// OptionsFromConfig maps the grid and generation settings onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	g := cfg.GetGrid()
	return Options{
		Gap: g.Gap,
		Resize: resize.Options{
			ColumnWidth:   g.ColumnWidth,
			DefaultHeight: g.DefaultHeight,
			MinHeight:     g.MinHeight,
		},
		StepInterval: cfg.GetGeneration().StepInterval,
	}
}

// Board owns the dashboard, its layout and linear widget order. All methods
// are safe for concurrent use.
type Board struct {
	mu  sync.Mutex
	log *zap.Logger

	opts      Options
	dashboard Dashboard
	layout    grid.Layout

	drag   *drag.Controller
	resize *resize.Controller
	gen    *generation.Machine
	driver *generation.Driver

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a board with an empty dashboard.
func New(opts Options, producer generation.Producer, logger *zap.Logger) *Board {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Named("board")
	return &Board{
		log:       log,
		opts:      opts,
		dashboard: Dashboard{ID: uuid.NewString(), State: StateEmpty},
		layout:    grid.New(opts.Gap),
		drag:      drag.NewController(),
		resize:    resize.NewController(opts.Resize),
		gen:       generation.NewMachine(producer),
		driver:    generation.NewDriver(opts.StepInterval, log),
	}
}

// Snapshot returns a copy of the board state. Widgets carry their layout
// position.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	d := b.dashboard
	d.Widgets = make([]widget.Widget, 0, len(b.dashboard.Widgets))
	for _, w := range b.dashboard.Widgets {
		var pos *grid.Position
		if p, ok := b.layout.Position(w.Info().ID); ok {
			pos = &p
		}
		d.Widgets = append(d.Widgets, widget.WithPosition(w, pos))
	}
	d.AIInsights = append([]generation.Insight(nil), b.dashboard.AIInsights...)

	s := Snapshot{
		Dashboard:  d,
		Layout:     b.layout.Clone(),
		Order:      b.order(),
		Generation: b.gen.State(),
		Phase:      b.gen.Phase(),
	}
	if ds, ok := b.drag.Session(); ok {
		s.Drag = &ds
	}
	if rs, ok := b.resize.Session(); ok {
		s.Resize = &rs
	}
	return s
}

func (b *Board) order() []string {
	ids := make([]string, 0, len(b.dashboard.Widgets))
	for _, w := range b.dashboard.Widgets {
		ids = append(ids, w.Info().ID)
	}
	return ids
}

func (b *Board) indexOf(id string) int {
	for i, w := range b.dashboard.Widgets {
		if w.Info().ID == id {
			return i
		}
	}
	return -1
}

// setOrder rearranges the widgets to match order, which must be a
// permutation of the current ids, and repacks the layout.
func (b *Board) setOrder(order []string) {
	byID := make(map[string]widget.Widget, len(b.dashboard.Widgets))
	for _, w := range b.dashboard.Widgets {
		byID[w.Info().ID] = w
	}
	widgets := make([]widget.Widget, 0, len(order))
	for _, id := range order {
		widgets = append(widgets, byID[id])
	}
	b.dashboard.Widgets = widgets
	b.layout = grid.Reorder(b.layout, order)
}

// BeginDrag starts dragging a widget.
func (b *Board) BeginDrag(id string) (drag.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.indexOf(id) < 0 {
		return drag.Session{}, fmt.Errorf("%w: %s", ErrUnknownWidget, id)
	}
	s, err := b.drag.BeginDrag(id, b.order())
	if err != nil {
		b.log.Warn("drag rejected", zap.String("widget", id), zap.Error(err))
		return drag.Session{}, err
	}
	b.log.Debug("drag started", zap.String("widget", id), zap.Int("origin", s.OriginIndex))
	return s, nil
}

// Drop applies a drop on the sensor at targetIndex and ends any active drag.
// A payload without a known widget id leaves the board unchanged and applied
// is false.
func (b *Board) Drop(p drag.Payload, targetIndex int) (applied bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	defer b.drag.EndDrag()

	intent, ok := drag.Drop(p, targetIndex)
	if !ok || b.indexOf(intent.WidgetID) < 0 {
		b.log.Debug("drop discarded", zap.String("widget", p.WidgetID))
		return false
	}
	b.setOrder(drag.ApplyIntent(b.order(), intent))
	b.log.Debug("drop applied",
		zap.String("widget", intent.WidgetID),
		zap.Int("target", intent.TargetIndex),
		zap.Strings("order", b.order()))
	return true
}

// EndDrag releases the drag session without a drop.
func (b *Board) EndDrag() (drag.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.drag.EndDrag()
	if !ok {
		return drag.Session{}, drag.ErrNotDragging
	}
	b.log.Debug("drag ended", zap.String("widget", s.WidgetID))
	return s, nil
}

// BeginResize starts a resize gesture on a placed widget.
func (b *Board) BeginResize(id string, dir resize.Direction, p resize.Point) (resize.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pos, ok := b.layout.Position(id)
	if !ok {
		return resize.Session{}, fmt.Errorf("%w: %s", ErrUnknownWidget, id)
	}
	s, err := b.resize.BeginResize(id, dir, p, pos)
	if err != nil {
		b.log.Warn("resize rejected", zap.String("widget", id), zap.Error(err))
		return resize.Session{}, err
	}
	b.log.Debug("resize started", zap.String("widget", id), zap.String("direction", string(dir)))
	return s, nil
}

// MoveResize feeds a pointer position to the active gesture.
func (b *Board) MoveResize(p resize.Point) (resize.Preview, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resize.Move(p)
}

// EndResize ends the gesture and applies its result. A span change is placed
// on the same row and column, or at column 0 of the row when that would
// overflow the grid; the layout is then repacked.
func (b *Board) EndResize() (resize.Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	res, ok := b.resize.End()
	if !ok {
		return resize.Result{}, resize.ErrNotResizing
	}
	cur, ok := b.layout.Position(res.WidgetID)
	if !ok || !res.Changed() {
		return res, nil
	}

	next := cur
	if res.SpanChanged {
		next.ColumnSpan = res.Position.ColumnSpan
	}
	if res.HeightChanged {
		next.Height = res.Position.Height
	}
	l, err := grid.Place(b.layout, res.WidgetID, next)
	if errors.Is(err, grid.ErrInvalidPosition) {
		next.Column = 0
		l, err = grid.Place(b.layout, res.WidgetID, next)
	}
	if err != nil {
		b.log.Warn("resize not applied", zap.String("widget", res.WidgetID), zap.Error(err))
		return res, err
	}
	b.layout = grid.Reorder(l, b.order())
	b.log.Debug("resize applied",
		zap.String("widget", res.WidgetID),
		zap.Int("span", next.ColumnSpan),
		zap.Bool("height_changed", res.HeightChanged))
	return res, nil
}

// RemoveWidget deletes a widget and repacks the rest. Gestures on it end.
func (b *Board) RemoveWidget(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownWidget, id)
	}
	b.dashboard.Widgets = append(b.dashboard.Widgets[:i:i], b.dashboard.Widgets[i+1:]...)
	b.layout = grid.Reorder(grid.Remove(b.layout, id), b.order())
	if s, ok := b.drag.Session(); ok && s.WidgetID == id {
		b.drag.EndDrag()
	}
	if s, ok := b.resize.Session(); ok && s.WidgetID == id {
		b.resize.End()
	}
	b.log.Debug("widget removed", zap.String("widget", id))
	return nil
}

// Reorder replaces the linear widget order.
func (b *Board) Reorder(order []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !isPermutation(order, b.order()) {
		return fmt.Errorf("%w: %v", ErrInvalidOrder, order)
	}
	b.setOrder(order)
	b.log.Debug("widgets reordered", zap.Strings("order", order))
	return nil
}

func isPermutation(order, current []string) bool {
	if len(order) != len(current) {
		return false
	}
	want := make(map[string]bool, len(current))
	for _, id := range current {
		want[id] = true
	}
	for _, id := range order {
		if !want[id] {
			return false
		}
		delete(want, id)
	}
	return true
}
