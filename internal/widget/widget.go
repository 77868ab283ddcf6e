// Package widget defines the dashboard widget union. Each variant carries a
// fixed payload shape selected by its Kind; values are built through the
// New* constructors so the discriminant and payload always agree. Decode and
// DecodeList read back the widgets of an exported board snapshot.
package widget

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wcatz/dashboard-grid/internal/grid"
)

// Kind is the widget type discriminant.
type Kind string

const (
	KindStatusChart Kind = "status-chart"
	KindDataChart   Kind = "data-chart"
	KindBarChart    Kind = "bar-chart"
	KindTable       Kind = "table"
	KindMetricCard  Kind = "metric-card"
)

// Kinds lists every variant in declaration order.
var Kinds = []Kind{KindStatusChart, KindDataChart, KindBarChart, KindTable, KindMetricCard}

// ErrUnknownType is returned when decoding a widget with an unknown discriminant.
var ErrUnknownType = errors.New("unknown widget type")

// ErrInvalidWidget is returned by constructors for malformed input.
var ErrInvalidWidget = errors.New("invalid widget")

// Meta holds the fields shared by all variants.
type Meta struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Position *grid.Position `json:"position,omitempty"`
}

// Widget is implemented only by the variant types in this package.
type Widget interface {
	Kind() Kind
	Info() Meta
	Accept(v Visitor) error
	sealed()
}

// Visitor is the exhaustive match over widget variants.
type Visitor interface {
	StatusChart(w *StatusChart) error
	DataChart(w *DataChart) error
	BarChart(w *BarChart) error
	Table(w *Table) error
	MetricCard(w *MetricCard) error
}

func newMeta(id, title string) (Meta, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Meta{}, fmt.Errorf("%w: empty id", ErrInvalidWidget)
	}
	return Meta{ID: id, Title: title}, nil
}

// StatusPoint is one sample of a status chart.
type StatusPoint struct {
	Label  string  `json:"label"`
	Status string  `json:"status"`
	Value  float64 `json:"value"`
}

// StatusChart shows per-item health states.
type StatusChart struct {
	Meta
	Points []StatusPoint `json:"points"`
}

// NewStatusChart builds a status-chart widget.
func NewStatusChart(id, title string, points []StatusPoint) (*StatusChart, error) {
	m, err := newMeta(id, title)
	if err != nil {
		return nil, err
	}
	return &StatusChart{Meta: m, Points: points}, nil
}

// DataPoint is one x/y sample of a series.
type DataPoint struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// Series is a named run of data points.
type Series struct {
	Name   string      `json:"name"`
	Points []DataPoint `json:"points"`
}

// DataChart is a line/area chart over one or more series.
type DataChart struct {
	Meta
	Series []Series `json:"series"`
}

// NewDataChart builds a data-chart widget.
func NewDataChart(id, title string, series []Series) (*DataChart, error) {
	m, err := newMeta(id, title)
	if err != nil {
		return nil, err
	}
	return &DataChart{Meta: m, Series: series}, nil
}

// Bar is a single labelled bar.
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// BarChart compares labelled values.
type BarChart struct {
	Meta
	Bars []Bar `json:"bars"`
}

// NewBarChart builds a bar-chart widget.
func NewBarChart(id, title string, bars []Bar) (*BarChart, error) {
	m, err := newMeta(id, title)
	if err != nil {
		return nil, err
	}
	return &BarChart{Meta: m, Bars: bars}, nil
}

// Column describes a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Table renders rows keyed by column.
type Table struct {
	Meta
	Columns []Column            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

// NewTable builds a table widget. Every row key must name a declared column.
func NewTable(id, title string, columns []Column, rows []map[string]string) (*Table, error) {
	m, err := newMeta(id, title)
	if err != nil {
		return nil, err
	}
	keys := make(map[string]bool, len(columns))
	for _, c := range columns {
		keys[c.Key] = true
	}
	for i, row := range rows {
		for k := range row {
			if !keys[k] {
				return nil, fmt.Errorf("%w: row %d has undeclared column %q", ErrInvalidWidget, i, k)
			}
		}
	}
	return &Table{Meta: m, Columns: columns, Rows: rows}, nil
}

// Trend directions for metric cards.
const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendFlat = "flat"
)

// Trend is the change indicator on a metric card.
type Trend struct {
	Direction string  `json:"direction"`
	Delta     float64 `json:"delta"`
}

// MetricCard shows a single headline value.
type MetricCard struct {
	Meta
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
	Trend *Trend `json:"trend,omitempty"`
}

// NewMetricCard builds a metric-card widget.
func NewMetricCard(id, title, value, unit string, trend *Trend) (*MetricCard, error) {
	m, err := newMeta(id, title)
	if err != nil {
		return nil, err
	}
	if trend != nil {
		switch trend.Direction {
		case TrendUp, TrendDown, TrendFlat:
		default:
			return nil, fmt.Errorf("%w: trend direction %q", ErrInvalidWidget, trend.Direction)
		}
	}
	return &MetricCard{Meta: m, Value: value, Unit: unit, Trend: trend}, nil
}

func (*StatusChart) Kind() Kind { return KindStatusChart }
func (*DataChart) Kind() Kind   { return KindDataChart }
func (*BarChart) Kind() Kind    { return KindBarChart }
func (*Table) Kind() Kind       { return KindTable }
func (*MetricCard) Kind() Kind  { return KindMetricCard }

func (w *StatusChart) Info() Meta { return w.Meta }
func (w *DataChart) Info() Meta   { return w.Meta }
func (w *BarChart) Info() Meta    { return w.Meta }
func (w *Table) Info() Meta       { return w.Meta }
func (w *MetricCard) Info() Meta  { return w.Meta }

func (w *StatusChart) Accept(v Visitor) error { return v.StatusChart(w) }
func (w *DataChart) Accept(v Visitor) error   { return v.DataChart(w) }
func (w *BarChart) Accept(v Visitor) error    { return v.BarChart(w) }
func (w *Table) Accept(v Visitor) error       { return v.Table(w) }
func (w *MetricCard) Accept(v Visitor) error  { return v.MetricCard(w) }

func (*StatusChart) sealed() {}
func (*DataChart) sealed()   {}
func (*BarChart) sealed()    {}
func (*Table) sealed()       {}
func (*MetricCard) sealed()  {}

// WithPosition returns a shallow copy of w whose position is pos. The
// original is not modified.
func WithPosition(w Widget, pos *grid.Position) Widget {
	switch v := w.(type) {
	case *StatusChart:
		c := *v
		c.Position = pos
		return &c
	case *DataChart:
		c := *v
		c.Position = pos
		return &c
	case *BarChart:
		c := *v
		c.Position = pos
		return &c
	case *Table:
		c := *v
		c.Position = pos
		return &c
	case *MetricCard:
		c := *v
		c.Position = pos
		return &c
	}
	return w
}
