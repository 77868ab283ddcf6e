package catalog

import (
	"fmt"

	"github.com/wcatz/dashboard-grid/internal/config"
	"github.com/wcatz/dashboard-grid/internal/grid"
	"github.com/wcatz/dashboard-grid/internal/widget"
)

// DefaultSpans maps widget type to its default column span.
var DefaultSpans = map[widget.Kind]int{
	widget.KindStatusChart: 1,
	widget.KindDataChart:   2,
	widget.KindBarChart:    1,
	widget.KindTable:       3,
	widget.KindMetricCard:  1,
}

// WidgetFactory creates widgets from template config dicts.
type WidgetFactory struct {
	Config *config.Config
	IDGen  *IDGenerator
}

// NewWidgetFactory creates a new widget factory.
func NewWidgetFactory(cfg *config.Config, idGen *IDGenerator) *WidgetFactory {
	return &WidgetFactory{Config: cfg, IDGen: idGen}
}

// FromConfig creates a widget from a config dict. The returned widget carries
// a span-only position hint; row and column are assigned when it is placed.
func (wf *WidgetFactory) FromConfig(cfg map[string]interface{}) (widget.Widget, error) {
	kind := widget.Kind(getString(cfg, "type", ""))
	id := getString(cfg, "id", "")
	if id == "" {
		id = wf.IDGen.Next()
	}
	title := wf.Config.ResolveRef(getString(cfg, "title", ""))

	var (
		w   widget.Widget
		err error
	)
	switch kind {
	case widget.KindStatusChart:
		w, err = wf.StatusChart(id, title, cfg)
	case widget.KindDataChart:
		w, err = wf.DataChart(id, title, cfg)
	case widget.KindBarChart:
		w, err = wf.BarChart(id, title, cfg)
	case widget.KindTable:
		w, err = wf.Table(id, title, cfg)
	case widget.KindMetricCard:
		w, err = wf.MetricCard(id, title, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", widget.ErrUnknownType, kind)
	}
	if err != nil {
		return nil, err
	}
	return widget.WithPosition(w, &grid.Position{ColumnSpan: spanFor(kind, cfg)}), nil
}

func spanFor(kind widget.Kind, cfg map[string]interface{}) int {
	return grid.ClampSpan(getInt(cfg, "span", DefaultSpans[kind]))
}

// StatusChart builds a status-chart from a "points" list.
func (wf *WidgetFactory) StatusChart(id, title string, cfg map[string]interface{}) (*widget.StatusChart, error) {
	var points []widget.StatusPoint
	for _, p := range getMaps(cfg, "points") {
		points = append(points, widget.StatusPoint{
			Label:  wf.Config.ResolveRef(getText(p, "label", "")),
			Status: getString(p, "status", "ok"),
			Value:  getFloat(p, "value", 0),
		})
	}
	return widget.NewStatusChart(id, title, points)
}

// DataChart builds a data-chart from a "series" list.
func (wf *WidgetFactory) DataChart(id, title string, cfg map[string]interface{}) (*widget.DataChart, error) {
	var series []widget.Series
	for _, s := range getMaps(cfg, "series") {
		ser := widget.Series{Name: wf.Config.ResolveRef(getString(s, "name", ""))}
		for _, p := range getMaps(s, "points") {
			ser.Points = append(ser.Points, widget.DataPoint{
				X: getText(p, "x", ""),
				Y: getFloat(p, "y", 0),
			})
		}
		series = append(series, ser)
	}
	return widget.NewDataChart(id, title, series)
}

// BarChart builds a bar-chart from a "bars" list.
func (wf *WidgetFactory) BarChart(id, title string, cfg map[string]interface{}) (*widget.BarChart, error) {
	var bars []widget.Bar
	for _, b := range getMaps(cfg, "bars") {
		bars = append(bars, widget.Bar{
			Label: wf.Config.ResolveRef(getText(b, "label", "")),
			Value: getFloat(b, "value", 0),
		})
	}
	return widget.NewBarChart(id, title, bars)
}

// Table builds a table from "columns" and "rows". Row values are rendered as
// text.
func (wf *WidgetFactory) Table(id, title string, cfg map[string]interface{}) (*widget.Table, error) {
	var columns []widget.Column
	for _, c := range getMaps(cfg, "columns") {
		key := getString(c, "key", "")
		columns = append(columns, widget.Column{Key: key, Label: getString(c, "label", key)})
	}
	var rows []map[string]string
	for _, r := range getMaps(cfg, "rows") {
		row := make(map[string]string, len(r))
		for k := range r {
			row[k] = wf.Config.ResolveRef(getText(r, k, ""))
		}
		rows = append(rows, row)
	}
	return widget.NewTable(id, title, columns, rows)
}

// MetricCard builds a metric-card from "value", "unit" and an optional
// "trend" mapping.
func (wf *WidgetFactory) MetricCard(id, title string, cfg map[string]interface{}) (*widget.MetricCard, error) {
	var trend *widget.Trend
	if t, ok := getMap(cfg, "trend"); ok {
		trend = &widget.Trend{
			Direction: getString(t, "direction", widget.TrendFlat),
			Delta:     getFloat(t, "delta", 0),
		}
	}
	value := wf.Config.ResolveRef(getText(cfg, "value", ""))
	return widget.NewMetricCard(id, title, value, getString(cfg, "unit", ""), trend)
}
