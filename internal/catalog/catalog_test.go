package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wcatz/dashboard-grid/internal/config"
	"github.com/wcatz/dashboard-grid/internal/widget"
)

const testTemplates = `
constants:
  region: eu-west
templates:
  server-health:
    name: Server health
    keywords: [server, Health]
    insights:
      - { title: "CPU in ${region}", description: "load is steady" }
      - { title: "Disk", description: "80% full", severity: warning }
    widgets:
      - type: metric-card
        title: Uptime
        value: 99.9
        unit: "%"
        trend: { direction: up, delta: 0.2 }
      - type: status-chart
        title: Services
        points:
          - { label: api, status: ok, value: 1 }
          - { label: db, status: degraded, value: 0.5 }
      - type: data-chart
        title: "CPU ${region}"
        series:
          - name: cpu
            points:
              - { x: "10:00", y: 41 }
              - { x: "10:05", y: 47.5 }
      - type: table
        title: Hosts
        columns:
          - { key: host, label: Host }
          - { key: load }
        rows:
          - { host: web-1, load: 0.7 }
  sales:
    name: Sales
    keywords: [sales, server]
    widgets:
      - type: bar-chart
        id: revenue
        title: Revenue
        span: 7
        bars:
          - { label: Q1, value: 10 }
  fallback:
    name: Overview
    widgets:
      - type: metric-card
        title: Users
        value: "1200"
default_template: fallback
`

func loadTestConfig(t *testing.T, content string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := config.Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestIDGenerator(t *testing.T) {
	g := NewIDGenerator("widget")
	if got := g.Next(); got != "widget-1" {
		t.Errorf("first id = %q", got)
	}
	if got := g.Next(); got != "widget-2" {
		t.Errorf("second id = %q", got)
	}
	g.Reset()
	if got := g.Next(); got != "widget-1" {
		t.Errorf("id after reset = %q", got)
	}
}

func TestMatchDocumentOrder(t *testing.T) {
	p := NewProducer(loadTestConfig(t, testTemplates))

	// "server" is a keyword of both templates; the first one declared wins.
	name, _, err := p.Match("Show me SERVER stuff")
	if err != nil {
		t.Fatal(err)
	}
	if name != "server-health" {
		t.Errorf("matched %q, want server-health", name)
	}

	name, _, err = p.Match("quarterly sales")
	if err != nil {
		t.Fatal(err)
	}
	if name != "sales" {
		t.Errorf("matched %q, want sales", name)
	}

	name, _, err = p.Match("something unrelated")
	if err != nil {
		t.Fatal(err)
	}
	if name != "fallback" {
		t.Errorf("matched %q, want fallback", name)
	}
}

func TestMatchNoTemplate(t *testing.T) {
	p := NewProducer(loadTestConfig(t, `
templates:
  sales:
    keywords: [sales]
    widgets:
      - { type: metric-card, title: x, value: "1" }
`))
	if _, _, err := p.Match("weather"); !errors.Is(err, ErrNoTemplate) {
		t.Errorf("expected ErrNoTemplate, got %v", err)
	}
	if _, _, err := p.Produce("weather"); !errors.Is(err, ErrNoTemplate) {
		t.Errorf("Produce: expected ErrNoTemplate, got %v", err)
	}
}

func TestProduceServerHealth(t *testing.T) {
	p := NewProducer(loadTestConfig(t, testTemplates))
	widgets, insights, err := p.Produce("Show me server health")
	if err != nil {
		t.Fatal(err)
	}
	if len(widgets) != 4 {
		t.Fatalf("expected 4 widgets, got %d", len(widgets))
	}

	wantKinds := []widget.Kind{widget.KindMetricCard, widget.KindStatusChart, widget.KindDataChart, widget.KindTable}
	wantSpans := []int{1, 1, 2, 3}
	for i, w := range widgets {
		if w.Kind() != wantKinds[i] {
			t.Errorf("widget %d kind = %s, want %s", i, w.Kind(), wantKinds[i])
		}
		info := w.Info()
		if want := "widget-" + string(rune('1'+i)); info.ID != want {
			t.Errorf("widget %d id = %q, want %q", i, info.ID, want)
		}
		if info.Position == nil || info.Position.ColumnSpan != wantSpans[i] {
			t.Errorf("widget %d span hint = %+v, want %d", i, info.Position, wantSpans[i])
		}
	}

	card := widgets[0].(*widget.MetricCard)
	if card.Value != "99.9" || card.Unit != "%" {
		t.Errorf("metric card = %+v", card)
	}
	if card.Trend == nil || card.Trend.Direction != widget.TrendUp || card.Trend.Delta != 0.2 {
		t.Errorf("trend = %+v", card.Trend)
	}

	status := widgets[1].(*widget.StatusChart)
	if len(status.Points) != 2 || status.Points[1].Status != "degraded" {
		t.Errorf("status points = %+v", status.Points)
	}

	chart := widgets[2].(*widget.DataChart)
	if chart.Title != "CPU eu-west" {
		t.Errorf("data chart title = %q", chart.Title)
	}
	if len(chart.Series) != 1 || len(chart.Series[0].Points) != 2 || chart.Series[0].Points[1].Y != 47.5 {
		t.Errorf("series = %+v", chart.Series)
	}

	table := widgets[3].(*widget.Table)
	if len(table.Columns) != 2 || table.Columns[1].Label != "load" {
		t.Errorf("columns = %+v", table.Columns)
	}
	if len(table.Rows) != 1 || table.Rows[0]["load"] != "0.7" {
		t.Errorf("rows = %+v", table.Rows)
	}

	if len(insights) != 2 {
		t.Fatalf("expected 2 insights, got %d", len(insights))
	}
	if insights[0].Title != "CPU in eu-west" || insights[0].Severity != "info" {
		t.Errorf("first insight = %+v", insights[0])
	}
	if insights[1].Severity != "warning" {
		t.Errorf("second insight severity = %q", insights[1].Severity)
	}
}

func TestProduceResetsIDs(t *testing.T) {
	p := NewProducer(loadTestConfig(t, testTemplates))
	if _, _, err := p.Produce("server health"); err != nil {
		t.Fatal(err)
	}
	widgets, _, err := p.Produce("server health")
	if err != nil {
		t.Fatal(err)
	}
	if widgets[0].Info().ID != "widget-1" {
		t.Errorf("ids not reset: %q", widgets[0].Info().ID)
	}
}

func TestExplicitIDAndSpanClamp(t *testing.T) {
	p := NewProducer(loadTestConfig(t, testTemplates))
	widgets, insights, err := p.Produce("sales")
	if err != nil {
		t.Fatal(err)
	}
	if len(insights) != 0 {
		t.Errorf("expected no insights, got %d", len(insights))
	}
	w := widgets[0]
	if w.Info().ID != "revenue" {
		t.Errorf("id = %q, want revenue", w.Info().ID)
	}
	if w.Info().Position.ColumnSpan != 3 {
		t.Errorf("span = %d, want clamped 3", w.Info().Position.ColumnSpan)
	}
}

func TestFromConfigUnknownType(t *testing.T) {
	cfg := loadTestConfig(t, testTemplates)
	wf := NewWidgetFactory(cfg, NewIDGenerator("widget"))
	_, err := wf.FromConfig(map[string]interface{}{"type": "pie", "title": "x"})
	if !errors.Is(err, widget.ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
}

func TestFromConfigInvalidWidget(t *testing.T) {
	cfg := loadTestConfig(t, testTemplates)
	wf := NewWidgetFactory(cfg, NewIDGenerator("widget"))
	_, err := wf.FromConfig(map[string]interface{}{
		"type":  "metric-card",
		"title": "x",
		"trend": map[string]interface{}{"direction": "sideways"},
	})
	if !errors.Is(err, widget.ErrInvalidWidget) {
		t.Errorf("expected ErrInvalidWidget, got %v", err)
	}
}

func TestDefaultSpansCoverKinds(t *testing.T) {
	for _, k := range widget.Kinds {
		if _, ok := DefaultSpans[k]; !ok {
			t.Errorf("no default span for %s", k)
		}
	}
}

func TestExampleConfig(t *testing.T) {
	cfg, err := config.Load(filepath.Join("..", "..", "configs", "example.yaml"), nil)
	if err != nil {
		t.Fatal(err)
	}
	p := NewProducer(cfg)

	tests := []struct {
		prompt   string
		template string
		widgets  int
	}{
		{"Show me server health", "server-health", 5},
		{"weekly revenue", "sales", 3},
		{"anything else", "overview", 2},
	}
	for _, tt := range tests {
		name, _, err := p.Match(tt.prompt)
		if err != nil {
			t.Fatalf("%q: %v", tt.prompt, err)
		}
		if name != tt.template {
			t.Errorf("%q matched %s, want %s", tt.prompt, name, tt.template)
		}
		widgets, _, err := p.Produce(tt.prompt)
		if err != nil {
			t.Fatalf("%q: %v", tt.prompt, err)
		}
		if len(widgets) != tt.widgets {
			t.Errorf("%q produced %d widgets, want %d", tt.prompt, len(widgets), tt.widgets)
		}
	}
}
