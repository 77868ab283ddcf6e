package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test-config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const fullConfig = `
server:
  port: 9090
  shutdown_timeout: 10s
log:
  level: debug
grid:
  gap: 12
  column_width: 300
  default_height: 260
  min_height: 100
generation:
  step_interval: 250ms
constants:
  env: prod
templates:
  server-health:
    name: "Server health (${env})"
    keywords: [server, health]
    insights:
      - { title: "cpu", description: "cpu is fine", severity: info }
    widgets:
      - type: metric-card
        title: uptime
        value: "99.9"
  sales:
    name: Sales
    keywords: [sales, revenue]
    widgets:
      - type: bar-chart
        title: revenue
default_template: server-health
`

func TestLoadConfig(t *testing.T) {
	path := writeTestConfig(t, fullConfig)
	c, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	srv := c.GetServer()
	if srv.Port != 9090 {
		t.Errorf("port = %d, want 9090", srv.Port)
	}
	if srv.ShutdownTimeout != 10*time.Second {
		t.Errorf("shutdown_timeout = %s, want 10s", srv.ShutdownTimeout)
	}

	g := c.GetGrid()
	if g.Gap != 12 || g.ColumnWidth != 300 || g.DefaultHeight != 260 || g.MinHeight != 100 {
		t.Errorf("grid = %+v", g)
	}

	if iv := c.GetGeneration().StepInterval; iv != 250*time.Millisecond {
		t.Errorf("step_interval = %s, want 250ms", iv)
	}
	if lvl := c.GetLog().Level; lvl != "debug" {
		t.Errorf("log level = %s, want debug", lvl)
	}

	tpl, ok := c.GetTemplate("server-health")
	if !ok {
		t.Fatal("template 'server-health' not found")
	}
	if len(tpl.Keywords) != 2 || len(tpl.Widgets) != 1 || len(tpl.Insights) != 1 {
		t.Errorf("template = %+v", tpl)
	}
	if got := c.ResolveRef(tpl.Name); got != "Server health (prod)" {
		t.Errorf("ResolveRef() = %q", got)
	}
}

func TestDefaults(t *testing.T) {
	c, err := LoadFromBytes([]byte("{}"))
	if err != nil {
		t.Fatalf("LoadFromBytes() error: %v", err)
	}
	if p := c.GetServer().Port; p != 8080 {
		t.Errorf("default port = %d, want 8080", p)
	}
	g := c.GetGrid()
	if g.ColumnWidth != 320 || g.DefaultHeight != 280 || g.MinHeight != 120 || g.Gap != 16 {
		t.Errorf("default grid = %+v", g)
	}
	if iv := c.GetGeneration().StepInterval; iv != 1200*time.Millisecond {
		t.Errorf("default step_interval = %s", iv)
	}
	if lvl := c.GetLog().Level; lvl != "info" {
		t.Errorf("default log level = %s", lvl)
	}
}

func TestZeroMeansDefault(t *testing.T) {
	c, err := LoadFromBytes([]byte("grid: {column_width: 0}\ngeneration: {step_interval: 0s}"))
	if err != nil {
		t.Fatalf("LoadFromBytes() error: %v", err)
	}
	if w := c.GetGrid().ColumnWidth; w != 320 {
		t.Errorf("column_width = %v, want 320", w)
	}
	if iv := c.GetGeneration().StepInterval; iv != 1200*time.Millisecond {
		t.Errorf("step_interval = %s, want 1.2s", iv)
	}
}

func TestOverrides(t *testing.T) {
	path := writeTestConfig(t, fullConfig)
	c, err := Load(path, map[string]string{OverridePort: "7000", OverrideLogLevel: "warn"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.GetServer().Port != 7000 || c.GetLog().Level != "warn" {
		t.Errorf("overrides not applied: %+v %+v", c.Server, c.Log)
	}
	if _, err := Load(path, map[string]string{OverridePort: "abc"}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("bad port override error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative column width", "grid: {column_width: -1}"},
		{"negative min height", "grid: {min_height: -5}"},
		{"negative step interval", "generation: {step_interval: -1s}"},
		{"bad level", "log: {level: loud}"},
		{"bad port", "server: {port: 70000}"},
		{"missing default template", "default_template: nope"},
		{"empty template", "templates: {a: {name: a}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFromBytes([]byte(tt.yaml)); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestTemplateOrder(t *testing.T) {
	cfg := `
templates:
  zeta:
    widgets: [{type: table, title: z}]
  alpha:
    widgets: [{type: table, title: a}]
  mid:
    widgets: [{type: table, title: m}]
`
	c, err := LoadFromBytes([]byte(cfg))
	if err != nil {
		t.Fatalf("LoadFromBytes() error: %v", err)
	}
	order := c.GetTemplateOrder()
	want := []string{"zeta", "alpha", "mid"}
	if len(order) != len(want) {
		t.Fatalf("order length = %d, want %d", len(order), len(want))
	}
	for i, name := range want {
		if order[i] != name {
			t.Errorf("order[%d] = %s, want %s", i, order[i], name)
		}
	}
}

func TestResolveRefUnknown(t *testing.T) {
	c, _ := LoadFromBytes([]byte("constants: {a: x}"))
	if got := c.ResolveRef("${a}-${b}"); got != "x-${b}" {
		t.Errorf("ResolveRef() = %q, want x-${b}", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}
