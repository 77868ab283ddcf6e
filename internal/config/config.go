package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var bracedRefRe = regexp.MustCompile(`\$\{(\w+)\}`)

// ErrInvalidConfig wraps validation failures.
var ErrInvalidConfig = errors.New("invalid config")

// Override keys accepted by Load.
const (
	OverridePort     = "port"
	OverrideLogLevel = "log_level"
)

// DefaultGap is the grid gap in pixels when grid.gap is unset.
const DefaultGap = 16

// ServerSettings configures the HTTP server.
type ServerSettings struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LogSettings configures the zap logger.
type LogSettings struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// GridSettings holds the dashboard grid constants.
type GridSettings struct {
	Gap           float64 `yaml:"gap"`
	ColumnWidth   float64 `yaml:"column_width"`
	DefaultHeight float64 `yaml:"default_height"`
	MinHeight     float64 `yaml:"min_height"`
}

// GenerationSettings controls the guided generation flow.
type GenerationSettings struct {
	StepInterval time.Duration `yaml:"step_interval"`
}

// InsightDef is an AI insight attached to a template.
type InsightDef struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Severity    string `yaml:"severity"`
}

// TemplateConfig is a canned dashboard returned for matching prompts.
type TemplateConfig struct {
	Name     string                   `yaml:"name"`
	Keywords []string                 `yaml:"keywords"`
	Insights []InsightDef             `yaml:"insights"`
	Widgets  []map[string]interface{} `yaml:"widgets"`
}

// Config holds the entire YAML configuration.
type Config struct {
	Server          ServerSettings            `yaml:"server"`
	Log             LogSettings               `yaml:"log"`
	Grid            GridSettings              `yaml:"grid"`
	Generation      GenerationSettings        `yaml:"generation"`
	Constants       map[string]string         `yaml:"constants"`
	Templates       map[string]TemplateConfig `yaml:"templates"`
	DefaultTemplate string                    `yaml:"default_template"`

	templateOrder []string
}

// Load reads and parses a YAML config file. overrides are applied on top of
// the file (see the Override* keys).
func Load(path string, overrides map[string]string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	c, err := loadFromData(data, overrides)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFromBytes parses a YAML config from raw bytes.
func LoadFromBytes(data []byte) (*Config, error) {
	return loadFromData(data, nil)
}

func loadFromData(data []byte, overrides map[string]string) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	c.templateOrder = parseTemplateKeyOrder(data)
	if err := c.applyOverrides(overrides); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyOverrides(overrides map[string]string) error {
	if v := overrides[OverridePort]; v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: port override %q: %v", ErrInvalidConfig, v, err)
		}
		c.Server.Port = port
	}
	if v := overrides[OverrideLogLevel]; v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks ranges and references.
func (c *Config) Validate() error {
	if c.Grid.ColumnWidth < 0 {
		return fmt.Errorf("%w: grid.column_width must not be negative", ErrInvalidConfig)
	}
	if c.Grid.MinHeight < 0 {
		return fmt.Errorf("%w: grid.min_height must not be negative", ErrInvalidConfig)
	}
	if c.Generation.StepInterval < 0 {
		return fmt.Errorf("%w: generation.step_interval must not be negative", ErrInvalidConfig)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	if c.DefaultTemplate != "" {
		if _, ok := c.Templates[c.DefaultTemplate]; !ok {
			return fmt.Errorf("%w: default_template '%s' not defined", ErrInvalidConfig, c.DefaultTemplate)
		}
	}
	for name, t := range c.Templates {
		if len(t.Widgets) == 0 {
			return fmt.Errorf("%w: template '%s' has no widgets", ErrInvalidConfig, name)
		}
	}
	return nil
}

// GetServer returns server settings with defaults applied.
func (c *Config) GetServer() ServerSettings {
	s := c.Server
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ShutdownTimeout <= 0 {
		s.ShutdownTimeout = 5 * time.Second
	}
	return s
}

// GetLog returns log settings with defaults applied.
func (c *Config) GetLog() LogSettings {
	l := c.Log
	if l.Level == "" {
		l.Level = "info"
	}
	return l
}

// GetGrid returns grid settings with defaults applied.
func (c *Config) GetGrid() GridSettings {
	g := c.Grid
	if g.ColumnWidth == 0 {
		g.ColumnWidth = 320
	}
	if g.DefaultHeight == 0 {
		g.DefaultHeight = 280
	}
	if g.MinHeight == 0 {
		g.MinHeight = 120
	}
	if g.Gap == 0 {
		g.Gap = DefaultGap
	}
	return g
}

// GetGeneration returns generation settings with defaults applied.
func (c *Config) GetGeneration() GenerationSettings {
	g := c.Generation
	if g.StepInterval == 0 {
		g.StepInterval = 1200 * time.Millisecond
	}
	return g
}

// GetTemplate returns a named template.
func (c *Config) GetTemplate(name string) (TemplateConfig, bool) {
	t, ok := c.Templates[name]
	return t, ok
}

// GetTemplateOrder returns template names in document order.
func (c *Config) GetTemplateOrder() []string {
	if len(c.templateOrder) > 0 {
		return c.templateOrder
	}
	// Fallback when the document could not be re-read
	keys := make([]string, 0, len(c.Templates))
	for k := range c.Templates {
		keys = append(keys, k)
	}
	return keys
}

// GetConstant returns a named constant string.
func (c *Config) GetConstant(name string) string {
	return c.Constants[name]
}

// parseTemplateKeyOrder extracts template key ordering from raw YAML.
func parseTemplateKeyOrder(data []byte) []string {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil
	}
	if node.Kind != yaml.DocumentNode || len(node.Content) == 0 {
		return nil
	}
	root := node.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(root.Content)-1; i += 2 {
		if root.Content[i].Value == "templates" {
			tNode := root.Content[i+1]
			if tNode.Kind != yaml.MappingNode {
				return nil
			}
			var order []string
			for j := 0; j < len(tNode.Content)-1; j += 2 {
				order = append(order, tNode.Content[j].Value)
			}
			return order
		}
	}
	return nil
}

// ResolveRef resolves ${name} references to constants.
func (c *Config) ResolveRef(value string) string {
	return bracedRefRe.ReplaceAllStringFunc(value, func(match string) string {
		refName := bracedRefRe.FindStringSubmatch(match)[1]
		if v := c.GetConstant(refName); v != "" {
			return v
		}
		return match
	})
}
