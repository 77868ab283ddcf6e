package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wcatz/dashboard-grid/internal/config"
	"github.com/wcatz/dashboard-grid/internal/generation"
	"github.com/wcatz/dashboard-grid/internal/widget"
)

// ErrNoTemplate is returned when no template matches a prompt and no default
// template is configured.
var ErrNoTemplate = errors.New("no dashboard template matches prompt")

// Producer builds widgets for a prompt from the configured templates.
type Producer struct {
	Config  *config.Config
	Factory *WidgetFactory
}

// NewProducer creates a Producer with its own id sequence.
func NewProducer(cfg *config.Config) *Producer {
	return &Producer{Config: cfg, Factory: NewWidgetFactory(cfg, NewIDGenerator("widget"))}
}

// Match returns the first template, in document order, with a keyword
// contained in the prompt. Matching is case-insensitive. The default template
// is used when nothing matches.
func (p *Producer) Match(prompt string) (string, config.TemplateConfig, error) {
	lower := strings.ToLower(prompt)
	for _, name := range p.Config.GetTemplateOrder() {
		tmpl, ok := p.Config.GetTemplate(name)
		if !ok {
			continue
		}
		for _, kw := range tmpl.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" && strings.Contains(lower, kw) {
				return name, tmpl, nil
			}
		}
	}
	if p.Config.DefaultTemplate != "" {
		if tmpl, ok := p.Config.GetTemplate(p.Config.DefaultTemplate); ok {
			return p.Config.DefaultTemplate, tmpl, nil
		}
	}
	return "", config.TemplateConfig{}, ErrNoTemplate
}

// Produce implements generation.Producer.
func (p *Producer) Produce(prompt string) ([]widget.Widget, []generation.Insight, error) {
	name, tmpl, err := p.Match(prompt)
	if err != nil {
		return nil, nil, err
	}
	p.Factory.IDGen.Reset()

	widgets := make([]widget.Widget, 0, len(tmpl.Widgets))
	for i, wc := range tmpl.Widgets {
		w, err := p.Factory.FromConfig(wc)
		if err != nil {
			return nil, nil, fmt.Errorf("template %s widget %d: %w", name, i, err)
		}
		widgets = append(widgets, w)
	}

	insights := make([]generation.Insight, 0, len(tmpl.Insights))
	for _, in := range tmpl.Insights {
		insights = append(insights, generation.Insight{
			Title:       p.Config.ResolveRef(in.Title),
			Description: p.Config.ResolveRef(in.Description),
			Severity:    defaultStr(in.Severity, "info"),
		})
	}
	return widgets, insights, nil
}

func defaultStr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
