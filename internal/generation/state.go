// Package generation models the guided, multi-step flow that produces a
// dashboard from a prompt.
package generation

import "github.com/wcatz/dashboard-grid/internal/widget"

// StepStatus is the progress of a single step.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepActive    StepStatus = "active"
	StepCompleted StepStatus = "completed"
)

// Step is one stage of the generation flow. Title and description are
// translation keys resolved by the presentation layer.
type Step struct {
	ID             string     `json:"id"`
	TitleKey       string     `json:"titleKey"`
	DescriptionKey string     `json:"descriptionKey"`
	Status         StepStatus `json:"status"`
}

// Canonical step ids, in order.
const (
	StepAnalyzing   = "analyzing"
	StepIdentifying = "identifying"
	StepSelecting   = "selecting"
	StepGenerating  = "generating"
)

var stepIDs = []string{StepAnalyzing, StepIdentifying, StepSelecting, StepGenerating}

// CanonicalSteps returns a fresh copy of the four steps, all pending.
func CanonicalSteps() []Step {
	steps := make([]Step, len(stepIDs))
	for i, id := range stepIDs {
		steps[i] = Step{
			ID:             id,
			TitleKey:       "generation.steps." + id + ".title",
			DescriptionKey: "generation.steps." + id + ".description",
			Status:         StepPending,
		}
	}
	return steps
}

// State is the observable generation state.
type State struct {
	IsGenerating     bool   `json:"isGenerating"`
	Prompt           string `json:"prompt"`
	CurrentStepIndex int    `json:"currentStepIndex"`
	Steps            []Step `json:"steps"`
	Error            string `json:"error,omitempty"`
}

func (s State) clone() State {
	s.Steps = append([]Step(nil), s.Steps...)
	return s
}

// Phase is the coarse lifecycle of the machine.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseGenerating Phase = "generating"
	PhasePreview    Phase = "preview"
	PhaseFailed     Phase = "failed"
)

// Insight is an AI observation attached to a generated dashboard.
type Insight struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Severity    string `json:"severity,omitempty" yaml:"severity,omitempty"`
}

// Outcome is the candidate content produced by a completed generation.
type Outcome struct {
	Prompt   string          `json:"prompt"`
	Widgets  []widget.Widget `json:"widgets"`
	Insights []Insight       `json:"insights,omitempty"`
}

// Producer builds the widget set for a prompt.
type Producer interface {
	Produce(prompt string) ([]widget.Widget, []Insight, error)
}
