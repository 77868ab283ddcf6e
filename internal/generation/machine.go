package generation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyPrompt rejects blank prompts.
	ErrEmptyPrompt = errors.New("prompt is empty")
	// ErrNotGenerating is returned by Advance and Fail outside a generation.
	ErrNotGenerating = errors.New("no generation in progress")
	// ErrSuperseded reports that a newer attempt replaced the caller's.
	ErrSuperseded = errors.New("generation attempt superseded")
)

// Machine holds the generation state. It is not safe for concurrent use;
// the owner serialises calls.
type Machine struct {
	producer Producer
	state    State
	phase    Phase
	attempt  uint64
	outcome  *Outcome
}

// NewMachine returns an idle machine.
func NewMachine(p Producer) *Machine {
	m := &Machine{producer: p}
	m.reset()
	return m
}

func (m *Machine) reset() {
	m.state = State{CurrentStepIndex: -1, Steps: CanonicalSteps()}
	m.phase = PhaseIdle
	m.outcome = nil
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	return m.state.clone()
}

// Phase returns the lifecycle phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// Attempt identifies the current generation attempt. It increases on every
// successful Start.
func (m *Machine) Attempt() uint64 {
	return m.attempt
}

// Outcome returns the result of the last completed generation.
func (m *Machine) Outcome() (Outcome, bool) {
	if m.outcome == nil {
		return Outcome{}, false
	}
	return *m.outcome, true
}

// Start begins a new attempt, discarding any prior state including one still
// in progress.
func (m *Machine) Start(prompt string) error {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return ErrEmptyPrompt
	}
	m.reset()
	m.attempt++
	m.state.Prompt = trimmed
	m.state.IsGenerating = true
	m.phase = PhaseGenerating
	return nil
}

// Advance activates the next step. When the last step is already active it
// completes the run instead, invoking the producer; done is true then. A
// producer error ends the run as failed and is recorded in the state, not
// returned. Finalizing takes one call more than there are steps.
func (m *Machine) Advance() (done bool, err error) {
	if !m.state.IsGenerating {
		return false, ErrNotGenerating
	}
	last := len(m.state.Steps) - 1
	if m.state.CurrentStepIndex >= last {
		m.state.Steps[last].Status = StepCompleted
		m.finish()
		return true, nil
	}

	m.state.CurrentStepIndex++
	idx := m.state.CurrentStepIndex
	for i := range m.state.Steps {
		switch {
		case i < idx:
			m.state.Steps[i].Status = StepCompleted
		case i == idx:
			m.state.Steps[i].Status = StepActive
		default:
			m.state.Steps[i].Status = StepPending
		}
	}
	return false, nil
}

func (m *Machine) finish() {
	m.state.IsGenerating = false
	widgets, insights, err := m.producer.Produce(m.state.Prompt)
	if err == nil && len(widgets) == 0 {
		err = errors.New("no widgets produced")
	}
	if err != nil {
		m.state.Error = err.Error()
		m.phase = PhaseFailed
		return
	}
	m.outcome = &Outcome{Prompt: m.state.Prompt, Widgets: widgets, Insights: insights}
	m.phase = PhasePreview
}

// Fail ends the current attempt with message. Step statuses are kept so
// partial progress stays visible.
func (m *Machine) Fail(message string) error {
	if !m.state.IsGenerating {
		return ErrNotGenerating
	}
	m.state.IsGenerating = false
	m.state.Error = message
	m.phase = PhaseFailed
	return nil
}

// Reset returns the machine to idle, as when the dashboard is cleared.
func (m *Machine) Reset() {
	m.reset()
}

// StartAttempt starts a run and returns its attempt id.
func (m *Machine) StartAttempt(prompt string) (uint64, error) {
	if err := m.Start(prompt); err != nil {
		return 0, err
	}
	return m.attempt, nil
}

// AdvanceAttempt advances only if attempt is still current.
func (m *Machine) AdvanceAttempt(attempt uint64) (bool, error) {
	if attempt != m.attempt {
		return false, fmt.Errorf("attempt %d: %w", attempt, ErrSuperseded)
	}
	return m.Advance()
}

// FailAttempt fails only if attempt is still current and running.
func (m *Machine) FailAttempt(attempt uint64, message string) error {
	if attempt != m.attempt {
		return fmt.Errorf("attempt %d: %w", attempt, ErrSuperseded)
	}
	return m.Fail(message)
}
