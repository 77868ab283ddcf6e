package generation

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestDriverRunsToCompletion(t *testing.T) {
	m := NewMachine(newStub(t))
	d := NewDriver(time.Millisecond, zaptest.NewLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Run(ctx, m, "Show me server health"); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if m.Phase() != PhasePreview {
		t.Errorf("phase = %s, want preview", m.Phase())
	}
	for i, s := range m.State().Steps {
		if s.Status != StepCompleted {
			t.Errorf("step %d = %s", i, s.Status)
		}
	}
}

func TestDriverRejectsEmptyPrompt(t *testing.T) {
	m := NewMachine(newStub(t))
	err := NewDriver(time.Millisecond, nil).Run(context.Background(), m, "")
	if !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("Run() error = %v, want ErrEmptyPrompt", err)
	}
}

func TestDriverCancelFails(t *testing.T) {
	m := NewMachine(newStub(t))
	d := NewDriver(time.Hour, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := d.Run(ctx, m, "prompt")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	st := m.State()
	if st.IsGenerating || st.Error != "generation cancelled" {
		t.Errorf("state = %+v", st)
	}
}

func TestDriverStopsWhenSuperseded(t *testing.T) {
	m := NewMachine(newStub(t))
	stale, err := m.StartAttempt("old")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Start("new"); err != nil {
		t.Fatal(err)
	}

	d := NewDriver(time.Millisecond, zaptest.NewLogger(t))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Follow(ctx, m, stale); err != nil {
		t.Fatalf("Follow() error: %v", err)
	}
	st := m.State()
	if st.Prompt != "new" || st.CurrentStepIndex != -1 || !st.IsGenerating {
		t.Errorf("stale driver touched new attempt: %+v", st)
	}
}
