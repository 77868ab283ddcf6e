package board

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/wcatz/dashboard-grid/internal/generation"
	"github.com/wcatz/dashboard-grid/internal/grid"
	"github.com/wcatz/dashboard-grid/internal/widget"
)

// Submit starts generating a dashboard for prompt. The current widgets and
// any gesture in progress are discarded.
func (b *Board) Submit(prompt string) error {
	_, err := b.StartAttempt(prompt)
	return err
}

// Advance steps the active generation once.
func (b *Board) Advance() (done bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.advance(b.gen.Attempt())
}

// Fail ends the active generation with message.
func (b *Board) Fail(message string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fail(b.gen.Attempt(), message)
}

// StartAttempt implements generation.Target.
func (b *Board) StartAttempt(prompt string) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.start(prompt)
}

// AdvanceAttempt implements generation.Target.
func (b *Board) AdvanceAttempt(attempt uint64) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.advance(attempt)
}

// FailAttempt implements generation.Target.
func (b *Board) FailAttempt(attempt uint64, message string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fail(attempt, message)
}

func (b *Board) start(prompt string) (uint64, error) {
	attempt, err := b.gen.StartAttempt(prompt)
	if err != nil {
		b.log.Warn("generation rejected", zap.Error(err))
		return 0, err
	}
	b.drag.EndDrag()
	b.resize.End()
	b.dashboard.State = StateGenerating
	b.dashboard.Name = b.gen.State().Prompt
	b.dashboard.Widgets = nil
	b.dashboard.AIInsights = nil
	b.layout = grid.New(b.opts.Gap)
	b.log.Info("generation started",
		zap.Uint64("attempt", attempt),
		zap.String("prompt", b.dashboard.Name))
	return attempt, nil
}

func (b *Board) advance(attempt uint64) (bool, error) {
	done, err := b.gen.AdvanceAttempt(attempt)
	if err != nil || !done {
		if err == nil {
			b.log.Debug("generation step", zap.Int("step", b.gen.State().CurrentStepIndex))
		}
		return done, err
	}

	out, ok := b.gen.Outcome()
	if b.gen.Phase() != generation.PhasePreview || !ok {
		b.dashboard.State = StateEmpty
		b.log.Warn("generation failed",
			zap.Uint64("attempt", attempt),
			zap.String("error", b.gen.State().Error))
		return true, nil
	}
	b.populate(out)
	b.log.Info("generation completed",
		zap.Uint64("attempt", attempt),
		zap.Int("widgets", len(b.dashboard.Widgets)),
		zap.Int("insights", len(b.dashboard.AIInsights)))
	return true, nil
}

// populate turns a generation outcome into the dashboard and packs each
// widget at its suggested span.
func (b *Board) populate(out generation.Outcome) {
	l := grid.New(b.opts.Gap)
	widgets := make([]widget.Widget, 0, len(out.Widgets))
	order := make([]string, 0, len(out.Widgets))
	for _, w := range out.Widgets {
		info := w.Info()
		if _, dup := l.Position(info.ID); dup {
			b.log.Warn("duplicate widget id dropped", zap.String("widget", info.ID))
			continue
		}
		pos := grid.Position{ColumnSpan: grid.MinSpan}
		if info.Position != nil {
			pos.ColumnSpan = grid.ClampSpan(info.Position.ColumnSpan)
			pos.Height = info.Position.Height
		}
		// Row and column are reassigned by Reorder below.
		l, _ = grid.Place(l, info.ID, pos)
		widgets = append(widgets, widget.WithPosition(w, nil))
		order = append(order, info.ID)
	}
	b.dashboard.State = StatePreview
	b.dashboard.Name = out.Prompt
	b.dashboard.Widgets = widgets
	b.dashboard.AIInsights = out.Insights
	b.layout = grid.Reorder(l, order)
}

func (b *Board) fail(attempt uint64, message string) error {
	if err := b.gen.FailAttempt(attempt, message); err != nil {
		return err
	}
	b.dashboard.State = StateEmpty
	b.log.Warn("generation failed", zap.Uint64("attempt", attempt), zap.String("error", message))
	return nil
}

// Clear empties the dashboard and resets generation. A background run is
// cancelled.
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	b.gen.Reset()
	b.drag.EndDrag()
	b.resize.End()
	b.dashboard = Dashboard{ID: b.dashboard.ID, State: StateEmpty}
	b.layout = grid.New(b.opts.Gap)
	b.log.Info("dashboard cleared")
}

// Generate starts a generation and advances it in the background at the
// configured step interval until it completes, ctx is cancelled, or a newer
// generation replaces it. The attempt id is returned once the run has
// started.
func (b *Board) Generate(ctx context.Context, prompt string) (uint64, error) {
	b.mu.Lock()
	attempt, err := b.start(prompt)
	if err != nil {
		b.mu.Unlock()
		return 0, err
	}
	if b.cancel != nil {
		b.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.wg.Add(1)
	b.mu.Unlock()

	go func() {
		defer b.wg.Done()
		defer cancel()
		if err := b.driver.Follow(runCtx, b, attempt); err != nil && !errors.Is(err, context.Canceled) {
			b.log.Warn("generation driver stopped", zap.Uint64("attempt", attempt), zap.Error(err))
		}
	}()
	return attempt, nil
}

// Wait blocks until background generations have returned.
func (b *Board) Wait() {
	b.wg.Wait()
}

// Close cancels any background generation and waits for it.
func (b *Board) Close() {
	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	b.mu.Unlock()
	b.wg.Wait()
}
