package generation

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// DefaultStepInterval paces the driver when no interval is configured.
const DefaultStepInterval = 1200 * time.Millisecond

// Target is what a Driver steps through. Machine implements it, and so does
// any owner that wraps a Machine behind its own lock.
type Target interface {
	StartAttempt(prompt string) (uint64, error)
	AdvanceAttempt(attempt uint64) (bool, error)
	FailAttempt(attempt uint64, message string) error
}

// Driver calls Advance on a fixed cadence until the run completes.
type Driver struct {
	Interval time.Duration
	Logger   *zap.Logger
}

// NewDriver creates a driver.
func NewDriver(interval time.Duration, logger *zap.Logger) *Driver {
	if interval <= 0 {
		interval = DefaultStepInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{Interval: interval, Logger: logger}
}

// Run starts a generation for prompt and advances it every interval. It
// returns nil when the run completes or is superseded by a newer attempt.
// Cancelling ctx fails the attempt if it is still running.
func (d *Driver) Run(ctx context.Context, t Target, prompt string) error {
	attempt, err := t.StartAttempt(prompt)
	if err != nil {
		return err
	}
	return d.Follow(ctx, t, attempt)
}

// Follow advances an already started attempt.
func (d *Driver) Follow(ctx context.Context, t Target, attempt uint64) error {
	log := d.Logger.With(zap.Uint64("attempt", attempt))
	ticker := time.NewTicker(d.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			err := t.FailAttempt(attempt, "generation cancelled")
			if err != nil && !errors.Is(err, ErrSuperseded) && !errors.Is(err, ErrNotGenerating) {
				log.Warn("failing cancelled generation", zap.Error(err))
			}
			return ctx.Err()
		case <-ticker.C:
			done, err := t.AdvanceAttempt(attempt)
			switch {
			case errors.Is(err, ErrSuperseded), errors.Is(err, ErrNotGenerating):
				log.Debug("generation attempt no longer active", zap.Error(err))
				return nil
			case err != nil:
				return err
			case done:
				log.Debug("generation attempt finished")
				return nil
			}
		}
	}
}
