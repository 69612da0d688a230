package resilience

import (
	"context"
	"fmt"
	"time"
)

// Retrier re-runs an operation with linear backoff. Attempt n waits
// BaseDelay*n before attempt n+1 starts.
type Retrier struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// Retryable decides whether an error is worth another attempt. A nil
	// classifier retries everything.
	Retryable func(error) bool
	// OnRetry is called before each backoff wait.
	OnRetry func(attempt int, delay time.Duration, err error)

	sleep func(ctx context.Context, d time.Duration) error
}

func NewRetrier(cfg RetryConfig, retryable func(error) bool) *Retrier {
	cfg = NormalizeRetryConfig(cfg)
	return &Retrier{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.BaseDelay,
		Retryable:   retryable,
	}
}

// Do runs op until it succeeds, returns a non-retryable error, attempts are
// exhausted or ctx is done. The running attempt never observes cancellation
// of ctx; only new attempts are prevented.
func (r *Retrier) Do(ctx context.Context, op func(ctx context.Context) error) error {
	_, err := Run(ctx, r, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// Run is the value-returning form of Retrier.Do.
func Run[T any](ctx context.Context, r *Retrier, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if r == nil {
		r = &Retrier{}
	}
	maxAttempts := r.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = DefaultRetryConfig().MaxAttempts
	}
	baseDelay := r.BaseDelay
	if baseDelay < 0 {
		baseDelay = 0
	}

	attemptCtx := context.WithoutCancel(ctx)
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, cancelled(err, lastErr)
		}

		value, err := op(attemptCtx)
		if err == nil {
			return value, nil
		}
		lastErr = err

		if attempt == maxAttempts || (r.Retryable != nil && !r.Retryable(err)) {
			break
		}

		delay := baseDelay * time.Duration(attempt)
		if r.OnRetry != nil {
			r.OnRetry(attempt, delay, err)
		}
		if err := r.wait(ctx, delay); err != nil {
			return zero, cancelled(err, lastErr)
		}
	}

	return zero, lastErr
}

func (r *Retrier) wait(ctx context.Context, d time.Duration) error {
	if r.sleep != nil {
		return r.sleep(ctx, d)
	}
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func cancelled(ctxErr, lastErr error) error {
	if lastErr == nil {
		return ctxErr
	}
	return fmt.Errorf("%w: last attempt: %w", ctxErr, lastErr)
}
