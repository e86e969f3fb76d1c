package generate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryConfig bounds the retry loop around an engine.
type RetryConfig struct {
	// MaxAttempts is the total number of Generate calls, including the first.
	MaxAttempts uint
	// AttemptTimeout bounds each individual attempt.
	AttemptTimeout time.Duration
	// InitialInterval seeds the exponential backoff between attempts.
	InitialInterval time.Duration
}

// DefaultRetryConfig matches the latency profile of chat-completion APIs.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     3,
		AttemptTimeout:  60 * time.Second,
		InitialInterval: 500 * time.Millisecond,
	}
}

// Retrier wraps an Engine with deadline-bounded, backoff-spaced retries.
// Only transient failures (ErrUnavailable, ErrTimeout) are retried; prompt
// and policy rejections surface immediately.
type Retrier struct {
	engine Engine
	cfg    RetryConfig
	logger *slog.Logger
}

// NewRetrier wraps engine with the given retry policy.
func NewRetrier(engine Engine, cfg RetryConfig, logger *slog.Logger) *Retrier {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 500 * time.Millisecond
	}
	return &Retrier{engine: engine, cfg: cfg, logger: logger}
}

// Generate runs the wrapped engine, retrying transient failures until the
// attempt budget or the caller's deadline runs out.
func (r *Retrier) Generate(ctx context.Context, req Request) (*Result, error) {
	attempt := 0

	operation := func() (*Result, error) {
		attempt++

		attemptCtx := ctx
		if r.cfg.AttemptTimeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, r.cfg.AttemptTimeout)
			defer cancel()
		}

		res, err := r.engine.Generate(attemptCtx, req)
		if err == nil {
			return res, nil
		}

		// The caller's own deadline expiring is final regardless of how many
		// attempts remain.
		if ctx.Err() != nil {
			return nil, backoff.Permanent(mapContextErr(ctx.Err()))
		}
		if attemptCtx.Err() != nil && !errors.Is(err, ErrTimeout) {
			err = ErrTimeout
		}

		if !Retryable(err) {
			return nil, backoff.Permanent(err)
		}

		if r.logger != nil {
			r.logger.Warn("generation attempt failed", "attempt", attempt, "error", err)
		}
		return nil, err
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = r.cfg.InitialInterval

	res, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(r.cfg.MaxAttempts),
	)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func mapContextErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}
