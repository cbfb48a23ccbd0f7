package handler

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/mcoot/crystalclicker/internal/metrics"
	"github.com/mcoot/crystalclicker/internal/model"
)

// Retrier re-runs operations that failed with a retryable store error
// using exponential backoff bounded by the request context.
type Retrier struct {
	metrics         *metrics.Metrics
	initialInterval time.Duration
	maxRetries      uint64
}

// RetryConfig holds the retry policy
type RetryConfig struct {
	InitialInterval time.Duration
	MaxRetries      uint64
}

// DefaultRetryConfig returns the production retry policy
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		InitialInterval: 50 * time.Millisecond,
		MaxRetries:      3,
	}
}

// NewRetrier creates a Retrier
func NewRetrier(m *metrics.Metrics, cfg RetryConfig) *Retrier {
	return &Retrier{
		metrics:         m,
		initialInterval: cfg.InitialInterval,
		maxRetries:      cfg.MaxRetries,
	}
}

func (r *Retrier) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, r.maxRetries), ctx)
}

// retry runs a read until it succeeds, fails with a non-store error, or the
// retry budget is spent. A nil Retrier runs op once.
func retry[T any](ctx context.Context, r *Retrier, op func() (T, error)) (T, error) {
	return retryOn(ctx, r, model.ErrStoreUnavailable, op)
}

// retryWrite runs a write, retrying only ErrStoreConflict. Other store
// failures may have landed after commit, so they are returned as-is.
func retryWrite[T any](ctx context.Context, r *Retrier, op func() (T, error)) (T, error) {
	return retryOn(ctx, r, model.ErrStoreConflict, op)
}

func retryOn[T any](ctx context.Context, r *Retrier, retryable error, op func() (T, error)) (T, error) {
	if r == nil {
		return op()
	}

	attempt := 0
	return backoff.RetryWithData(func() (T, error) {
		if attempt > 0 {
			r.metrics.IncStoreRetry()
		}
		attempt++

		v, err := op()
		if err != nil && !errors.Is(err, retryable) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, r.policy(ctx))
}
