package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/abhisek/vocabdrill/internal/logger"
)

// RetryProvider retries transient failures with jittered exponential
// backoff. The caller's deadline bounds the whole sequence: a wait that
// would end past it is not started, so a judge call never outlives its
// review timeout.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.config.MaxAttempts, 1)
	resampled := false

	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if attempt == attempts || !Transient(err) {
			return nil, err
		}

		// A malformed verdict or question is resampled once. A second one
		// means the prompt and schema disagree.
		var inv *ErrInvalidResponse
		if errors.As(err, &inv) {
			if resampled {
				return nil, err
			}
			resampled = true
		}

		wait := r.wait(attempt, err)
		if dl, ok := ctx.Deadline(); ok && time.Until(dl) < wait {
			return nil, err
		}
		logger.Warn("llm %s attempt %d/%d failed, retrying in %s: %v",
			PurposeFrom(ctx), attempt, attempts, wait.Round(time.Millisecond), err)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// wait returns how long to sleep after the given 1-based attempt. A rate
// limit's Retry-After wins over the computed backoff.
func (r *RetryProvider) wait(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	d := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt-1))
	if limit := float64(r.config.MaxWait); limit > 0 {
		d = math.Min(d, limit)
	}
	// ±20% jitter.
	d *= 0.8 + 0.4*rand.Float64()
	return time.Duration(d)
}
