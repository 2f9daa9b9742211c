package utils

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryConfig holds the configuration for the retry mechanism.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	// Timeout bounds each attempt. Zero leaves the attempt bounded only by the caller's context.
	Timeout time.Duration
	// Retryable decides whether a failed attempt is worth repeating. Nil retries every error.
	Retryable func(error) bool
}

// RetryableFunc defines the signature for operations that can be retried.
type RetryableFunc[T any] func(ctx context.Context) (T, error)

// DefaultRetryConfig returns a RetryConfig with sensible default values.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  1 * time.Second,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		Timeout:       30 * time.Second,
	}
}

// GenerationRetryConfig is used around the recipe text call. maxAttempts of 1 disables retries.
func GenerationRetryConfig(maxAttempts int, timeout time.Duration, retryable func(error) bool) RetryConfig {
	cfg := DefaultRetryConfig()
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	cfg.MaxAttempts = maxAttempts
	cfg.Timeout = timeout
	cfg.Retryable = retryable
	return cfg
}

func (c RetryConfig) shouldRetry(err error) bool {
	if c.Retryable == nil {
		return true
	}
	return c.Retryable(err)
}

// WithRetry executes the given operation with retries based on the provided config.
func WithRetry[T any](ctx context.Context, operation RetryableFunc[T], config RetryConfig) (T, error) {
	var lastErr error
	var zero T

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		attemptCtx, cancel := ctx, context.CancelFunc(func() {})
		if config.Timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, config.Timeout)
		}

		result, err := operation(attemptCtx)
		cancel()

		if err == nil {
			return result, nil
		}

		lastErr = err

		if attempt == config.MaxAttempts {
			break
		}

		if !config.shouldRetry(err) {
			break
		}

		// InitialDelay * (BackoffFactor ^ (attempt - 1)), capped at MaxDelay
		backoff := float64(config.InitialDelay) * math.Pow(config.BackoffFactor, float64(attempt-1))
		delay := time.Duration(backoff)

		if config.MaxDelay > 0 && delay > config.MaxDelay {
			delay = config.MaxDelay
		}

		// Add jitter (up to 10% of the delay)
		jitterRange := int64(delay) / 10
		if jitterRange > 0 {
			jitter := time.Duration(rand.Int63n(jitterRange))
			delay += jitter
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, lastErr
}
