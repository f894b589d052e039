// Package retry repeats failing lookup calls with exponential backoff.
// It is used inside lookup adapters; the batch executor itself never retries.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Config holds the retry configuration options.
type Config struct {
	// MaxAttempts is the maximum number of attempts, including the first one.
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the delay between attempts.
	MaxDelay time.Duration

	// Multiplier is the factor by which the delay grows after each retry.
	Multiplier float64

	// JitterFactor adds up to this fraction of the delay at random (0.0 to 1.0).
	JitterFactor float64

	// RetryIf decides whether an error is worth another attempt.
	// If nil, every non-permanent error is retried.
	RetryIf func(error) bool

	// OnRetry is called before each wait with the failed attempt number.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// LookupConfig suits a single pricing call made inside a rate-limited batch:
// few attempts and short waits, since every attempt counts against the quota.
var LookupConfig = Config{
	MaxAttempts:  3,
	InitialDelay: 500 * time.Millisecond,
	MaxDelay:     5 * time.Second,
	Multiplier:   2.0,
	JitterFactor: 0.2,
}

// TokenConfig is used for credential refreshes.
var TokenConfig = Config{
	MaxAttempts:  2,
	InitialDelay: 200 * time.Millisecond,
	MaxDelay:     time.Second,
	Multiplier:   2.0,
	JitterFactor: 0.1,
}

// Do executes fn with retry logic and returns the last error if every attempt fails.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	_, err := DoWithResult(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithResult executes fn with retry logic and returns its result.
func DoWithResult[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	var result T
	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		result, lastErr = fn()
		if lastErr == nil {
			return result, nil
		}
		if !shouldRetry(cfg, lastErr) || attempt == cfg.MaxAttempts {
			break
		}

		wait := nextWait(delay, cfg.MaxDelay, cfg.JitterFactor, lastErr)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, lastErr, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, ctx.Err()
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
	}

	return result, unwrapPermanent(lastErr)
}

func shouldRetry(cfg Config, err error) bool {
	if IsPermanent(err) {
		return false
	}
	return cfg.RetryIf == nil || cfg.RetryIf(err)
}

// nextWait computes the wait with jitter and a cap. A server-provided
// Retry-After hint replaces the computed delay but still honours the cap.
func nextWait(delay, maxDelay time.Duration, jitterFactor float64, err error) time.Duration {
	var after *AfterError
	if errors.As(err, &after) && after.Wait > 0 {
		delay = after.Wait
		jitterFactor = 0
	}

	wait := delay + time.Duration(rand.Float64()*float64(delay)*jitterFactor)
	if maxDelay > 0 && wait > maxDelay {
		wait = maxDelay
	}
	return wait
}

// Permanent wraps an error to indicate it should not be retried.
type Permanent struct {
	Err error
}

func (p *Permanent) Error() string {
	if p.Err == nil {
		return "permanent error"
	}
	return p.Err.Error()
}

func (p *Permanent) Unwrap() error {
	return p.Err
}

// NewPermanent creates a permanent (non-retryable) error.
func NewPermanent(err error) error {
	if err == nil {
		return nil
	}
	return &Permanent{Err: err}
}

// IsPermanent checks if an error is permanent (non-retryable).
func IsPermanent(err error) bool {
	var permanent *Permanent
	return errors.As(err, &permanent)
}

// unwrapPermanent strips the Permanent marker so callers see the cause.
func unwrapPermanent(err error) error {
	var permanent *Permanent
	if errors.As(err, &permanent) && permanent.Err != nil {
		return permanent.Err
	}
	return err
}

// AfterError carries a server-requested wait, such as an HTTP Retry-After header.
type AfterError struct {
	Err  error
	Wait time.Duration
}

func (a *AfterError) Error() string {
	return a.Err.Error()
}

func (a *AfterError) Unwrap() error {
	return a.Err
}

// After wraps err with a wait hint for the next attempt.
func After(err error, wait time.Duration) error {
	if err == nil {
		return nil
	}
	return &AfterError{Err: err, Wait: wait}
}

// WithRetryIf returns a new config with the given RetryIf predicate.
func (c Config) WithRetryIf(fn func(error) bool) Config {
	c.RetryIf = fn
	return c
}

// WithMaxAttempts returns a new config with the given max attempts.
func (c Config) WithMaxAttempts(n int) Config {
	c.MaxAttempts = n
	return c
}

// WithDelays returns a new config with the given initial and max delays.
func (c Config) WithDelays(initial, maxDelay time.Duration) Config {
	c.InitialDelay = initial
	c.MaxDelay = maxDelay
	return c
}

// WithOnRetry returns a new config with the given retry hook.
func (c Config) WithOnRetry(fn func(attempt int, err error, wait time.Duration)) Config {
	c.OnRetry = fn
	return c
}
