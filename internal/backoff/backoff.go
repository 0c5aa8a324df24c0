// Package backoff provides jittered retry delays for storage operations.
package backoff

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"time"
)

// Policy configures Retry.
type Policy struct {
	// Base is the first delay and the lower bound of every delay (default 10ms).
	Base time.Duration

	// Multiplier grows the upper bound of the next delay (values < 1 mean 1).
	Multiplier float64

	// Cap bounds every delay; zero means no cap.
	Cap time.Duration

	// MaxAttempts is the number of calls before giving up (default 3).
	MaxAttempts int

	// Seed makes the jitter deterministic when non-zero.
	Seed int64
}

// DefaultPolicy returns the policy used for checkpoint and bucket operations.
func DefaultPolicy() Policy {
	return Policy{
		Base:        10 * time.Millisecond,
		Multiplier:  2.0,
		Cap:         500 * time.Millisecond,
		MaxAttempts: 3,
	}
}

// Jitter implements decorrelated jitter backoff ("Full Jitter" variant) with a cap.
// See: https://aws.amazon.com/blogs/architecture/exponential-backoff-and-jitter/
//
// Given previous delay (prev), computes next delay as:
//
//	next = min(cap, base + rand.Int64N(prev*multiplier-base)) with guards
//
// Behavior:
//   - If prev <= 0, start from base
//   - Multiplier <= 1.0 falls back to 1.0 (no growth)
//   - Cap <= base returns cap
func Jitter(prev, base time.Duration, mult float64, capDur time.Duration, rng *rand.Rand) time.Duration {
	if base <= 0 {
		base = 10 * time.Millisecond
	}
	if mult < 1.0 {
		mult = 1.0
	}
	if capDur > 0 && capDur < base {
		return capDur
	}

	if prev <= 0 {
		return base
	}
	maxDuration := time.Duration(float64(prev)*mult) - base
	if maxDuration <= 0 {
		maxDuration = base
	}

	var jitter int64
	if rng != nil {
		jitter = rng.Int64N(int64(maxDuration))
	} else {
		jitter = rand.Int64N(int64(maxDuration)) //nolint:gosec // non-crypto backoff jitter
	}
	next := base + time.Duration(jitter)
	if capDur > 0 && next > capDur {
		return capDur
	}

	return next
}

// NewRNG returns a deterministic RNG only when a non-zero seed is provided.
// When seed == 0 it returns nil so callers use the package-level PRNG instead.
//
//nolint:gosec
func NewRNG(seed int64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	s1 := uint64(seed)
	s2 := s1 ^ 0x9e3779b97f4a7c15

	return rand.New(rand.NewPCG(s1, s2))
}

// Retry calls fn until it succeeds, the attempts run out, or ctx is done.
//
// Errors for which retryable returns false end the loop immediately. A nil
// retryable retries every error.
//
// Parameters:
//   - ctx: Context for cancellation
//   - p: retry policy
//   - retryable: classifies errors, may be nil
//   - fn: operation to run
//
// Returns:
//   - error: nil on success, otherwise the last error wrapped with the attempt count
func Retry(ctx context.Context, p Policy, retryable func(error) bool, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	rng := NewRNG(p.Seed)

	var (
		lastErr error
		delay   time.Duration
	)
	for attempt := range attempts {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if retryable != nil && !retryable(lastErr) {
			return lastErr
		}
		if ctx.Err() != nil {
			return fmt.Errorf("context cancelled after %d attempts: %w", attempt+1, lastErr)
		}
		if attempt == attempts-1 {
			break
		}

		delay = Jitter(delay, p.Base, p.Multiplier, p.Cap, rng)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("context cancelled after %d attempts: %w", attempt+1, lastErr)
		case <-timer.C:
		}
	}

	return fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr)
}
