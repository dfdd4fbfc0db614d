package download

import (
	"context"
	"errors"
	"time"
)

// Retry defaults.
const (
	DefaultMaxAttempts = 3
	DefaultBackoff     = 3 * time.Second
)

var (
	// ErrEmptyFile signals that a zero-byte file from an earlier, incomplete
	// attempt was found at the destination and removed.
	ErrEmptyFile = errors.New("empty destination file removed")

	// ErrDestinationIsDir signals that a directory occupies the destination
	// path. Retrying cannot fix it.
	ErrDestinationIsDir = errors.New("destination is a directory")
)

// Decision is what a worker should do after a failed attempt.
type Decision int

const (
	// RetryAfterBackoff waits the constant backoff delay, then retries.
	RetryAfterBackoff Decision = iota
	// RetryNow retries immediately, used for removed empty files.
	RetryNow
	// GiveUp marks the target as a terminal failure.
	GiveUp
)

// RetryPolicy centralizes retry and backoff decisions so every failure path
// (stat errors, empty files, request errors, write errors) is handled the
// same way.
//
// The backoff is constant, not exponential.
//
// Example:
//
//	policy := NewRetryPolicy(3, 3*time.Second)
//	for attempts := 1; ; attempts++ {
//	    err := try()
//	    if err == nil {
//	        break
//	    }
//	    if policy.Decide(err, attempts) == GiveUp {
//	        return err
//	    }
//	    policy.Wait(ctx)
//	}
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts allowed per target.
	MaxAttempts int

	// Backoff is the delay before each transient retry.
	Backoff time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryPolicy creates a RetryPolicy. Values below 1 attempt fall back to
// DefaultMaxAttempts; a negative backoff is treated as zero.
func NewRetryPolicy(maxAttempts int, backoff time.Duration) *RetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if backoff < 0 {
		backoff = 0
	}
	return &RetryPolicy{
		MaxAttempts: maxAttempts,
		Backoff:     backoff,
		sleep:       sleepContext,
	}
}

// Decide classifies err after attempts attempts have been made.
func (p *RetryPolicy) Decide(err error, attempts int) Decision {
	switch {
	case attempts >= p.MaxAttempts:
		return GiveUp
	case errors.Is(err, context.Canceled), errors.Is(err, ErrDestinationIsDir):
		return GiveUp
	case errors.Is(err, ErrEmptyFile):
		return RetryNow
	default:
		return RetryAfterBackoff
	}
}

// Wait blocks for the backoff delay or until ctx is done.
func (p *RetryPolicy) Wait(ctx context.Context) error {
	return p.sleep(ctx, p.Backoff)
}

func sleepContext(ctx context.Context, d time.Duration) error {
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
