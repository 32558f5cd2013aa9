package notify

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounded retry with a fixed delay between attempts
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Backoff), uint64(attempts-1))
	return backoff.WithContext(b, ctx)
}

// Run calls fn until it succeeds, attempts run out or ctx ends.
// Returns the last error, or ctx's error once it is done.
func (p RetryPolicy) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return backoff.Retry(func() error { return fn(ctx) }, p.backOff(ctx))
}
