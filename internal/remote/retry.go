package remote

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// Retrying re-issues failed calls with exponential backoff. With zero
// retries it is a pass-through.
type Retrying struct {
	next    Facade
	retries uint64
	base    time.Duration
}

func NewRetrying(next Facade, retries uint64, base time.Duration) *Retrying {
	if base <= 0 {
		base = 200 * time.Millisecond
	}
	return &Retrying{next: next, retries: retries, base: base}
}

func (r *Retrying) Call(ctx context.Context, req Request) Envelope {
	if r.retries == 0 {
		return r.next.Call(ctx, req)
	}

	var env Envelope
	b := retry.WithMaxRetries(r.retries, retry.NewExponential(r.base))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		env = r.next.Call(ctx, req)
		if !env.Success {
			return retry.RetryableError(env.Err())
		}
		return nil
	})
	// env is zero when the context ended before the first attempt
	if err != nil && env.Error == "" {
		env.Error = err.Error()
	}
	return env
}
