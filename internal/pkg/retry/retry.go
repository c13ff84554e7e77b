package retry

import (
	"context"
	"math/rand"
	"time"

	"merchops/internal/config"
)

// Do runs fn up to policy.Attempts times with jittered exponential backoff.
// A non-nil retryable filter stops retrying as soon as it reports false;
// conflict-style rejections must not be replayed against the server.
func Do(ctx context.Context, policy config.Retry, retryable func(error) bool, fn func() error) error {
	d := policy.Base
	var err error

	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i := 0; i < policy.Attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if retryable != nil && !retryable(err) {
			return err
		}

		delay := d
		if policy.JitterFactor > 0 {
			jitter := 1 + policy.JitterFactor*(2*r.Float64()-1)
			delay = time.Duration(float64(delay) * jitter)
		}
		if policy.Max > 0 && delay > policy.Max {
			delay = policy.Max
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}

		d *= 2
		if policy.Max > 0 && d > policy.Max {
			d = policy.Max
		}
	}
	return err
}
