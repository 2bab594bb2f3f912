// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"time"
)

const defaultMaxRetries = 2

// WithRetry executes op up to maxRetries+1 times with exponential backoff.
// The delay before retry k is baseDelay * 2^(k-1): 250ms, 500ms, 1s for the
// default base. No jitter is applied so retry timing stays deterministic.
//
// When maxRetries is negative the default (2) is used. If every attempt
// fails, the final attempt's error is returned unchanged. Cancellation
// aborts immediately: a cancelled context during the backoff wait returns
// ctx.Err(), and an op failure caused by cancellation is never retried.
func WithRetry[T any](ctx context.Context, op func(context.Context) (T, error), maxRetries int, baseDelay time.Duration) (T, error) {
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}

	var zero T
	var lastErr error
	delay := baseDelay

	for attempt := 0; ; attempt++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if Cancelled(err) || attempt >= maxRetries {
			return zero, lastErr
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}
