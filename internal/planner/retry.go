package planner

import (
	"context"
	"net/http"
	"time"

	errx "github.com/yatrika/server/internal/core/error"
	logx "github.com/yatrika/server/pkg/logger"
)

const (
	// DefaultMaxAttempts is the total number of conversation attempts per request.
	DefaultMaxAttempts = 3
	// DefaultRetryDelay is the flat pause between rate-limited attempts.
	DefaultRetryDelay = 2 * time.Second
)

// runWithRetry wraps one logical request around fn, which runs a full
// conversation attempt. Only rate-limit failures are retried, with a flat
// delay between attempts; every other failure is terminal on first sight.
// Exhausting the budget surfaces a "service busy" condition.
func runWithRetry(ctx context.Context, attempts int, delay time.Duration, fn func(ctx context.Context) (string, error)) (string, error) {
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	if delay < 0 {
		delay = DefaultRetryDelay
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}

		wrapped := errx.WrapModel(err)
		if wrapped.Kind != errx.KindRateLimited {
			return "", wrapped
		}

		lastErr = wrapped
		logx.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Msg("Model rate limited, retrying")

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", errx.New(ctx.Err(), http.StatusGatewayTimeout, errx.BusyMessage)
		case <-time.After(delay):
		}
	}

	return "", errx.New(lastErr, http.StatusServiceUnavailable, errx.BusyMessage)
}
