package job

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fwojciec/ljdl"
)

// DefaultRetryDelays returns the backoff delays for download retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// retryable reports whether an attempt that failed with err may be repeated.
// Errors that declare themselves through Retryable decide for themselves,
// other application errors are permanent, anything else is treated as a
// transport failure.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var r interface{ Retryable() bool }
	if errors.As(err, &r) {
		return r.Retryable()
	}
	return ljdl.ErrorCode(err) == ljdl.EINTERNAL
}

// WithRetry calls attempt until it succeeds, fails permanently or the
// delays are used up. One initial attempt is followed by one retry per delay.
// The logger, if provided, is told about each retry.
func WithRetry(ctx context.Context, url string, delays []time.Duration, logger *slog.Logger, attempt func() error) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	maxAttempts := len(delays) + 1

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		err := attempt()
		if err == nil {
			return nil
		}
		lastErr = err

		// Don't retry after the last attempt or on permanent errors
		if i >= maxAttempts-1 || !retryable(err) {
			break
		}

		logger.Warn("retry download",
			"url", url,
			"attempt", i+2,
			"err", err,
		)

		// Wait before next attempt
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delays[i]):
		}
	}

	return lastErr
}
