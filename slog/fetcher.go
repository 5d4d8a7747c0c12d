// Package slog provides logging decorators for the domain services.
package slog

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/ljdl"
)

// Compile-time interface verification.
var (
	_ ljdl.Fetcher     = (*LoggingFetcher)(nil)
	_ ljdl.FileFetcher = (*LoggingFileFetcher)(nil)
)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   ljdl.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next ljdl.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (resp *ljdl.Response, err error) {
	defer func(begin time.Time) {
		status, size := 0, 0
		if resp != nil {
			status, size = resp.StatusCode, len(resp.Body)
		}
		f.logger.Debug("fetch",
			"url", url,
			"status", status,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// SetCookie logs the cookie name and domain and delegates to the wrapped fetcher.
func (f *LoggingFetcher) SetCookie(cookie ljdl.Cookie) (err error) {
	defer func() {
		f.logger.Debug("set cookie",
			"name", cookie.Name,
			"domain", cookie.Domain,
			"err", err,
		)
	}()
	return f.next.SetCookie(cookie)
}

// LoggingFileFetcher wraps a FileFetcher with debug logging.
type LoggingFileFetcher struct {
	next   ljdl.FileFetcher
	logger *slog.Logger
}

// NewLoggingFileFetcher creates a new LoggingFileFetcher.
func NewLoggingFileFetcher(next ljdl.FileFetcher, logger *slog.Logger) *LoggingFileFetcher {
	return &LoggingFileFetcher{next: next, logger: logger}
}

// FetchFile logs the file request and delegates to the wrapped fetcher.
// The duration covers opening the response, not reading the body.
func (f *LoggingFileFetcher) FetchFile(ctx context.Context, url string) (rc io.ReadCloser, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("fetch file",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchFile(ctx, url)
}
