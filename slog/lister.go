package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ljdl"
)

// Ensure LoggingLister implements ljdl.PostLister.
var _ ljdl.PostLister = (*LoggingLister)(nil)

// LoggingLister wraps a PostLister with logging.
type LoggingLister struct {
	next   ljdl.PostLister
	logger *slog.Logger
}

// NewLoggingLister creates a new LoggingLister.
func NewLoggingLister(next ljdl.PostLister, logger *slog.Logger) *LoggingLister {
	return &LoggingLister{next: next, logger: logger}
}

// ListPosts delegates to the wrapped lister and logs the operation.
func (l *LoggingLister) ListPosts(ctx context.Context, journal string) (urls []string, err error) {
	defer func(begin time.Time) {
		l.logger.Info("list posts",
			"journal", journal,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.ListPosts(ctx, journal)
}
