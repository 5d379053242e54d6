package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/docmirror/docmirror"
)

// Ensure LoggingProgressStore implements docmirror.ProgressStore.
var _ docmirror.ProgressStore = (*LoggingProgressStore)(nil)

// LoggingProgressStore wraps a ProgressStore with checkpoint logging.
type LoggingProgressStore struct {
	next   docmirror.ProgressStore
	logger *slog.Logger
}

// NewLoggingProgressStore creates a new LoggingProgressStore.
func NewLoggingProgressStore(next docmirror.ProgressStore, logger *slog.Logger) *LoggingProgressStore {
	return &LoggingProgressStore{next: next, logger: logger}
}

// Load logs the size of the restored checkpoint and delegates to the
// wrapped store.
func (s *LoggingProgressStore) Load(ctx context.Context) (cp *docmirror.Checkpoint, err error) {
	defer func(begin time.Time) {
		visited, pages := 0, 0
		if cp != nil {
			visited, pages = len(cp.Visited), len(cp.Pages)
		}
		s.logger.Info("progress load",
			"visited", visited,
			"pages", pages,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx)
}

// Save logs the checkpoint size and delegates to the wrapped store.
func (s *LoggingProgressStore) Save(ctx context.Context, cp *docmirror.Checkpoint) (err error) {
	defer func(begin time.Time) {
		visited, pages := 0, 0
		if cp != nil {
			visited, pages = len(cp.Visited), len(cp.Pages)
		}
		s.logger.Info("progress save",
			"visited", visited,
			"pages", pages,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(ctx, cp)
}
