package mock

import (
	"context"

	"github.com/fwojciec/ljdl"
)

var _ ljdl.ArchiveService = (*ArchiveService)(nil)

// ArchiveService is a mock implementation of ljdl.ArchiveService.
type ArchiveService struct {
	HasEntryFn    func(ctx context.Context, key string) (bool, error)
	CreateEntryFn func(ctx context.Context, entry *ljdl.ArchiveEntry) error
	FindEntriesFn func(ctx context.Context, filter ljdl.ArchiveFilter) ([]*ljdl.ArchiveEntry, error)
	DeleteEntryFn func(ctx context.Context, key string) error
}

func (s *ArchiveService) HasEntry(ctx context.Context, key string) (bool, error) {
	return s.HasEntryFn(ctx, key)
}

func (s *ArchiveService) CreateEntry(ctx context.Context, entry *ljdl.ArchiveEntry) error {
	return s.CreateEntryFn(ctx, entry)
}

func (s *ArchiveService) FindEntries(ctx context.Context, filter ljdl.ArchiveFilter) ([]*ljdl.ArchiveEntry, error) {
	return s.FindEntriesFn(ctx, filter)
}

func (s *ArchiveService) DeleteEntry(ctx context.Context, key string) error {
	return s.DeleteEntryFn(ctx, key)
}
