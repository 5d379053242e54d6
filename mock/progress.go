package mock

import (
	"context"

	"github.com/docmirror/docmirror"
)

var _ docmirror.ProgressStore = (*ProgressStore)(nil)

// ProgressStore is a mock implementation of docmirror.ProgressStore.
type ProgressStore struct {
	LoadFn func(ctx context.Context) (*docmirror.Checkpoint, error)
	SaveFn func(ctx context.Context, cp *docmirror.Checkpoint) error
}

func (s *ProgressStore) Load(ctx context.Context) (*docmirror.Checkpoint, error) {
	return s.LoadFn(ctx)
}

func (s *ProgressStore) Save(ctx context.Context, cp *docmirror.Checkpoint) error {
	return s.SaveFn(ctx, cp)
}
