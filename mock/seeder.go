package mock

import (
	"context"

	"github.com/docmirror/docmirror"
)

var _ docmirror.Seeder = (*Seeder)(nil)

// Seeder is a mock implementation of docmirror.Seeder.
type Seeder struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, scope *docmirror.Scope) ([]string, error)
}

func (s *Seeder) DiscoverURLs(ctx context.Context, baseURL string, scope *docmirror.Scope) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, scope)
}
