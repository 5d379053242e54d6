package mock

import (
	"context"

	"github.com/docmirror/docmirror"
)

var _ docmirror.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is a mock implementation of docmirror.DocumentStore.
type DocumentStore struct {
	ExistsFn     func(filename string) bool
	WriteFn      func(ctx context.Context, filename string, content []byte) error
	ReadFn       func(filename string) ([]byte, error)
	ReadHeaderFn func(filename string) (*docmirror.DocHeader, error)
	ListFn       func() ([]string, error)
	RemoveFn     func(filename string) error
	WriteTOCFn   func(content []byte) error
}

func (s *DocumentStore) Exists(filename string) bool {
	return s.ExistsFn(filename)
}

func (s *DocumentStore) Write(ctx context.Context, filename string, content []byte) error {
	return s.WriteFn(ctx, filename, content)
}

func (s *DocumentStore) Read(filename string) ([]byte, error) {
	return s.ReadFn(filename)
}

func (s *DocumentStore) ReadHeader(filename string) (*docmirror.DocHeader, error) {
	return s.ReadHeaderFn(filename)
}

func (s *DocumentStore) List() ([]string, error) {
	return s.ListFn()
}

func (s *DocumentStore) Remove(filename string) error {
	return s.RemoveFn(filename)
}

func (s *DocumentStore) WriteTOC(content []byte) error {
	return s.WriteTOCFn(content)
}
