package mock

import "github.com/docmirror/docmirror"

var _ docmirror.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docmirror.Extractor.
type Extractor struct {
	ExtractFn func(html, pageURL string) (*docmirror.ExtractResult, error)
}

func (e *Extractor) Extract(html, pageURL string) (*docmirror.ExtractResult, error) {
	return e.ExtractFn(html, pageURL)
}
