package mock

import "github.com/docmirror/docmirror"

var _ docmirror.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of docmirror.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html, baseURL string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html, baseURL string) ([]string, error) {
	return e.ExtractLinksFn(html, baseURL)
}
