// Package readability provides a content extractor built on the arc90
// readability algorithm.
package readability

import (
	"net/url"
	"strings"

	"github.com/docmirror/docmirror"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements docmirror.Extractor at compile time.
var _ docmirror.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to score and extract the main content of a
// page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML fetched from pageURL and returns the main
// content region. The page URL is used to resolve relative links in the
// extracted content.
func (e *Extractor) Extract(rawHTML, pageURL string) (*docmirror.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docmirror.Errorf(docmirror.ENOCONTENT, "no content region in %s", pageURL)
	}

	var base *url.URL
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		base = u
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), base)
	if err != nil {
		return nil, docmirror.Errorf(docmirror.ENOCONTENT, "no content region in %s: %v", pageURL, err)
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, docmirror.Errorf(docmirror.ENOCONTENT, "no content region in %s", pageURL)
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = "Untitled"
	}

	return &docmirror.ExtractResult{
		Title:       title,
		ContentHTML: article.Content,
	}, nil
}
