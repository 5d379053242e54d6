// Package trafilatura provides a boilerplate-removal content extractor for
// spaces where the CSS selector chain misfires.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/docmirror/docmirror"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements docmirror.Extractor at compile time.
var _ docmirror.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to locate the main content of a page by
// boilerplate-removal heuristics rather than fixed selectors.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML fetched from pageURL and returns the main
// content region. The page URL lets trafilatura resolve relative links in
// the extracted content.
func (e *Extractor) Extract(rawHTML, pageURL string) (*docmirror.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docmirror.Errorf(docmirror.ENOCONTENT, "no content region in %s", pageURL)
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, docmirror.Errorf(docmirror.ENOCONTENT, "no content region in %s: %v", pageURL, err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, docmirror.Errorf(docmirror.EINTERNAL, "rendering content: %v", err)
		}
	}
	if strings.TrimSpace(contentHTML) == "" {
		return nil, docmirror.Errorf(docmirror.ENOCONTENT, "no content region in %s", pageURL)
	}

	title := strings.TrimSpace(result.Metadata.Title)
	if title == "" {
		title = "Untitled"
	}

	return &docmirror.ExtractResult{
		Title:       title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node back to markup.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
