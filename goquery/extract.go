// Package goquery provides CSS-selector based content extraction and link
// harvesting for documentation pages.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/docmirror/docmirror"
)

// contentSelectors is the ordered candidate list for locating the primary
// content region. First match wins. The list is tuned for Confluence-style
// spaces first, generic article markup after, with body as the final
// catch-all.
var contentSelectors = []string{
	"#main-content",
	"div.wiki-content",
	"main",
	"article",
	"[role=main]",
	".content-body",
	"body",
}

// Ensure SelectorExtractor implements docmirror.Extractor at compile time.
var _ docmirror.Extractor = (*SelectorExtractor)(nil)

// SelectorExtractor locates the primary content region of a page by probing
// an ordered list of CSS selectors. Link and image targets inside the region
// are rewritten to absolute URLs so the saved Markdown stays resolvable
// outside the site.
type SelectorExtractor struct{}

// NewSelectorExtractor creates a new SelectorExtractor.
func NewSelectorExtractor() *SelectorExtractor {
	return &SelectorExtractor{}
}

// Extract returns the first matching content region and the page title.
// The title comes from the document's first h1, then the <title> element,
// then a generic placeholder.
func (e *SelectorExtractor) Extract(html, pageURL string) (*docmirror.ExtractResult, error) {
	if strings.TrimSpace(html) == "" {
		return nil, docmirror.Errorf(docmirror.ENOCONTENT, "no content region in %s", pageURL)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, docmirror.Errorf(docmirror.EINVALID, "invalid page URL %q: %v", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docmirror.Errorf(docmirror.EINVALID, "failed to parse HTML: %v", err)
	}

	var region *goquery.Selection
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			region = sel
			break
		}
	}
	if region == nil || isEmptyRegion(region) {
		return nil, docmirror.Errorf(docmirror.ENOCONTENT, "no content region in %s", pageURL)
	}

	absolutifyAttrs(region, base)

	contentHTML, err := goquery.OuterHtml(region)
	if err != nil {
		return nil, docmirror.Errorf(docmirror.EINTERNAL, "rendering content region: %v", err)
	}

	return &docmirror.ExtractResult{
		Title:       extractTitle(doc),
		ContentHTML: contentHTML,
	}, nil
}

// extractTitle returns the page title: first h1, then <title>, then
// "Untitled".
func extractTitle(doc *goquery.Document) string {
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return collapseWhitespace(h1)
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return collapseWhitespace(t)
	}
	return "Untitled"
}

// absolutifyAttrs rewrites href and src attributes within the region to
// absolute URLs resolved against base. Non-HTTP schemes are left untouched.
func absolutifyAttrs(region *goquery.Selection, base *url.URL) {
	rewrite := func(sel *goquery.Selection, attr string) {
		val, ok := sel.Attr(attr)
		if !ok || val == "" || isNonHTTPLink(val) {
			return
		}
		ref, err := url.Parse(val)
		if err != nil || ref.IsAbs() {
			return
		}
		sel.SetAttr(attr, base.ResolveReference(ref).String())
	}
	region.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		rewrite(sel, "href")
	})
	region.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		rewrite(sel, "src")
	})
}

// isEmptyRegion reports whether the region carries neither text nor child
// elements. The body selector matches even for degenerate input, so the
// emptiness check is what actually distinguishes "no content" pages.
func isEmptyRegion(region *goquery.Selection) bool {
	return strings.TrimSpace(region.Text()) == "" && region.Children().Length() == 0
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
