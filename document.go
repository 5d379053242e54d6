package docmirror

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DocHeader is the provenance header carried by every saved document:
// the first heading and the Source line.
type DocHeader struct {
	Title     string
	SourceURL string
}

// RenderDocument assembles the canonical on-disk form of a page: title
// heading, Source line, separator, Markdown body. The header layout is load
// bearing; ParseHeader and the duplicate reconciler depend on it.
func RenderDocument(title, sourceURL, body string) string {
	return fmt.Sprintf("# %s\n\nSource: %s\n\n---\n\n%s", title, sourceURL, body)
}

var (
	headerTitleRe  = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	headerSourceRe = regexp.MustCompile(`(?m)^Source:\s+(.+)$`)
)

// ParseHeader recovers the title and source URL from a saved document.
// The title may be empty when the heading line is missing; a missing Source
// line is an error because the document can no longer be tied to a URL.
func ParseHeader(content []byte) (*DocHeader, error) {
	h := &DocHeader{}
	if m := headerTitleRe.FindSubmatch(content); m != nil {
		h.Title = strings.TrimSpace(string(m[1]))
	}
	m := headerSourceRe.FindSubmatch(content)
	if m == nil {
		return nil, Errorf(ENOTFOUND, "document has no Source line")
	}
	h.SourceURL = strings.TrimSpace(string(m[1]))
	return h, nil
}

var (
	mdLinkRe     = regexp.MustCompile(`\]\(\s*<?([^)<>\s]+)>?(?:\s+"[^"]*")?\s*\)`)
	mdAutolinkRe = regexp.MustCompile(`<(https?://[^>\s]+)>`)
)

// MarkdownLinks harvests link targets from a Markdown body: inline links and
// images plus autolinks, resolved against baseURL, fragments dropped,
// non-HTTP schemes skipped, deduplicated in first-seen order. It lets a
// resumed crawl recover outbound links from already-saved documents without
// refetching them.
func MarkdownLinks(markdown, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	var links []string
	seen := make(map[string]struct{})
	add := func(target string) {
		ref, err := url.Parse(target)
		if err != nil {
			return
		}
		if ref.Scheme != "" && ref.Scheme != "http" && ref.Scheme != "https" {
			return
		}
		resolved := ref
		if base != nil {
			resolved = base.ResolveReference(ref)
		} else if !ref.IsAbs() {
			return
		}
		resolved.Fragment = ""
		s := resolved.String()
		if s == "" || resolved.Host == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		links = append(links, s)
	}

	for _, m := range mdLinkRe.FindAllStringSubmatch(markdown, -1) {
		add(m[1])
	}
	for _, m := range mdAutolinkRe.FindAllStringSubmatch(markdown, -1) {
		add(m[1])
	}
	return links
}
