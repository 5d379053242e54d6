package docmirror

import (
	"net/url"
	"path"
	"strings"
)

// minPageIDDigits is the minimum length of an all-digit path segment for it
// to count as a numeric page ID. Shorter runs of digits show up in ordinary
// slugs and versions too often to be trusted.
const minPageIDDigits = 6

// maxSlugLen bounds fallback slugs to stay within filesystem name limits.
const maxSlugLen = 200

// NormalizeURL reduces rawURL to its canonical form: scheme, host and path
// with the fragment and query stripped and any trailing slash removed.
// Invalid URLs are returned unchanged so lookups stay consistent.
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	u.RawQuery = ""
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	return u.String()
}

// PageID scans the URL path for the first segment that is all digits and at
// least six digits long. It reports whether such a segment was found.
func PageID(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	for _, seg := range strings.Split(u.Path, "/") {
		if len(seg) >= minPageIDDigits && isAllDigits(seg) {
			return seg, true
		}
	}
	return "", false
}

// Slug derives a filesystem-safe identifier from the last non-empty path
// segment. URL-encoded spaces and plus signs become underscores; everything
// outside [A-Za-z0-9_-] is dropped; the result is length-bounded.
func Slug(rawURL string) string {
	seg := "index"
	if u, err := url.Parse(rawURL); err == nil {
		// EscapedPath keeps %20 literal so encoded spaces can become
		// underscores instead of being dropped
		for _, s := range strings.Split(u.EscapedPath(), "/") {
			if s != "" {
				seg = s
			}
		}
	}

	seg = strings.ReplaceAll(seg, "+", "_")
	seg = strings.ReplaceAll(seg, "%20", "_")

	var b strings.Builder
	for _, r := range seg {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	slug := b.String()
	if slug == "" {
		return "page"
	}
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}
	return slug
}

// LogicalID resolves the stable identity of a URL: the numeric page ID when
// present, the fallback slug otherwise. It is pure and total.
func LogicalID(rawURL string) string {
	if id, ok := PageID(rawURL); ok {
		return id
	}
	return Slug(rawURL)
}

// FilenameFor maps a logical ID to its canonical on-disk name.
func FilenameFor(logicalID string) string {
	return logicalID + ".md"
}

// Filename resolves the canonical on-disk name for a URL in one step.
func Filename(rawURL string) string {
	return FilenameFor(LogicalID(rawURL))
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// skipExtensions lists file extensions the crawler never follows.
var skipExtensions = map[string]struct{}{
	".pdf":  {},
	".zip":  {},
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
}

// Scope bounds a crawl to one documentation space: a single host and an
// optional path prefix, with binary and media URLs excluded.
type Scope struct {
	Host       string
	PathPrefix string
}

// NewScope derives a Scope from a start URL. The path prefix is the portion
// of the path before the numeric page ID segment when one is present (the
// space the page lives in); otherwise the path minus its final segment. An
// empty prefix admits the whole host.
func NewScope(startURL string) (*Scope, error) {
	u, err := url.Parse(startURL)
	if err != nil || u.Host == "" {
		return nil, Errorf(EINVALID, "invalid start URL %q", startURL)
	}

	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	prefix := ""
	if id, ok := PageID(startURL); ok {
		var kept []string
		for _, seg := range segs {
			if seg == id {
				break
			}
			kept = append(kept, seg)
		}
		prefix = strings.Join(kept, "/")
	} else if len(segs) > 1 {
		prefix = strings.Join(segs[:len(segs)-1], "/")
	}
	if prefix != "" {
		prefix = "/" + prefix
	}

	return &Scope{Host: strings.ToLower(u.Host), PathPrefix: prefix}, nil
}

// Allows reports whether rawURL belongs to the scope: same host, within the
// path prefix, and not a binary or media file.
func (s *Scope) Allows(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !strings.EqualFold(u.Host, s.Host) {
		return false
	}
	if s.PathPrefix != "" && u.Path != s.PathPrefix && !strings.HasPrefix(u.Path, s.PathPrefix+"/") {
		return false
	}
	if _, skip := skipExtensions[strings.ToLower(path.Ext(u.Path))]; skip {
		return false
	}
	return true
}
