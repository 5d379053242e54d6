package docmirror

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title, taken from the content's primary heading
	// with document metadata as fallback.
	Title string

	// ContentHTML is the primary content region as clean HTML with
	// boilerplate (nav, footer, sidebar) removed and link targets
	// rewritten to absolute URLs.
	ContentHTML string
}

// Extractor locates the primary content region of an HTML page.
type Extractor interface {
	// Extract processes raw HTML fetched from pageURL and returns the
	// content region. pageURL is the base for resolving relative links.
	Extract(html, pageURL string) (*ExtractResult, error)
}

// LinkExtractor collects outbound link targets from content HTML.
type LinkExtractor interface {
	// ExtractLinks returns the absolute URLs of anchors found in html,
	// resolved against baseURL, deduplicated in document order.
	// Scope filtering is the caller's concern.
	ExtractLinks(html, baseURL string) ([]string, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be clean HTML (e.g., from an Extractor).
	Convert(html string) (string, error)
}
