package docmirror

import (
	"sort"
	"sync"
	"time"
)

// PageMeta is the per-page record kept in the crawl index, keyed by the
// page's canonical URL. The Markdown body is not part of it; that lives
// only in the saved document. The table of contents and resume logic are
// built from these records.
type PageMeta struct {
	Title    string
	Filename string
	Depth    int    // BFS distance from the start URL at first discovery
	Parent   string // URL the page was first discovered from; empty for roots
}

// Checkpoint is the persisted form of crawl progress: the visited URLs, the
// page index, and the time of the last save.
type Checkpoint struct {
	Visited     []string
	Pages       map[string]PageMeta
	LastUpdated time.Time
}

// CrawlState owns the mutable bookkeeping of a crawl: which URLs have been
// queued (frontier dedup), which have been fully processed, and the metadata
// index of discovered pages. It is safe for concurrent use.
//
// The distinction between visited and done matters for resume: a URL is
// visited the moment it is enqueued, but only done once it was saved or
// skipped as already saved. Checkpoints persist the done set, so URLs that
// were merely queued, or that failed, are eligible again in a later run.
type CrawlState struct {
	mu      sync.Mutex
	visited map[string]struct{}
	done    map[string]struct{}
	pages   map[string]PageMeta
}

// NewCrawlState returns an empty CrawlState.
func NewCrawlState() *CrawlState {
	return &CrawlState{
		visited: make(map[string]struct{}),
		done:    make(map[string]struct{}),
		pages:   make(map[string]PageMeta),
	}
}

// NewCrawlStateFromCheckpoint restores state from a loaded checkpoint.
// Checkpointed URLs are restored as done but not visited: the frontier
// dedup set is per-run state, and a resumed run must be able to re-walk
// mirrored pages to reach children that were never enqueued.
func NewCrawlStateFromCheckpoint(cp *Checkpoint) *CrawlState {
	s := NewCrawlState()
	if cp == nil {
		return s
	}
	for _, u := range cp.Visited {
		s.done[u] = struct{}{}
	}
	for u, meta := range cp.Pages {
		s.pages[u] = meta
	}
	return s
}

// MarkVisited records url as visited. It reports whether the URL was newly
// marked, so callers can use it as an atomic check-and-set when deciding
// whether to enqueue.
func (s *CrawlState) MarkVisited(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.visited[url]; ok {
		return false
	}
	s.visited[url] = struct{}{}
	return true
}

// Visited reports whether url has been marked visited.
func (s *CrawlState) Visited(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.visited[url]
	return ok
}

// MarkDone records that url was fully processed: its document was saved, or
// it was skipped because the document already existed.
func (s *CrawlState) MarkDone(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visited[url] = struct{}{}
	s.done[url] = struct{}{}
}

// Done reports whether url has been fully processed.
func (s *CrawlState) Done(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.done[url]
	return ok
}

// RecordPage stores meta for url unless an entry already exists. The first
// discovery of a page fixes its depth and parent; later sightings must not
// alter them. It reports whether the entry was newly recorded.
func (s *CrawlState) RecordPage(url string, meta PageMeta) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pages[url]; ok {
		return false
	}
	s.pages[url] = meta
	return true
}

// Page returns the recorded metadata for url.
func (s *CrawlState) Page(url string) (PageMeta, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta, ok := s.pages[url]
	return meta, ok
}

// Pages returns a copy of the page index.
func (s *CrawlState) Pages() map[string]PageMeta {
	s.mu.Lock()
	defer s.mu.Unlock()
	pages := make(map[string]PageMeta, len(s.pages))
	for u, meta := range s.pages {
		pages[u] = meta
	}
	return pages
}

// PageCount returns the number of recorded pages.
func (s *CrawlState) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

// Checkpoint returns a snapshot suitable for persisting: the done URLs,
// sorted for deterministic output, plus a copy of the page index.
func (s *CrawlState) Checkpoint() *Checkpoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	visited := make([]string, 0, len(s.done))
	for u := range s.done {
		visited = append(visited, u)
	}
	sort.Strings(visited)

	pages := make(map[string]PageMeta, len(s.pages))
	for u, meta := range s.pages {
		pages[u] = meta
	}

	return &Checkpoint{
		Visited:     visited,
		Pages:       pages,
		LastUpdated: time.Now(),
	}
}
