package docmirror

import "context"

// DocumentStore persists normalized documents as files in a mirror
// directory.
type DocumentStore interface {
	// Exists reports whether a document with the given filename has
	// already been saved. The Scheduler uses it to decide skip-vs-fetch.
	Exists(filename string) bool

	// Write saves a complete document (header included) under filename.
	Write(ctx context.Context, filename string, content []byte) error

	// Read returns the full content of a saved document.
	Read(filename string) ([]byte, error)

	// ReadHeader parses the provenance header of a saved document.
	ReadHeader(filename string) (*DocHeader, error)

	// List returns the filenames of all saved documents, excluding
	// generated index files.
	List() ([]string, error)

	// Remove deletes a saved document.
	Remove(filename string) error

	// WriteTOC saves the generated table of contents alongside the
	// documents. The TOC file never appears in List results.
	WriteTOC(content []byte) error
}

// ProgressStore persists crawl progress between runs.
type ProgressStore interface {
	// Load reads the last checkpoint. A missing file yields an empty
	// checkpoint and no error; a corrupt or unreadable file yields an
	// empty checkpoint alongside the error so callers can log it and
	// proceed. Load never returns a nil checkpoint.
	Load(ctx context.Context) (*Checkpoint, error)

	// Save atomically replaces the stored checkpoint.
	Save(ctx context.Context, cp *Checkpoint) error
}

// Seeder discovers additional crawl entry points for a site, such as URLs
// published in sitemaps.
type Seeder interface {
	// DiscoverURLs returns in-scope URLs advertised by the site rooted at
	// baseURL. An empty result is not an error.
	DiscoverURLs(ctx context.Context, baseURL string, scope *Scope) ([]string, error)
}
