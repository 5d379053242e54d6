// Package fs persists mirrored documents and crawl progress on the local
// filesystem.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/docmirror/docmirror"
)

// TOCFilename is the generated table of contents in the mirror directory.
const TOCFilename = "TABLE_OF_CONTENTS.md"

// indexFiles are generated artifacts that live alongside documents but are
// never treated as documents themselves.
var indexFiles = map[string]struct{}{
	TOCFilename: {},
	"INDEX.md":  {},
}

// Ensure Store implements docmirror.DocumentStore at compile time.
var _ docmirror.DocumentStore = (*Store)(nil)

// Store keeps one Markdown file per page in a flat mirror directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. The directory is created on the
// first write if it does not exist; use EnsureDir to fail fast at startup.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the mirror directory path.
func (s *Store) Dir() string {
	return s.dir
}

// EnsureDir creates the mirror directory if needed.
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return docmirror.Errorf(docmirror.EINTERNAL, "creating output directory %s: %v", s.dir, err)
	}
	return nil
}

// Exists reports whether filename has already been saved.
func (s *Store) Exists(filename string) bool {
	info, err := os.Stat(filepath.Join(s.dir, filename))
	return err == nil && !info.IsDir()
}

// Write saves a complete document under filename.
func (s *Store) Write(ctx context.Context, filename string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return docmirror.Errorf(docmirror.EINTERNAL, "creating output directory %s: %v", s.dir, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, filename), content, 0644); err != nil {
		return docmirror.Errorf(docmirror.EINTERNAL, "writing %s: %v", filename, err)
	}
	return nil
}

// Read returns the full content of a saved document.
func (s *Store) Read(filename string) ([]byte, error) {
	content, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, docmirror.Errorf(docmirror.ENOTFOUND, "document %s does not exist", filename)
		}
		return nil, docmirror.Errorf(docmirror.EINTERNAL, "reading %s: %v", filename, err)
	}
	return content, nil
}

// ReadHeader parses the provenance header of a saved document. A document
// whose heading line is missing falls back to its filename as the title.
func (s *Store) ReadHeader(filename string) (*docmirror.DocHeader, error) {
	content, err := s.Read(filename)
	if err != nil {
		return nil, err
	}
	header, err := docmirror.ParseHeader(content)
	if err != nil {
		return nil, err
	}
	if header.Title == "" {
		header.Title = filename
	}
	return header, nil
}

// List returns the saved document filenames in lexical order, excluding
// generated index files.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, docmirror.Errorf(docmirror.EINTERNAL, "reading output directory %s: %v", s.dir, err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		if _, generated := indexFiles[name]; generated {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// Remove deletes a saved document.
func (s *Store) Remove(filename string) error {
	if err := os.Remove(filepath.Join(s.dir, filename)); err != nil {
		if os.IsNotExist(err) {
			return docmirror.Errorf(docmirror.ENOTFOUND, "document %s does not exist", filename)
		}
		return docmirror.Errorf(docmirror.EINTERNAL, "removing %s: %v", filename, err)
	}
	return nil
}

// WriteTOC replaces the generated table of contents.
func (s *Store) WriteTOC(content []byte) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return docmirror.Errorf(docmirror.EINTERNAL, "creating output directory %s: %v", s.dir, err)
	}
	path := filepath.Join(s.dir, TOCFilename)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return docmirror.Errorf(docmirror.EINTERNAL, "writing %s: %v", TOCFilename, err)
	}
	return nil
}

// Scan rebuilds a page index from the documents on disk by reading each
// file's header. Files without a parseable header are reported in skipped
// rather than failing the scan. Scanned entries carry depth 0 and no parent;
// the on-disk corpus does not retain the discovery hierarchy.
func (s *Store) Scan() (pages map[string]docmirror.PageMeta, skipped []string, err error) {
	names, err := s.List()
	if err != nil {
		return nil, nil, err
	}

	pages = make(map[string]docmirror.PageMeta, len(names))
	for _, name := range names {
		header, err := s.ReadHeader(name)
		if err != nil {
			skipped = append(skipped, name)
			continue
		}
		url := docmirror.NormalizeURL(header.SourceURL)
		if _, ok := pages[url]; ok {
			// duplicate Source lines resolve at reconcile time, not here
			skipped = append(skipped, name)
			continue
		}
		pages[url] = docmirror.PageMeta{
			Title:    header.Title,
			Filename: name,
		}
	}
	return pages, skipped, nil
}
