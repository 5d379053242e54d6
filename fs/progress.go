package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/docmirror/docmirror"
)

// ProgressFilename is the crawl checkpoint kept in the mirror directory.
const ProgressFilename = "INDEX.json"

// Ensure ProgressStore implements docmirror.ProgressStore at compile time.
var _ docmirror.ProgressStore = (*ProgressStore)(nil)

// ProgressStore persists crawl progress as a single human-inspectable JSON
// file. Saves are atomic (temp file + rename) so an interrupted write never
// leaves a truncated checkpoint behind.
type ProgressStore struct {
	path string
}

// NewProgressStore creates a ProgressStore writing to dir/INDEX.json.
func NewProgressStore(dir string) *ProgressStore {
	return &ProgressStore{path: filepath.Join(dir, ProgressFilename)}
}

// Path returns the checkpoint file location.
func (s *ProgressStore) Path() string {
	return s.path
}

// checkpointFile is the on-disk schema. Parent is a pointer so roots
// round-trip as JSON null.
type checkpointFile struct {
	VisitedURLs  []string                `json:"visited_urls"`
	PageMetadata map[string]pageMetaFile `json:"page_metadata"`
	LastUpdated  string                  `json:"last_updated"`
}

type pageMetaFile struct {
	Title    string  `json:"title"`
	Filename string  `json:"filename"`
	Depth    int     `json:"depth"`
	Parent   *string `json:"parent"`
}

// Load reads the last checkpoint. A missing file yields an empty checkpoint
// and no error. A corrupt or unreadable file also yields an empty
// checkpoint, alongside the error so the caller can log it; a broken
// checkpoint must never stop a crawl from starting over.
func (s *ProgressStore) Load(ctx context.Context) (*docmirror.Checkpoint, error) {
	empty := &docmirror.Checkpoint{Pages: map[string]docmirror.PageMeta{}}
	if err := ctx.Err(); err != nil {
		return empty, err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return empty, nil
		}
		return empty, docmirror.Errorf(docmirror.EINTERNAL, "reading progress file %s: %v", s.path, err)
	}

	var file checkpointFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return empty, docmirror.Errorf(docmirror.EINVALID, "corrupt progress file %s: %v", s.path, err)
	}

	cp := &docmirror.Checkpoint{
		Visited: file.VisitedURLs,
		Pages:   make(map[string]docmirror.PageMeta, len(file.PageMetadata)),
	}
	if cp.Visited == nil {
		cp.Visited = []string{}
	}
	for url, meta := range file.PageMetadata {
		parent := ""
		if meta.Parent != nil {
			parent = *meta.Parent
		}
		cp.Pages[url] = docmirror.PageMeta{
			Title:    meta.Title,
			Filename: meta.Filename,
			Depth:    meta.Depth,
			Parent:   parent,
		}
	}
	if t, err := time.ParseInLocation(docmirror.TimestampLayout, file.LastUpdated, time.Local); err == nil {
		cp.LastUpdated = t
	}
	return cp, nil
}

// Save atomically replaces the stored checkpoint.
func (s *ProgressStore) Save(ctx context.Context, cp *docmirror.Checkpoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	updated := cp.LastUpdated
	if updated.IsZero() {
		updated = time.Now()
	}
	file := checkpointFile{
		VisitedURLs:  append([]string{}, cp.Visited...),
		PageMetadata: make(map[string]pageMetaFile, len(cp.Pages)),
		LastUpdated:  updated.Format(docmirror.TimestampLayout),
	}
	sort.Strings(file.VisitedURLs)
	for url, meta := range cp.Pages {
		var parent *string
		if meta.Parent != "" {
			p := meta.Parent
			parent = &p
		}
		file.PageMetadata[url] = pageMetaFile{
			Title:    meta.Title,
			Filename: meta.Filename,
			Depth:    meta.Depth,
			Parent:   parent,
		}
	}

	raw, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return docmirror.Errorf(docmirror.EINTERNAL, "encoding progress: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return docmirror.Errorf(docmirror.EINTERNAL, "creating progress directory: %v", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return docmirror.Errorf(docmirror.EINTERNAL, "writing progress file: %v", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return docmirror.Errorf(docmirror.EINTERNAL, "committing progress file: %v", err)
	}
	return nil
}
