// Package reconcile detects and removes duplicate documents in a mirror
// directory.
//
// Duplicates appear when the same page was saved under different names by
// earlier crawler versions, typically a slug-named file next to a numeric
// ID one. Documents are grouped by recorded source URL or by numeric page
// ID, and within each group a single keeper is chosen by a deterministic
// order, so a preview, the apply that follows it, and any repeated run all
// agree on what is removed.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/docmirror/docmirror"
)

// Grouping modes.
const (
	ByURL = "url"
	ByID  = "id"
)

// Member is one document inside a duplicate group.
type Member struct {
	Filename  string
	SourceURL string
	Title     string
	Digest    string
	Keep      bool
}

// Group is a set of documents that record the same page. The keeper is
// always the first member. Identical is informational: it reports whether
// every member has the same content digest, and never influences the keep
// decision.
type Group struct {
	Key       string
	Members   []Member
	Identical bool
}

// SkippedFile is a document that could not be scanned.
type SkippedFile struct {
	Filename string
	Reason   string
}

// Plan is a reconciliation preview: exactly what Apply would remove.
type Plan struct {
	Mode     string
	Scanned  int
	Groups   []Group
	Removals []string
	Skipped  []SkippedFile
}

// RemovalError records a file that could not be deleted during Apply.
type RemovalError struct {
	Filename string
	Reason   string
}

// Result reports what Apply changed.
type Result struct {
	Removed      []string
	Errors       []RemovalError
	IndexDropped int
}

// Reconciler plans and applies duplicate removal over a document store.
type Reconciler struct {
	Documents docmirror.DocumentStore
	Progress  docmirror.ProgressStore
	Logger    *slog.Logger
}

// Plan scans every document, groups duplicates according to mode, and picks
// a keeper per group. Files whose header cannot be parsed are skipped and
// never removed. In ByID mode, documents without a numeric page ID in their
// source URL are left alone: slug collisions cannot be told apart from
// distinct pages that share a name.
func (r *Reconciler) Plan(mode string) (*Plan, error) {
	if mode != ByURL && mode != ByID {
		return nil, docmirror.Errorf(docmirror.EINVALID, "unknown reconcile mode %q", mode)
	}

	files, err := r.Documents.List()
	if err != nil {
		return nil, err
	}

	plan := &Plan{Mode: mode, Scanned: len(files)}
	groups := make(map[string][]Member)

	for _, filename := range files {
		content, err := r.Documents.Read(filename)
		if err != nil {
			plan.Skipped = append(plan.Skipped, SkippedFile{Filename: filename, Reason: err.Error()})
			continue
		}
		hdr, err := docmirror.ParseHeader(content)
		if err != nil {
			plan.Skipped = append(plan.Skipped, SkippedFile{Filename: filename, Reason: err.Error()})
			continue
		}

		m := Member{
			Filename:  filename,
			SourceURL: docmirror.NormalizeURL(hdr.SourceURL),
			Title:     hdr.Title,
			Digest:    fmt.Sprintf("%x", xxhash.Sum64(content)),
		}

		key := m.SourceURL
		if mode == ByID {
			id, ok := docmirror.PageID(m.SourceURL)
			if !ok {
				continue
			}
			key = id
		}
		groups[key] = append(groups[key], m)
	}

	keys := make([]string, 0, len(groups))
	for key, members := range groups {
		if len(members) > 1 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		members := groups[key]
		sort.SliceStable(members, func(i, j int) bool {
			return keepOrderLess(members[i], members[j])
		})
		members[0].Keep = true

		identical := true
		for i := 1; i < len(members); i++ {
			if members[i].Digest != members[0].Digest {
				identical = false
			}
			plan.Removals = append(plan.Removals, members[i].Filename)
		}
		plan.Groups = append(plan.Groups, Group{Key: key, Members: members, Identical: identical})
	}

	return plan, nil
}

// Apply removes every loser named by plan, then rewrites the progress index
// and table of contents so neither references a removed file. Removal
// errors are collected per file and do not stop the rest of the plan.
func (r *Reconciler) Apply(ctx context.Context, plan *Plan) (*Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	res := &Result{}
	removed := make(map[string]struct{})
	for _, filename := range plan.Removals {
		if err := r.Documents.Remove(filename); err != nil {
			res.Errors = append(res.Errors, RemovalError{Filename: filename, Reason: err.Error()})
			logger.Warn("duplicate removal failed",
				slog.String("file", filename),
				slog.Any("error", err),
			)
			continue
		}
		removed[filename] = struct{}{}
		res.Removed = append(res.Removed, filename)
		logger.Info("duplicate removed", slog.String("file", filename))
	}

	if len(removed) == 0 {
		return res, nil
	}
	if err := r.rewriteIndex(ctx, removed, res); err != nil {
		return res, err
	}
	return res, nil
}

// rewriteIndex drops index entries whose file was removed, keeping the
// surviving depth/parent hierarchy intact, then saves the checkpoint and
// rebuilds the TOC from the survivors.
func (r *Reconciler) rewriteIndex(ctx context.Context, removed map[string]struct{}, res *Result) error {
	cp, err := r.Progress.Load(ctx)
	if err != nil {
		return err
	}

	droppedURLs := make(map[string]struct{})
	pages := make(map[string]docmirror.PageMeta, len(cp.Pages))
	for u, meta := range cp.Pages {
		if _, gone := removed[meta.Filename]; gone {
			droppedURLs[u] = struct{}{}
			res.IndexDropped++
			continue
		}
		pages[u] = meta
	}

	visited := make([]string, 0, len(cp.Visited))
	for _, u := range cp.Visited {
		if _, gone := droppedURLs[u]; gone {
			continue
		}
		visited = append(visited, u)
	}

	if err := r.Progress.Save(ctx, &docmirror.Checkpoint{Visited: visited, Pages: pages}); err != nil {
		return err
	}

	toc := docmirror.BuildTOC(pages)
	return r.Documents.WriteTOC([]byte(toc.Render(time.Now())))
}

// keepOrderLess orders duplicate-group members best-keeper-first: a source
// URL that continues past the page ID beats a bare one, longer URLs beat
// shorter, numeric filenames beat slug names, and the filename itself is
// the final tiebreak.
func keepOrderLess(a, b Member) bool {
	at, bt := hasTrailingSegment(a.SourceURL), hasTrailingSegment(b.SourceURL)
	if at != bt {
		return at
	}
	if len(a.SourceURL) != len(b.SourceURL) {
		return len(a.SourceURL) > len(b.SourceURL)
	}
	an, bn := numericName(a.Filename), numericName(b.Filename)
	if an != bn {
		return an
	}
	return a.Filename < b.Filename
}

// hasTrailingSegment reports whether the URL path continues past the
// numeric page ID segment, e.g. /pages/100000/About vs /pages/100000.
func hasTrailingSegment(rawURL string) bool {
	id, ok := docmirror.PageID(rawURL)
	if !ok {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segs {
		if seg == id {
			return i < len(segs)-1
		}
	}
	return false
}

// numericName reports whether filename is the bare numeric ID form,
// e.g. 100000.md.
func numericName(filename string) bool {
	base := strings.TrimSuffix(filename, ".md")
	if base == "" {
		return false
	}
	for _, r := range base {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
