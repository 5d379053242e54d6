package main

import (
	"sort"
	"time"

	"github.com/docmirror/docmirror"
)

// Run executes the scan command.
//
// Scanning recovers a lost or stale progress index wholesale: every saved
// document's header becomes an index entry (depth 0, no parent, since the
// crawl hierarchy cannot be recovered from files alone), and the TOC is
// rebuilt to match.
func (c *ScanCmd) Run(deps *Dependencies) error {
	pages, skipped, err := deps.Store.Scan()
	if err != nil {
		return err
	}

	for _, filename := range skipped {
		deps.Out.dimf("skipping %s: no usable header", filename)
	}

	visited := make([]string, 0, len(pages))
	for u := range pages {
		visited = append(visited, u)
	}
	sort.Strings(visited)

	cp := &docmirror.Checkpoint{Visited: visited, Pages: pages}
	if err := deps.Progress.Save(deps.Ctx, cp); err != nil {
		return err
	}

	toc := docmirror.BuildTOC(pages)
	if err := deps.Documents.WriteTOC([]byte(toc.Render(time.Now()))); err != nil {
		return err
	}

	deps.Out.infof("Index rebuilt from %d documents (%d skipped)", len(pages), len(skipped))
	return nil
}
