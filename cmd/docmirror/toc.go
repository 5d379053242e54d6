package main

import (
	"time"

	"github.com/docmirror/docmirror"
	"github.com/docmirror/docmirror/fs"
)

// Run executes the toc command.
func (c *TocCmd) Run(deps *Dependencies) error {
	cp, err := deps.Progress.Load(deps.Ctx)
	if err != nil {
		return err
	}

	pages := cp.Pages
	if len(pages) == 0 {
		// No index to work from; build from the document headers instead.
		if pages, _, err = deps.Store.Scan(); err != nil {
			return err
		}
	}

	toc := docmirror.BuildTOC(pages)
	if err := deps.Documents.WriteTOC([]byte(toc.Render(time.Now()))); err != nil {
		return err
	}

	deps.Out.infof("Table of contents rebuilt: %d pages in %s", toc.Total, c.Out+"/"+fs.TOCFilename)
	return nil
}
