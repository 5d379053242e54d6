package main

import (
	"net/url"
	"strings"
	"time"

	"github.com/docmirror/docmirror"
	"github.com/docmirror/docmirror/crawl"
	"github.com/docmirror/docmirror/fs"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	s := deps.Scheduler
	s.MaxDepth = c.Depth
	s.Delay = c.Delay
	s.CheckpointEvery = c.CheckpointEvery
	s.Workers = c.Workers
	s.MaxPages = c.MaxPages
	s.Reharvest = c.Reharvest

	if c.Retry > 0 {
		delays := make([]time.Duration, c.Retry)
		d := 1 * time.Second
		for i := range delays {
			delays[i] = d
			d *= 2
		}
		s.RetryDelays = delays
	}

	if c.Scope != "" {
		u, err := url.Parse(c.URL)
		if err != nil || u.Host == "" {
			return docmirror.Errorf(docmirror.EINVALID, "invalid start URL %q", c.URL)
		}
		prefix := strings.TrimSuffix(c.Scope, "/")
		if prefix != "" && !strings.HasPrefix(prefix, "/") {
			prefix = "/" + prefix
		}
		s.Scope = &docmirror.Scope{Host: strings.ToLower(u.Host), PathPrefix: prefix}
	}

	s.OnEvent = func(e crawl.Event) {
		switch e.Outcome {
		case crawl.OutcomeSaved:
			deps.Out.saved(e.URL, e.Depth)
		case crawl.OutcomeSkipped:
			deps.Out.skipped(e.URL)
		case crawl.OutcomeFailed:
			deps.Out.failed(e.URL, e.Err.Error())
		}
	}

	deps.Out.infof("Crawling %s into %s (depth %d)", c.URL, c.Out, c.Depth)

	result, err := s.Run(deps.Ctx, c.URL)
	if err != nil {
		return err
	}

	if result.Interrupted {
		deps.Out.dimf("Interrupted; progress saved, rerun to resume")
	}
	deps.Out.boldf("Saved %d pages (%d skipped, %d failed, %d beyond depth) in %s",
		result.Saved, result.Skipped, result.Failed, result.Dropped,
		result.Duration.Round(time.Second))
	if len(result.Failures) > 0 {
		deps.Out.dimf("Failed pages:")
		for _, f := range result.Failures {
			deps.Out.failed(f.URL, f.Stage+": "+f.Reason)
		}
	}
	deps.Out.infof("Table of contents: %s", c.Out+"/"+fs.TOCFilename)

	return nil
}
