// Package crawl provides documentation crawling orchestration.
// It coordinates fetching, extraction, conversion, and storage of
// documentation pages in breadth-first order, with checkpointed progress
// so interrupted runs can resume.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/docmirror/docmirror"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Default crawl parameters.
const (
	DefaultMaxDepth        = 5
	DefaultDelay           = 1 * time.Second
	DefaultCheckpointEvery = 10
)

// Item is one frontier entry: a URL queued for processing together with the
// depth and parent recorded when it was discovered.
type Item struct {
	URL    string
	Depth  int
	Parent string
}

// Outcome classifies how a frontier item was resolved.
type Outcome int

const (
	// OutcomeSaved means the page was fetched, normalized, and written.
	OutcomeSaved Outcome = iota
	// OutcomeSkipped means the document already existed on disk.
	OutcomeSkipped
	// OutcomeFailed means a pipeline stage failed for the page.
	OutcomeFailed
	// OutcomeDropped means the item exceeded the depth limit.
	OutcomeDropped
)

// Event reports the resolution of a single frontier item.
type Event struct {
	Outcome Outcome
	URL     string
	Depth   int
	Title   string
	Err     error
}

// EventFunc is a callback for reporting per-page progress. When Workers is
// greater than one it may be called from multiple goroutines.
type EventFunc func(event Event)

// Pipeline stages reported in Failure records.
const (
	StageFetch   = "fetch"
	StageExtract = "extract"
	StageConvert = "convert"
	StageSave    = "save"
)

// Failure records a page that could not be mirrored.
type Failure struct {
	URL    string
	Stage  string
	Reason string
}

// Result holds the outcome of a crawl run.
type Result struct {
	RunID       string
	StartURL    string
	Saved       int
	Skipped     int
	Failed      int
	Dropped     int
	Seeded      int
	Pages       int
	Failures    []Failure
	Duration    time.Duration
	Interrupted bool
}

// Scheduler orchestrates the breadth-first mirroring of a documentation
// site. It owns the frontier queue and the visited set; fetching,
// normalization, and storage are delegated to the injected services.
//
// The crawl proceeds one depth level at a time: every item of a level is
// processed before any discovery from that level is enqueued, and
// discoveries are applied in item order. Depth and parent assignment is
// therefore deterministic regardless of Workers.
type Scheduler struct {
	Fetcher   docmirror.Fetcher
	Extractor docmirror.Extractor
	Links     docmirror.LinkExtractor
	Converter docmirror.Converter
	Documents docmirror.DocumentStore
	Progress  docmirror.ProgressStore

	// Seeder, when set, contributes sitemap URLs to the frontier at
	// depth 1 after the start page has been processed.
	Seeder docmirror.Seeder

	// Scope limits the crawl. When nil it is derived from the start URL.
	Scope *docmirror.Scope

	// MaxDepth is the deepest level that is still fetched. Items beyond
	// it are dropped at dequeue time. Defaults to DefaultMaxDepth.
	MaxDepth int

	// Delay is the minimum politeness interval between frontier items,
	// skips included. Defaults to DefaultDelay.
	Delay time.Duration

	// CheckpointEvery saves progress after that many pages were saved or
	// skipped. Defaults to DefaultCheckpointEvery.
	CheckpointEvery int

	// Workers is the number of items processed concurrently within a
	// depth level. Defaults to 1, which reproduces a strictly sequential
	// crawl.
	Workers int

	// MaxPages caps the number of pages saved or skipped in this run.
	// Zero means unlimited. With Workers > 1 the cap may overshoot by up
	// to Workers-1 pages.
	MaxPages int

	// RetryDelays enables fetch retries with the given backoff. Nil means
	// a single attempt per page.
	RetryDelays []time.Duration

	// Reharvest re-fetches pages whose documents already exist instead of
	// harvesting their links from disk. The stored document is rewritten.
	Reharvest bool

	Logger  *slog.Logger
	OnEvent EventFunc
}

// Run crawls the site rooted at startURL until the frontier is exhausted,
// the page cap is reached, or ctx is canceled. The final checkpoint and the
// table of contents are written unconditionally, cancellation included, so
// the on-disk state is always resumable. A canceled run returns a Result
// with Interrupted set rather than an error; errors are reserved for an
// unusable start URL and for failures of the final writes.
func (s *Scheduler) Run(ctx context.Context, startURL string) (*Result, error) {
	begin := time.Now()

	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	runID := uuid.NewString()
	logger = logger.With(slog.String("run", runID))

	start := docmirror.NormalizeURL(startURL)
	scope := s.Scope
	if scope == nil {
		var err error
		scope, err = docmirror.NewScope(start)
		if err != nil {
			return nil, err
		}
	}

	cp, err := s.Progress.Load(ctx)
	if err != nil {
		logger.Warn("checkpoint unusable, starting fresh", slog.Any("error", err))
	}
	state := docmirror.NewCrawlStateFromCheckpoint(cp)
	if len(cp.Visited) > 0 {
		logger.Info("resuming crawl",
			slog.Int("visited", len(cp.Visited)),
			slog.Int("pages", state.PageCount()),
		)
	}

	r := &run{
		s:        s,
		scope:    scope,
		state:    state,
		limiter:  NewLimiter(defaultDuration(s.Delay, DefaultDelay)),
		logger:   logger,
		result:   &Result{RunID: runID, StartURL: start},
		maxDepth: defaultInt(s.MaxDepth, DefaultMaxDepth),
		every:    defaultInt(s.CheckpointEvery, DefaultCheckpointEvery),
		workers:  defaultInt(s.Workers, 1),
	}

	// Sitemap seeds join the frontier after the start page so that pages
	// discovered by both paths keep the start page as parent.
	var seeds []string
	if s.Seeder != nil {
		seeds, err = s.Seeder.DiscoverURLs(ctx, start, scope)
		if err != nil {
			logger.Warn("sitemap discovery failed", slog.Any("error", err))
			seeds = nil
		}
	}

	state.MarkVisited(start)
	level := []Item{{URL: start, Depth: 0}}
	logger.Info("crawl started",
		slog.String("url", start),
		slog.Int("maxDepth", r.maxDepth),
		slog.Int("seeds", len(seeds)),
	)

	for len(level) > 0 {
		if ctx.Err() != nil {
			r.result.Interrupted = true
			break
		}
		if r.capped() {
			break
		}

		next := r.processLevel(ctx, level)

		if level[0].Depth == 0 {
			next = append(next, r.seedItems(seeds)...)
		}
		level = next
	}
	if ctx.Err() != nil {
		r.result.Interrupted = true
	}

	// The final checkpoint and TOC are written even when ctx was
	// canceled, so an interrupted run leaves a consistent mirror behind.
	fctx := context.WithoutCancel(ctx)
	saveErr := r.saveCheckpoint(fctx)
	if saveErr != nil {
		logger.Error("final checkpoint save failed", slog.Any("error", saveErr))
	}
	tocErr := r.writeTOC()
	if tocErr != nil {
		logger.Error("table of contents write failed", slog.Any("error", tocErr))
	}

	r.result.Pages = state.PageCount()
	r.result.Duration = time.Since(begin)
	logger.Info("crawl finished",
		slog.Int("saved", r.result.Saved),
		slog.Int("skipped", r.result.Skipped),
		slog.Int("failed", r.result.Failed),
		slog.Int("dropped", r.result.Dropped),
		slog.Int("pages", r.result.Pages),
		slog.Duration("duration", r.result.Duration),
		slog.Bool("interrupted", r.result.Interrupted),
	)

	if saveErr != nil {
		return r.result, saveErr
	}
	if tocErr != nil {
		return r.result, tocErr
	}
	return r.result, nil
}

// run holds the mutable state of a single Run invocation.
type run struct {
	s        *Scheduler
	scope    *docmirror.Scope
	state    *docmirror.CrawlState
	limiter  *Limiter
	logger   *slog.Logger
	maxDepth int
	every    int
	workers  int

	mu        sync.Mutex
	result    *Result
	completed int // saved + skipped, drives checkpoints and the page cap

	saveMu sync.Mutex
}

// levelOutcome is the resolution of one frontier item within a level.
type levelOutcome struct {
	url       string
	depth     int
	kind      Outcome
	links     []string
	processed bool
}

// processLevel runs every item of one depth level and returns the next
// level. Link discoveries are applied in item order after the whole level
// finished, so the first discovery of a URL is the same no matter how many
// workers raced on the fetches.
func (r *run) processLevel(ctx context.Context, level []Item) []Item {
	outs := make([]levelOutcome, len(level))

	if r.workers <= 1 {
		for i, item := range level {
			if ctx.Err() != nil || r.capped() {
				break
			}
			outs[i] = r.processItem(ctx, item)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.workers)
		for i, item := range level {
			if r.capped() {
				break
			}
			g.Go(func() error {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				outs[i] = r.processItem(gctx, item)
				return nil
			})
		}
		_ = g.Wait()
	}

	var next []Item
	for i := range outs {
		out := &outs[i]
		if !out.processed {
			continue
		}
		for _, link := range out.links {
			link = docmirror.NormalizeURL(link)
			if !r.scope.Allows(link) {
				continue
			}
			if !r.state.MarkVisited(link) {
				continue
			}
			next = append(next, Item{URL: link, Depth: out.depth + 1, Parent: out.url})
		}
	}
	return next
}

// seedItems converts sitemap URLs into depth-1 frontier items, dropping
// anything already visited or out of scope.
func (r *run) seedItems(seeds []string) []Item {
	var items []Item
	for _, seed := range seeds {
		u := docmirror.NormalizeURL(seed)
		if !r.scope.Allows(u) {
			continue
		}
		if !r.state.MarkVisited(u) {
			continue
		}
		items = append(items, Item{URL: u, Depth: 1})
	}
	r.mu.Lock()
	r.result.Seeded += len(items)
	r.mu.Unlock()
	return items
}

// processItem resolves a single frontier item. Context cancellation leaves
// the item unprocessed so a later run picks it up again.
func (r *run) processItem(ctx context.Context, item Item) levelOutcome {
	out := levelOutcome{url: item.URL, depth: item.Depth, processed: true}

	// The depth cutoff drops the item before it costs a politeness tick.
	if item.Depth > r.maxDepth {
		out.kind = OutcomeDropped
		r.drop(&out)
		return out
	}

	// The politeness delay is charged per dequeued item, skips included,
	// so run time stays proportional to frontier size.
	if err := r.limiter.Wait(ctx); err != nil {
		out.processed = false
		return out
	}

	filename := docmirror.Filename(item.URL)
	if !r.s.Reharvest && r.s.Documents.Exists(filename) {
		r.skipExisting(ctx, item, filename, &out)
		return out
	}

	html, err := r.fetch(ctx, item.URL)
	if err != nil {
		if ctx.Err() != nil {
			out.processed = false
			return out
		}
		out.kind = OutcomeFailed
		r.fail(&out, StageFetch, err)
		return out
	}

	// Links are harvested from the full page, not the extracted content
	// region: navigation trees live outside it.
	links, err := r.s.Links.ExtractLinks(html, item.URL)
	if err != nil {
		r.logger.Debug("link harvest failed",
			slog.String("url", item.URL),
			slog.Any("error", err),
		)
	}
	out.links = links

	extracted, err := r.s.Extractor.Extract(html, item.URL)
	if err != nil {
		out.kind = OutcomeFailed
		r.fail(&out, StageExtract, err)
		return out
	}

	markdown, err := r.s.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		out.kind = OutcomeFailed
		r.fail(&out, StageConvert, err)
		return out
	}

	content := docmirror.RenderDocument(extracted.Title, item.URL, markdown)
	if err := r.s.Documents.Write(ctx, filename, []byte(content)); err != nil {
		if ctx.Err() != nil {
			out.processed = false
			return out
		}
		out.kind = OutcomeFailed
		r.fail(&out, StageSave, err)
		return out
	}

	r.state.RecordPage(item.URL, docmirror.PageMeta{
		Title:    extracted.Title,
		Filename: filename,
		Depth:    item.Depth,
		Parent:   item.Parent,
	})
	r.state.MarkDone(item.URL)

	out.kind = OutcomeSaved
	r.complete(ctx, &out, extracted.Title)
	return out
}

// skipExisting resolves an item whose document is already on disk. The page
// index entry is backfilled from the document header when missing, and
// links are harvested from the saved Markdown so a resumed crawl still
// descends through previously mirrored pages.
func (r *run) skipExisting(ctx context.Context, item Item, filename string, out *levelOutcome) {
	meta, ok := r.state.Page(item.URL)
	if !ok {
		title := filename
		if hdr, err := r.s.Documents.ReadHeader(filename); err == nil && hdr.Title != "" {
			title = hdr.Title
		}
		meta = docmirror.PageMeta{
			Title:    title,
			Filename: filename,
			Depth:    item.Depth,
			Parent:   item.Parent,
		}
		r.state.RecordPage(item.URL, meta)
	}
	r.state.MarkDone(item.URL)

	if body, err := r.s.Documents.Read(filename); err == nil {
		out.links = docmirror.MarkdownLinks(string(body), item.URL)
	}

	out.kind = OutcomeSkipped
	r.complete(ctx, out, meta.Title)
}

// fetch retrieves a page, retrying with backoff when RetryDelays is set.
func (r *run) fetch(ctx context.Context, url string) (string, error) {
	if len(r.s.RetryDelays) == 0 {
		return r.s.Fetcher.Fetch(ctx, url)
	}
	logf := func(format string, args ...any) {
		r.logger.Debug(fmt.Sprintf(format, args...))
	}
	return FetchWithRetryDelays(ctx, url, r.s.Fetcher.Fetch, logf, r.s.RetryDelays)
}

// complete records a saved or skipped page and saves a checkpoint when the
// cadence is due.
func (r *run) complete(ctx context.Context, out *levelOutcome, title string) {
	r.mu.Lock()
	switch out.kind {
	case OutcomeSaved:
		r.result.Saved++
	case OutcomeSkipped:
		r.result.Skipped++
	}
	r.completed++
	due := r.every > 0 && r.completed%r.every == 0
	r.mu.Unlock()

	if out.kind == OutcomeSaved {
		r.logger.Info("page saved",
			slog.String("url", out.url),
			slog.Int("depth", out.depth),
			slog.String("title", title),
		)
	} else {
		r.logger.Debug("page skipped",
			slog.String("url", out.url),
			slog.Int("depth", out.depth),
		)
	}
	r.emit(Event{Outcome: out.kind, URL: out.url, Depth: out.depth, Title: title})

	if due {
		if err := r.saveCheckpoint(ctx); err != nil && ctx.Err() == nil {
			r.logger.Warn("checkpoint save failed", slog.Any("error", err))
		}
	}
}

func (r *run) fail(out *levelOutcome, stage string, err error) {
	r.mu.Lock()
	r.result.Failed++
	r.result.Failures = append(r.result.Failures, Failure{
		URL:    out.url,
		Stage:  stage,
		Reason: err.Error(),
	})
	r.mu.Unlock()

	r.logger.Warn("page failed",
		slog.String("url", out.url),
		slog.String("stage", stage),
		slog.Any("error", err),
	)
	r.emit(Event{Outcome: OutcomeFailed, URL: out.url, Depth: out.depth, Err: err})
}

func (r *run) drop(out *levelOutcome) {
	r.mu.Lock()
	r.result.Dropped++
	r.mu.Unlock()

	r.logger.Debug("page dropped",
		slog.String("url", out.url),
		slog.Int("depth", out.depth),
	)
	r.emit(Event{Outcome: OutcomeDropped, URL: out.url, Depth: out.depth})
}

func (r *run) emit(e Event) {
	if r.s.OnEvent != nil {
		r.s.OnEvent(e)
	}
}

func (r *run) capped() bool {
	if r.s.MaxPages <= 0 {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed >= r.s.MaxPages
}

func (r *run) saveCheckpoint(ctx context.Context) error {
	r.saveMu.Lock()
	defer r.saveMu.Unlock()
	return r.s.Progress.Save(ctx, r.state.Checkpoint())
}

func (r *run) writeTOC() error {
	toc := docmirror.BuildTOC(r.state.Pages())
	return r.s.Documents.WriteTOC([]byte(toc.Render(time.Now())))
}

func defaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func defaultDuration(v, def time.Duration) time.Duration {
	if v == 0 {
		return def
	}
	return v
}
