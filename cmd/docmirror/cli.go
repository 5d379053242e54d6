package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/docmirror/docmirror"
	"github.com/docmirror/docmirror/crawl"
	"github.com/docmirror/docmirror/fs"
	"github.com/docmirror/docmirror/reconcile"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Out    *printer

	Store      *fs.Store
	Documents  docmirror.DocumentStore
	Progress   docmirror.ProgressStore
	Scheduler  *crawl.Scheduler
	Reconciler *reconcile.Reconciler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Crawl  CrawlCmd  `cmd:"" help:"Mirror a documentation site as local Markdown"`
	Dedupe DedupeCmd `cmd:"" help:"Find and remove duplicate documents"`
	Toc    TocCmd    `cmd:"" help:"Rebuild the table of contents from the progress index"`
	Scan   ScanCmd   `cmd:"" help:"Rebuild the progress index from saved documents"`

	Verbose bool `short:"v" help:"Enable debug logging"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL             string        `arg:"" help:"Documentation start URL"`
	Out             string        `short:"o" default:"docs" help:"Output directory"`
	Depth           int           `default:"5" help:"Maximum crawl depth"`
	Delay           time.Duration `default:"1s" help:"Politeness delay between pages"`
	CheckpointEvery int           `name:"checkpoint-every" default:"10" help:"Save progress every N pages"`
	Timeout         time.Duration `default:"30s" help:"Per-fetch timeout"`
	Workers         int           `default:"1" help:"Concurrent fetches within a depth level"`
	MaxPages        int           `name:"max-pages" help:"Stop after N pages (0 = unlimited)"`
	Browser         bool          `help:"Fetch with a headless browser instead of plain HTTP"`
	Extractor       string        `default:"selector" enum:"selector,article,readability" help:"Content extraction strategy"`
	Scope           string        `help:"Restrict the crawl to this path prefix instead of the derived one"`
	SeedSitemap     bool          `name:"seed-sitemap" help:"Seed the frontier from the site's sitemap"`
	Reharvest       bool          `help:"Re-fetch pages whose documents already exist"`
	Retry           int           `help:"Retry failed fetches up to N times with backoff"`
}

// DedupeCmd is the "dedupe" subcommand.
type DedupeCmd struct {
	Out   string `short:"o" default:"docs" help:"Output directory"`
	By    string `default:"id" enum:"id,url" help:"Group duplicates by numeric page ID or exact source URL"`
	Apply bool   `help:"Delete duplicates instead of previewing"`
}

// TocCmd is the "toc" subcommand.
type TocCmd struct {
	Out string `short:"o" default:"docs" help:"Output directory"`
}

// ScanCmd is the "scan" subcommand.
type ScanCmd struct {
	Out string `short:"o" default:"docs" help:"Output directory"`
}
