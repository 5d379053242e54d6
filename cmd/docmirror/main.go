package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/docmirror/docmirror"
	"github.com/docmirror/docmirror/crawl"
	"github.com/docmirror/docmirror/fs"
	"github.com/docmirror/docmirror/goquery"
	"github.com/docmirror/docmirror/htmltomarkdown"
	dochttp "github.com/docmirror/docmirror/http"
	"github.com/docmirror/docmirror/readability"
	"github.com/docmirror/docmirror/reconcile"
	"github.com/docmirror/docmirror/rod"
	docslog "github.com/docmirror/docmirror/slog"
	"github.com/docmirror/docmirror/trafilatura"
)

func main() {
	// An interrupt cancels the crawl; the scheduler still writes its final
	// checkpoint and TOC before Run returns.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Fetcher overrides the fetcher wired for the crawl command.
	// Used by end-to-end tests to crawl without a network.
	Fetcher docmirror.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Out:    &printer{stdout: stdout, stderr: stderr},
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docmirror"),
		kong.Description("Mirror documentation sites as local Markdown."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docmirror --help' to see available commands")
	}
	if first := args[0]; first == "help" || first == "--help" || first == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := kongCtx.Command()
	if i := strings.IndexByte(cmd, ' '); i >= 0 {
		cmd = cmd[:i]
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	// Every command operates on one mirror directory.
	outDir := outDirFor(cli, cmd)
	store := fs.NewStore(outDir)
	progress := docslog.NewLoggingProgressStore(fs.NewProgressStore(outDir), logger)
	deps.Store = store
	deps.Documents = store
	deps.Progress = progress

	switch cmd {
	case "crawl":
		if err := store.EnsureDir(); err != nil {
			return fmt.Errorf("failed to create output directory %q: %w", outDir, err)
		}

		fetcher := m.Fetcher
		if fetcher == nil {
			if cli.Crawl.Browser {
				f, err := rod.NewFetcher(rod.WithFetchTimeout(cli.Crawl.Timeout))
				if err != nil {
					fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
					return fmt.Errorf("failed to start browser: %w", err)
				}
				fetcher = f
			} else {
				fetcher = dochttp.NewFetcher(dochttp.WithTimeout(cli.Crawl.Timeout))
			}
			defer fetcher.Close()
		}

		deps.Scheduler = &crawl.Scheduler{
			Fetcher:   docslog.NewLoggingFetcher(fetcher, logger),
			Extractor: extractorFor(cli.Crawl.Extractor),
			Links:     goquery.NewLinkExtractor(),
			Converter: htmltomarkdown.NewConverter(),
			Documents: store,
			Progress:  progress,
			Logger:    logger,
		}
		if cli.Crawl.SeedSitemap {
			deps.Scheduler.Seeder = dochttp.NewSeeder(nil)
		}

	case "dedupe":
		deps.Reconciler = &reconcile.Reconciler{
			Documents: store,
			Progress:  progress,
			Logger:    logger,
		}
	}

	return kongCtx.Run(deps)
}

// extractorFor maps the --extractor flag to an implementation.
func extractorFor(name string) docmirror.Extractor {
	switch name {
	case "article":
		return trafilatura.NewExtractor()
	case "readability":
		return readability.NewExtractor()
	default:
		return goquery.NewSelectorExtractor()
	}
}

// outDirFor returns the output directory flag of the selected command.
func outDirFor(cli *CLI, cmd string) string {
	switch cmd {
	case "dedupe":
		return cli.Dedupe.Out
	case "toc":
		return cli.Toc.Out
	case "scan":
		return cli.Scan.Out
	default:
		return cli.Crawl.Out
	}
}
