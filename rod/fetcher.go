package rod

import (
	"context"
	"errors"
	"time"

	"github.com/docmirror/docmirror"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements docmirror.Fetcher at compile time.
var _ docmirror.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using headless Chrome, for spaces whose
// content only exists after JavaScript runs. Fetcher is safe for concurrent
// use.
type Fetcher struct {
	manager *Manager
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds the time spent rendering one page.
// Defaults to DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher launches a headless browser behind a recycling Manager.
// Close must be called when the Fetcher is no longer needed.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	manager, err := NewManager()
	if err != nil {
		return nil, err
	}
	f := &Fetcher{manager: manager, timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Fetch navigates to the URL, waits for the page to load, and returns the
// rendered HTML. Timeouts surface as docmirror.FetchError values so the
// scheduler treats both fetcher implementations uniformly.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", &docmirror.FetchError{URL: url, Kind: docmirror.FetchUnreachable, Err: err}
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", classify(url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", classify(url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", classify(url, err)
	}

	f.manager.PageDone()
	return html, nil
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}

func classify(url string, err error) error {
	kind := docmirror.FetchUnreachable
	if errors.Is(err, context.DeadlineExceeded) {
		kind = docmirror.FetchTimeout
	}
	return &docmirror.FetchError{URL: url, Kind: kind, Err: err}
}
