// Package rod provides a browser-based implementation of docmirror.Fetcher
// for documentation spaces that render their content with JavaScript.
package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultRecycleAfter is the default number of pages fetched before the
// browser is recycled. Chrome accumulates memory under sustained load and
// never returns to its baseline, so long crawls need periodic restarts.
const DefaultRecycleAfter = 75

// Manager owns the browser lifecycle, recycling the instance after a fixed
// number of pages. It is safe for concurrent use.
type Manager struct {
	mu           sync.Mutex
	browser      *rod.Browser
	launcher     *launcher.Launcher
	pageCount    atomic.Int64
	recycleAfter int64
	closed       atomic.Bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithRecycleAfter sets how many pages are fetched before the browser is
// recycled. Defaults to DefaultRecycleAfter.
func WithRecycleAfter(n int64) ManagerOption {
	return func(m *Manager) {
		m.recycleAfter = n
	}
}

// NewManager launches a headless browser. Close must be called when the
// Manager is no longer needed.
func NewManager(opts ...ManagerOption) (*Manager, error) {
	m := &Manager{recycleAfter: DefaultRecycleAfter}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.launch(); err != nil {
		return nil, err
	}
	return m, nil
}

// Browser returns the current browser, recycling it first when the page
// budget is spent. Callers report completed pages via PageDone.
func (m *Manager) Browser() *rod.Browser {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pageCount.Load() >= m.recycleAfter {
		m.recycle()
	}
	return m.browser
}

// PageDone advances the page counter toward the recycle threshold.
func (m *Manager) PageDone() {
	m.pageCount.Add(1)
}

// Close shuts the browser down. Safe to call more than once.
func (m *Manager) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shutdown()
}

func (m *Manager) launch() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	m.browser = browser
	m.launcher = lnchr
	return nil
}

// shutdown closes the current browser and launcher. Must be called with mu
// held.
func (m *Manager) shutdown() error {
	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	if m.launcher != nil {
		m.launcher.Kill()
		m.launcher = nil
	}
	return err
}

// recycle swaps in a fresh browser. If the new launch fails the old browser
// is kept so fetching can continue. Must be called with mu held.
func (m *Manager) recycle() {
	oldBrowser, oldLauncher := m.browser, m.launcher
	m.browser, m.launcher = nil, nil

	if err := m.launch(); err != nil {
		m.browser, m.launcher = oldBrowser, oldLauncher
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	m.pageCount.Store(0)
}
