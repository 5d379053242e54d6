package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Color definitions
var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorDim     = color.New(color.Faint).SprintFunc()
	colorBold    = color.New(color.Bold).SprintFunc()
)

// Output prefixes
const (
	prefixSaved   = "✓"
	prefixSkipped = "-"
	prefixFailed  = "✗"
)

// printer writes progress lines to the CLI writers. Crawl events may arrive
// from concurrent workers, so every write holds the mutex.
type printer struct {
	mu     sync.Mutex
	stdout io.Writer
	stderr io.Writer
}

// saved prints a saved-page line.
func (p *printer) saved(url string, depth int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.stdout, "%s %s %s\n",
		colorSuccess(prefixSaved), url, colorDim(fmt.Sprintf("(depth %d)", depth)))
}

// skipped prints an already-saved line.
func (p *printer) skipped(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.stdout, "%s %s %s\n",
		colorWarn(prefixSkipped), url, colorDim("(already saved)"))
}

// failed prints a failure line to stderr.
func (p *printer) failed(subject string, detail string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.stderr, "%s %s: %s\n", colorError(prefixFailed), subject, detail)
}

// infof prints an informational message.
func (p *printer) infof(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.stdout, colorInfo(fmt.Sprintf(format, args...)))
}

// boldf prints an emphasized message.
func (p *printer) boldf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.stdout, colorBold(fmt.Sprintf(format, args...)))
}

// dimf prints a de-emphasized message.
func (p *printer) dimf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.stdout, colorDim(fmt.Sprintf(format, args...)))
}

// plainf prints an uncolored message.
func (p *printer) plainf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.stdout, format+"\n", args...)
}
