package docmirror_test

import (
	"sync"
	"testing"

	"github.com/docmirror/docmirror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrawlState_MarkVisited(t *testing.T) {
	t.Parallel()

	t.Run("first mark wins", func(t *testing.T) {
		t.Parallel()

		state := docmirror.NewCrawlState()

		assert.True(t, state.MarkVisited("https://docs.example.com/a"))
		assert.False(t, state.MarkVisited("https://docs.example.com/a"))
		assert.True(t, state.Visited("https://docs.example.com/a"))
		assert.False(t, state.Visited("https://docs.example.com/b"))
	})

	t.Run("exactly one concurrent marker succeeds", func(t *testing.T) {
		t.Parallel()

		state := docmirror.NewCrawlState()

		var wg sync.WaitGroup
		var mu sync.Mutex
		won := 0
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if state.MarkVisited("https://docs.example.com/a") {
					mu.Lock()
					won++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, won)
	})
}

func TestCrawlState_Done(t *testing.T) {
	t.Parallel()

	state := docmirror.NewCrawlState()

	assert.False(t, state.Done("https://docs.example.com/a"))

	state.MarkDone("https://docs.example.com/a")

	assert.True(t, state.Done("https://docs.example.com/a"))
	// Done implies visited, so the URL can never be enqueued again.
	assert.False(t, state.MarkVisited("https://docs.example.com/a"))
}

func TestCrawlState_RecordPage(t *testing.T) {
	t.Parallel()

	state := docmirror.NewCrawlState()
	first := docmirror.PageMeta{Title: "A", Filename: "a.md", Depth: 1, Parent: "https://docs.example.com"}

	assert.True(t, state.RecordPage("https://docs.example.com/a", first))

	// A later sighting through a deeper path must not move the page.
	later := docmirror.PageMeta{Title: "A", Filename: "a.md", Depth: 3, Parent: "https://docs.example.com/deep"}
	assert.False(t, state.RecordPage("https://docs.example.com/a", later))

	meta, ok := state.Page("https://docs.example.com/a")
	require.True(t, ok)
	assert.Equal(t, first, meta)
	assert.Equal(t, 1, state.PageCount())
}

func TestCrawlState_Pages_ReturnsCopy(t *testing.T) {
	t.Parallel()

	state := docmirror.NewCrawlState()
	state.RecordPage("https://docs.example.com/a", docmirror.PageMeta{Title: "A", Filename: "a.md"})

	pages := state.Pages()
	pages["https://docs.example.com/b"] = docmirror.PageMeta{Title: "B"}

	assert.Equal(t, 1, state.PageCount())
}

func TestCrawlState_Checkpoint(t *testing.T) {
	t.Parallel()

	state := docmirror.NewCrawlState()

	// Queued but unprocessed URLs stay out of the checkpoint.
	state.MarkVisited("https://docs.example.com/queued")

	state.MarkDone("https://docs.example.com/b")
	state.MarkDone("https://docs.example.com/a")
	state.RecordPage("https://docs.example.com/a", docmirror.PageMeta{Title: "A", Filename: "a.md"})
	state.RecordPage("https://docs.example.com/b", docmirror.PageMeta{Title: "B", Filename: "b.md", Depth: 1, Parent: "https://docs.example.com/a"})

	cp := state.Checkpoint()

	assert.Equal(t, []string{"https://docs.example.com/a", "https://docs.example.com/b"}, cp.Visited)
	assert.Len(t, cp.Pages, 2)
	assert.False(t, cp.LastUpdated.IsZero())
}

func TestNewCrawlStateFromCheckpoint(t *testing.T) {
	t.Parallel()

	t.Run("restores completed pages as done but not visited", func(t *testing.T) {
		t.Parallel()

		cp := &docmirror.Checkpoint{
			Visited: []string{"https://docs.example.com/a"},
			Pages: map[string]docmirror.PageMeta{
				"https://docs.example.com/a": {Title: "A", Filename: "a.md"},
			},
		}

		state := docmirror.NewCrawlStateFromCheckpoint(cp)

		assert.True(t, state.Done("https://docs.example.com/a"))
		// The frontier dedup set is per-run, so a resumed crawl can
		// enqueue the page again and re-walk it from disk.
		assert.True(t, state.MarkVisited("https://docs.example.com/a"))

		meta, ok := state.Page("https://docs.example.com/a")
		require.True(t, ok)
		assert.Equal(t, "A", meta.Title)
	})

	t.Run("nil checkpoint yields empty state", func(t *testing.T) {
		t.Parallel()

		state := docmirror.NewCrawlStateFromCheckpoint(nil)

		assert.Zero(t, state.PageCount())
		assert.True(t, state.MarkVisited("https://docs.example.com/a"))
	})
}
