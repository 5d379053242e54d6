package docmirror_test

import (
	"testing"

	"github.com/docmirror/docmirror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDocument(t *testing.T) {
	t.Parallel()

	got := docmirror.RenderDocument("Getting Started", "https://docs.example.com/docs/getting-started", "Welcome.\n")

	assert.Equal(t, "# Getting Started\n\nSource: https://docs.example.com/docs/getting-started\n\n---\n\nWelcome.\n", got)
}

func TestParseHeader(t *testing.T) {
	t.Parallel()

	t.Run("recovers title and source from a rendered document", func(t *testing.T) {
		t.Parallel()

		content := docmirror.RenderDocument("Getting Started", "https://docs.example.com/docs/getting-started", "Welcome.")

		h, err := docmirror.ParseHeader([]byte(content))

		require.NoError(t, err)
		assert.Equal(t, "Getting Started", h.Title)
		assert.Equal(t, "https://docs.example.com/docs/getting-started", h.SourceURL)
	})

	t.Run("missing heading leaves the title empty", func(t *testing.T) {
		t.Parallel()

		content := "Source: https://docs.example.com/docs/guide\n\n---\n\nBody."

		h, err := docmirror.ParseHeader([]byte(content))

		require.NoError(t, err)
		assert.Empty(t, h.Title)
		assert.Equal(t, "https://docs.example.com/docs/guide", h.SourceURL)
	})

	t.Run("missing source line is an error", func(t *testing.T) {
		t.Parallel()

		_, err := docmirror.ParseHeader([]byte("# Title\n\nno provenance here"))

		require.Error(t, err)
		assert.Equal(t, docmirror.ENOTFOUND, docmirror.ErrorCode(err))
	})
}

func TestMarkdownLinks(t *testing.T) {
	t.Parallel()

	const base = "https://docs.example.com/docs/guide"

	t.Run("collects inline links and images", func(t *testing.T) {
		t.Parallel()

		markdown := "See [Install](https://docs.example.com/docs/install) and " +
			"![diagram](https://docs.example.com/docs/diagram.png)."

		links := docmirror.MarkdownLinks(markdown, base)

		assert.Equal(t, []string{
			"https://docs.example.com/docs/install",
			"https://docs.example.com/docs/diagram.png",
		}, links)
	})

	t.Run("resolves relative targets against the base", func(t *testing.T) {
		t.Parallel()

		links := docmirror.MarkdownLinks("[up](../intro) and [abs](/docs/api)", base)

		assert.Equal(t, []string{
			"https://docs.example.com/intro",
			"https://docs.example.com/docs/api",
		}, links)
	})

	t.Run("collects autolinks", func(t *testing.T) {
		t.Parallel()

		links := docmirror.MarkdownLinks("Visit <https://docs.example.com/docs/api>.", base)

		assert.Equal(t, []string{"https://docs.example.com/docs/api"}, links)
	})

	t.Run("drops fragments and deduplicates", func(t *testing.T) {
		t.Parallel()

		markdown := "[a](/docs/api#auth) then [b](/docs/api#tokens) then [c](/docs/api)"

		links := docmirror.MarkdownLinks(markdown, base)

		assert.Equal(t, []string{"https://docs.example.com/docs/api"}, links)
	})

	t.Run("skips non-HTTP schemes", func(t *testing.T) {
		t.Parallel()

		markdown := "[mail](mailto:team@example.com) [js](javascript:void(0)) [ok](/docs/api)"

		links := docmirror.MarkdownLinks(markdown, base)

		assert.Equal(t, []string{"https://docs.example.com/docs/api"}, links)
	})

	t.Run("link titles are not part of the target", func(t *testing.T) {
		t.Parallel()

		links := docmirror.MarkdownLinks(`[a](/docs/api "API reference")`, base)

		assert.Equal(t, []string{"https://docs.example.com/docs/api"}, links)
	})

	t.Run("no links means nil", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, docmirror.MarkdownLinks("plain prose with no targets", base))
	})
}
