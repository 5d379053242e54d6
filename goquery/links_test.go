package goquery_test

import (
	"testing"

	"github.com/docmirror/docmirror"
	docsgoquery "github.com/docmirror/docmirror/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkExtractor_ExtractLinks(t *testing.T) {
	t.Parallel()

	extractor := docsgoquery.NewLinkExtractor()
	const baseURL = "https://docs.example.com/docs/guide"

	t.Run("resolves links in document order", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<a href="/docs/install">Install</a>
<a href="api">API</a>
<a href="https://elsewhere.example.com/page">external</a>
</body></html>`

		links, err := extractor.ExtractLinks(html, baseURL)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://docs.example.com/docs/install",
			"https://docs.example.com/docs/api",
			"https://elsewhere.example.com/page",
		}, links)
	})

	t.Run("deduplicates repeated targets", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/docs/api">first</a><a href="/docs/api">second</a>`

		links, err := extractor.ExtractLinks(html, baseURL)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://docs.example.com/docs/api"}, links)
	})

	t.Run("strips fragments", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/docs/api#auth">auth</a><a href="/docs/api#tokens">tokens</a>`

		links, err := extractor.ExtractLinks(html, baseURL)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://docs.example.com/docs/api"}, links)
	})

	t.Run("anchor-only self references are skipped", func(t *testing.T) {
		t.Parallel()

		html := `<a href="#section">jump</a><a href="/docs/api">api</a>`

		links, err := extractor.ExtractLinks(html, baseURL)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://docs.example.com/docs/api"}, links)
	})

	t.Run("non-HTTP schemes are skipped", func(t *testing.T) {
		t.Parallel()

		html := `<a href="mailto:team@example.com">mail</a>
<a href="javascript:void(0)">js</a>
<a href="tel:+15551234">call</a>
<a href="/docs/api">api</a>`

		links, err := extractor.ExtractLinks(html, baseURL)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://docs.example.com/docs/api"}, links)
	})

	t.Run("no anchors yields no links", func(t *testing.T) {
		t.Parallel()

		links, err := extractor.ExtractLinks("<p>plain text</p>", baseURL)

		require.NoError(t, err)
		assert.Empty(t, links)
	})

	t.Run("rejects an unparseable base URL", func(t *testing.T) {
		t.Parallel()

		_, err := extractor.ExtractLinks(`<a href="/x">x</a>`, "http://bad url")

		require.Error(t, err)
		assert.Equal(t, docmirror.EINVALID, docmirror.ErrorCode(err))
	})
}
