//go:build integration

package http_test

import (
	"context"
	"testing"
	"time"

	"github.com/docmirror/docmirror"
	dochttp "github.com/docmirror/docmirror/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeder_Integration_HtmxDocs(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	seeder := dochttp.NewSeeder(nil)

	// htmx.org has a sitemap declared in robots.txt
	urls, err := seeder.DiscoverURLs(ctx, "https://htmx.org", nil)
	require.NoError(t, err)

	assert.NotEmpty(t, urls, "expected at least some URLs from htmx.org sitemap")
	t.Logf("Found %d URLs from htmx.org sitemap", len(urls))
}

func TestSeeder_Integration_HtmxDocs_WithScope(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	seeder := dochttp.NewSeeder(nil)

	scope, err := docmirror.NewScope("https://htmx.org/docs/introduction")
	require.NoError(t, err)

	urls, err := seeder.DiscoverURLs(ctx, "https://htmx.org", scope)
	require.NoError(t, err)

	for _, u := range urls {
		assert.Contains(t, u, "/docs", "URL should stay inside the docs scope")
	}
	t.Logf("Found %d /docs URLs from htmx.org sitemap", len(urls))
}
