package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/docmirror/docmirror"
	main "github.com/docmirror/docmirror/cmd/docmirror"
	"github.com/docmirror/docmirror/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTocCmd_RebuildsFromIndex(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	const root = "https://docs.example.com/docs/guide"

	cp := &docmirror.Checkpoint{
		Visited: []string{root, root + "/install"},
		Pages: map[string]docmirror.PageMeta{
			root: {
				Title:    "Guide",
				Filename: "guide.md",
				Depth:    0,
			},
			root + "/install": {
				Title:    "Install",
				Filename: "install.md",
				Depth:    1,
				Parent:   root,
			},
		},
	}
	require.NoError(t, fs.NewProgressStore(dir).Save(context.Background(), cp))

	m := main.NewMain()
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{
		"toc", "--out", dir,
	}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Table of contents rebuilt: 2 pages")

	toc, err := os.ReadFile(filepath.Join(dir, fs.TOCFilename))
	require.NoError(t, err)
	content := string(toc)
	assert.Contains(t, content, "Total Pages: 2")
	assert.Contains(t, content, "- [Guide](guide.md)\n  - [Install](install.md)")
	assert.Contains(t, content, "## All Pages (Alphabetical)")
}

func TestTocCmd_MissingIndex(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	m := main.NewMain()
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{
		"toc", "--out", dir,
	}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	// A missing index over an empty mirror is not an error.
	assert.Contains(t, stdout.String(), "Table of contents rebuilt: 0 pages")
	assert.FileExists(t, filepath.Join(dir, fs.TOCFilename))
}

func TestTocCmd_MissingIndexFallsBackToDocuments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestDoc(t, dir, "guide.md", "Guide", "https://docs.example.com/docs/guide", "Body.")

	m := main.NewMain()
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{
		"toc", "--out", dir,
	}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Table of contents rebuilt: 1 pages")

	toc, err := os.ReadFile(filepath.Join(dir, fs.TOCFilename))
	require.NoError(t, err)
	assert.Contains(t, string(toc), "- [Guide](guide.md)")
}
