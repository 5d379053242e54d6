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

const (
	dedupeBareURL = "https://wiki.example.com/spaces/DOC/pages/100000"
	dedupeFullURL = dedupeBareURL + "/About"
)

func writeTestDoc(t *testing.T, dir, filename, title, sourceURL, body string) {
	t.Helper()
	content := docmirror.RenderDocument(title, sourceURL, body)
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(content), 0o644))
}

func TestDedupeCmd_PreviewLeavesFilesIntact(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestDoc(t, dir, "100000.md", "About", dedupeBareURL, "Body.")
	writeTestDoc(t, dir, "About.md", "About", dedupeFullURL, "Body.")

	m := main.NewMain()
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{
		"dedupe", "--out", dir,
	}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	output := stdout.String()
	assert.Contains(t, output, "100000.md")
	assert.Contains(t, output, "About.md")
	assert.Contains(t, output, "would be removed")

	// A preview never touches the store.
	assert.FileExists(t, filepath.Join(dir, "100000.md"))
	assert.FileExists(t, filepath.Join(dir, "About.md"))
}

func TestDedupeCmd_ApplyRemovesDuplicates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestDoc(t, dir, "100000.md", "About", dedupeBareURL, "Body.")
	writeTestDoc(t, dir, "About.md", "About", dedupeFullURL, "Body.")

	m := main.NewMain()
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{
		"dedupe", "--out", dir, "--apply",
	}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	// The URL that continues past the page ID wins; the bare one is deleted
	// and the index and TOC are rewritten to match.
	assert.NoFileExists(t, filepath.Join(dir, "100000.md"))
	assert.FileExists(t, filepath.Join(dir, "About.md"))
	assert.FileExists(t, filepath.Join(dir, fs.ProgressFilename))
	assert.FileExists(t, filepath.Join(dir, fs.TOCFilename))

	assert.Contains(t, stdout.String(), "Removed 1 duplicate(s)")
}

func TestDedupeCmd_NoDuplicates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestDoc(t, dir, "guide.md", "Guide", "https://docs.example.com/docs/guide", "Body.")

	m := main.NewMain()
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{
		"dedupe", "--out", dir,
	}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "No duplicates found among 1 documents")
	assert.FileExists(t, filepath.Join(dir, "guide.md"))
}

func TestDedupeCmd_RejectsUnknownMode(t *testing.T) {
	t.Parallel()

	m := main.NewMain()

	err := m.Run(context.Background(), []string{
		"dedupe", "--out", t.TempDir(), "--by", "bogus",
	}, &bytes.Buffer{}, &bytes.Buffer{})

	require.Error(t, err)
}
