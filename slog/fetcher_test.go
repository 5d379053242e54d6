package slog_test

import (
	"bytes"
	"context"
	"errors"
	stdslog "log/slog"
	"testing"

	"github.com/docmirror/docmirror"
	"github.com/docmirror/docmirror/mock"
	docslog "github.com/docmirror/docmirror/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger() (*stdslog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return stdslog.New(stdslog.NewTextHandler(buf, nil)), buf
}

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("delegates and logs the fetch", func(t *testing.T) {
		t.Parallel()

		logger, buf := newBufferLogger()
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html>ok</html>", nil
			},
		}

		fetcher := docslog.NewLoggingFetcher(inner, logger)
		html, err := fetcher.Fetch(context.Background(), "https://docs.example.com/docs/guide")

		require.NoError(t, err)
		assert.Equal(t, "<html>ok</html>", html)

		logged := buf.String()
		assert.Contains(t, logged, "msg=fetch")
		assert.Contains(t, logged, "url=https://docs.example.com/docs/guide")
		assert.Contains(t, logged, "bytes=15")
	})

	t.Run("errors pass through and are logged", func(t *testing.T) {
		t.Parallel()

		logger, buf := newBufferLogger()
		fetchErr := &docmirror.FetchError{URL: "https://docs.example.com", Kind: docmirror.FetchTimeout}
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", fetchErr
			},
		}

		fetcher := docslog.NewLoggingFetcher(inner, logger)
		_, err := fetcher.Fetch(context.Background(), "https://docs.example.com")

		require.Error(t, err)
		assert.ErrorIs(t, err, fetchErr)
		assert.Contains(t, buf.String(), "timed out")
	})

	t.Run("close delegates to the wrapped fetcher", func(t *testing.T) {
		t.Parallel()

		logger, _ := newBufferLogger()
		closed := false
		inner := &mock.Fetcher{
			CloseFn: func() error {
				closed = true
				return errors.New("close failed")
			},
		}

		fetcher := docslog.NewLoggingFetcher(inner, logger)
		err := fetcher.Close()

		require.Error(t, err)
		assert.True(t, closed)
	})
}
