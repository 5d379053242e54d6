package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/docmirror/docmirror/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_Wait(t *testing.T) {
	t.Parallel()

	t.Run("first wait passes immediately", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewLimiter(100 * time.Millisecond)

		start := time.Now()
		err := limiter.Wait(context.Background())

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("second wait honors the interval", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewLimiter(100 * time.Millisecond)
		require.NoError(t, limiter.Wait(context.Background()))

		start := time.Now()
		err := limiter.Wait(context.Background())

		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("non-positive interval disables waiting", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewLimiter(0)

		start := time.Now()
		for i := 0; i < 10; i++ {
			require.NoError(t, limiter.Wait(context.Background()))
		}
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewLimiter(time.Hour)
		require.NoError(t, limiter.Wait(context.Background()))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := limiter.Wait(ctx)
		require.Error(t, err)
	})
}
