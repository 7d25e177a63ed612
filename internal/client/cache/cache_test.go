package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetCachesWithinTTL(t *testing.T) {
	c := New()
	defer c.Close()

	calls := 0
	fetcher := func(ctx context.Context) (any, error) {
		calls++
		return "value", nil
	}

	v, err := c.Get(context.Background(), "k", time.Minute, fetcher)
	require.NoError(t, err)
	require.Equal(t, "value", v)

	v, err = c.Get(context.Background(), "k", time.Minute, fetcher)
	require.NoError(t, err)
	require.Equal(t, "value", v)
	require.Equal(t, 1, calls)
}

func TestGetRefetchesAfterExpiry(t *testing.T) {
	c := New()
	defer c.Close()

	calls := 0
	fetcher := func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	}

	_, err := c.Get(context.Background(), "k", 10*time.Millisecond, fetcher)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	v, err := c.Get(context.Background(), "k", 10*time.Millisecond, fetcher)
	require.NoError(t, err)
	require.Equal(t, 2, v)
}

func TestGetDoesNotCacheFailures(t *testing.T) {
	c := New()
	defer c.Close()

	calls := 0
	_, err := c.Get(context.Background(), "k", time.Minute, func(ctx context.Context) (any, error) {
		calls++
		return nil, errors.New("backend down")
	})
	require.Error(t, err)

	v, err := c.Get(context.Background(), "k", time.Minute, func(ctx context.Context) (any, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	require.Equal(t, "ok", v)
	require.Equal(t, 2, calls)
}

func TestConcurrentGetsCoalesce(t *testing.T) {
	c := New()
	defer c.Close()

	var calls atomic.Int32
	release := make(chan struct{})
	fetcher := func(ctx context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	const workers = 10
	var wg sync.WaitGroup
	results := make([]any, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Get(context.Background(), "k", time.Minute, fetcher)
			require.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Let every worker reach the flight before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		require.Equal(t, "shared", v)
	}
}

func TestInvalidatePattern(t *testing.T) {
	c := New()
	defer c.Close()

	fetch := func(v string) func(ctx context.Context) (any, error) {
		return func(ctx context.Context) (any, error) { return v, nil }
	}
	_, err := c.Get(context.Background(), "specs-/specifications", time.Minute, fetch("a"))
	require.NoError(t, err)
	_, err = c.Get(context.Background(), "specs-/specifications?status=Draft", time.Minute, fetch("b"))
	require.NoError(t, err)
	_, err = c.Get(context.Background(), "metadata-/metadata/platforms", time.Minute, fetch("c"))
	require.NoError(t, err)

	c.Invalidate("specs-")
	stats := c.Stats()
	require.Equal(t, 1, stats.Size)
	require.Contains(t, stats.Keys, "metadata-/metadata/platforms")
}

func TestInvalidateAll(t *testing.T) {
	c := New()
	defer c.Close()

	_, err := c.Get(context.Background(), "a", time.Minute, func(ctx context.Context) (any, error) { return 1, nil })
	require.NoError(t, err)
	_, err = c.Get(context.Background(), "b", time.Minute, func(ctx context.Context) (any, error) { return 2, nil })
	require.NoError(t, err)

	c.Invalidate("")
	require.Equal(t, 0, c.Stats().Size)
}

func TestClearExpired(t *testing.T) {
	c := New()
	defer c.Close()

	_, err := c.Get(context.Background(), "short", 5*time.Millisecond, func(ctx context.Context) (any, error) { return 1, nil })
	require.NoError(t, err)
	_, err = c.Get(context.Background(), "long", time.Minute, func(ctx context.Context) (any, error) { return 2, nil })
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	c.ClearExpired()

	stats := c.Stats()
	require.Equal(t, 1, stats.Size)
	require.Contains(t, stats.Keys, "long")
}

func TestFetchTyped(t *testing.T) {
	c := New()
	defer c.Close()

	v, err := Fetch(context.Background(), c, "list", time.Minute, func(ctx context.Context) ([]string, error) {
		return []string{"x", "y"}, nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y"}, v)
}
