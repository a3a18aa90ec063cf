package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetGet(t *testing.T) {
	s := New(0)

	s.Set("k", "v", "products")

	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestStore_MissOnUnknownKey(t *testing.T) {
	s := New(0)

	_, ok := s.Get("nope")
	assert.False(t, ok)
}

func TestStore_InvalidateTagForcesMiss(t *testing.T) {
	s := New(0)
	s.Set("products:list", []string{"a"}, "products")
	s.Set("pages:list", []string{"p"}, "pages")

	s.Invalidate("products")

	_, ok := s.Get("products:list")
	assert.False(t, ok, "entry under an invalidated tag must miss")

	v, ok := s.Get("pages:list")
	require.True(t, ok, "entries under other tags stay valid")
	assert.Equal(t, []string{"p"}, v)
}

func TestStore_RefetchAfterInvalidation(t *testing.T) {
	s := New(0)
	calls := 0
	fetch := func(context.Context) (any, error) {
		calls++
		return calls, nil
	}

	v, err := s.Do(context.Background(), "k", []string{"products"}, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// Warm hit, no fetch.
	v, err = s.Do(context.Background(), "k", []string{"products"}, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	s.Invalidate("products")

	v, err = s.Do(context.Background(), "k", []string{"products"}, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, v, "invalidation must force a refetch")
}

func TestStore_MultiTagEntryInvalidatedByAnyTag(t *testing.T) {
	s := New(0)
	s.Set("k", 1, "collections", "products")

	s.Invalidate("products")

	_, ok := s.Get("k")
	assert.False(t, ok)
}

func TestStore_TTLExpiry(t *testing.T) {
	s := New(10 * time.Millisecond)
	s.Set("k", 1, "products")

	_, ok := s.Get("k")
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	_, ok = s.Get("k")
	assert.False(t, ok)
}

func TestStore_DoErrorNotCached(t *testing.T) {
	s := New(0)
	boom := errors.New("upstream down")
	calls := 0

	_, err := s.Do(context.Background(), "k", nil, func(context.Context) (any, error) {
		calls++
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	v, err := s.Do(context.Background(), "k", nil, func(context.Context) (any, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 2, calls)
}

func TestStore_DoCollapsesConcurrentFetches(t *testing.T) {
	s := New(0)
	var fetches atomic.Int64
	release := make(chan struct{})

	fetch := func(context.Context) (any, error) {
		fetches.Add(1)
		<-release
		return "shared", nil
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([]any, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := s.Do(context.Background(), "k", []string{"products"}, fetch)
			assert.NoError(t, err)
			results[i] = v
		}()
	}

	// Give the goroutines a moment to pile onto the flight, then release.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), fetches.Load(), "concurrent identical reads must share one fetch")
	for _, v := range results {
		assert.Equal(t, "shared", v)
	}
}
