package querycache

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrhub/internal/platform/metrics"
)

func TestKeySortsParams(t *testing.T) {
	a := Key("admins", "u1", url.Values{"page": {"2"}, "limit": {"5"}})
	b := Key("admins", "u1", url.Values{"limit": {"5"}, "page": {"2"}})
	assert.Equal(t, a, b)
	assert.Equal(t, "admins:u1:limit=5&page=2", a)
}

func TestInvalidateRemovesOnlyResource(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.Set(ctx, Key("admins", "u1", nil), []byte("1"), 0)
	m.Set(ctx, Key("admins", "u2", url.Values{"page": {"3"}}), []byte("2"), 0)
	m.Set(ctx, Key("adminsx", "u1", nil), []byte("3"), 0)
	m.Set(ctx, Key("users", "u1", nil), []byte("4"), 0)

	m.Invalidate(ctx, "admins")

	_, ok := m.Get(ctx, Key("admins", "u1", nil))
	assert.False(t, ok)
	_, ok = m.Get(ctx, Key("admins", "u2", url.Values{"page": {"3"}}))
	assert.False(t, ok)
	_, ok = m.Get(ctx, Key("adminsx", "u1", nil))
	assert.True(t, ok)
	_, ok = m.Get(ctx, Key("users", "u1", nil))
	assert.True(t, ok)
}

func TestMemoryExpiresEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }
	m.Set(ctx, "k", []byte("v"), time.Minute)

	_, ok := m.Get(ctx, "k")
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = m.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestFetchReadsThrough(t *testing.T) {
	ctx := context.Background()
	col := metrics.New()
	store := NewStore(NewMemory(), time.Minute, col)
	q := Query{Resource: "users", Scope: "u1", Params: url.Values{"page": {"1"}}}

	var loads int
	load := func(context.Context) ([]string, error) {
		loads++
		return []string{"ana", "ben"}, nil
	}

	first, err := Fetch(ctx, store, q, load)
	require.NoError(t, err)
	second, err := Fetch(ctx, store, q, load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, loads)
	snap := col.Snapshot()
	assert.Equal(t, uint64(1), snap["cacheHitsTotal"])
	assert.Equal(t, uint64(1), snap["cacheMissesTotal"])

	store.Invalidate(ctx, "users")
	_, err = Fetch(ctx, store, q, load)
	require.NoError(t, err)
	assert.Equal(t, 2, loads)
}

func TestFetchDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemory(), time.Minute, nil)
	q := Query{Resource: "departments", Scope: "u1"}
	boom := errors.New("backend down")

	_, err := Fetch(ctx, store, q, func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	v, err := Fetch(ctx, store, q, func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestFetchCollapsesConcurrentLoads(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemory(), time.Minute, nil)
	q := Query{Resource: "reviews", Scope: "u1"}

	var loads atomic.Int32
	release := make(chan struct{})
	load := func(context.Context) (string, error) {
		loads.Add(1)
		<-release
		return "ok", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := Fetch(ctx, store, q, load)
			assert.NoError(t, err)
			assert.Equal(t, "ok", v)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
}

func TestFetchDropsLoadStartedBeforeInvalidate(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemory(), time.Minute, nil)
	q := Query{Resource: "admins", Scope: "u1"}

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan []string)
	go func() {
		v, err := Fetch(ctx, store, q, func(context.Context) ([]string, error) {
			close(started)
			<-release
			return []string{"old"}, nil
		})
		assert.NoError(t, err)
		done <- v
	}()

	<-started
	store.Invalidate(ctx, "admins")
	close(release)
	assert.Equal(t, []string{"old"}, <-done)

	var loads int
	v, err := Fetch(ctx, store, q, func(context.Context) ([]string, error) {
		loads++
		return []string{"old", "new"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, loads)
	assert.Equal(t, []string{"old", "new"}, v)
}

func TestFetchSurvivesFirstCallerCancel(t *testing.T) {
	store := NewStore(NewMemory(), time.Minute, nil)
	q := Query{Resource: "users", Scope: "u1"}

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	load := func(ctx context.Context) (string, error) {
		once.Do(func() { close(started) })
		select {
		case <-release:
			return "ok", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := Fetch(firstCtx, store, q, load)
		firstErr <- err
	}()
	<-started

	second := make(chan string, 1)
	go func() {
		v, err := Fetch(context.Background(), store, q, load)
		assert.NoError(t, err)
		second <- v
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)
	close(release)
	assert.Equal(t, "ok", <-second)
}

func TestRedisWithoutClientActsAsMiss(t *testing.T) {
	ctx := context.Background()
	var r *Redis
	r.Set(ctx, "k", []byte("v"), time.Minute)
	_, ok := r.Get(ctx, "k")
	assert.False(t, ok)
	r.Invalidate(ctx, "admins")
	assert.Error(t, r.Ping(ctx))
	assert.NoError(t, r.Close())
}
