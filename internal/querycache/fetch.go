package querycache

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"hrhub/internal/platform/metrics"
)

const defaultLoadTimeout = 30 * time.Second

// Store pairs a Cache with the default TTL and collapses concurrent loads of one key.
// Each resource carries a generation bumped by Invalidate; a load started under an older
// generation is returned to its callers but never stored.
type Store struct {
	cache       Cache
	ttl         time.Duration
	loadTimeout time.Duration
	group       singleflight.Group
	metrics     *metrics.Collector

	mu          sync.Mutex
	generations map[string]uint64
}

func NewStore(cache Cache, ttl time.Duration, m *metrics.Collector) *Store {
	if cache == nil {
		cache = NewMemory()
	}
	return &Store{
		cache:       cache,
		ttl:         ttl,
		loadTimeout: defaultLoadTimeout,
		metrics:     m,
		generations: map[string]uint64{},
	}
}

func (s *Store) Cache() Cache {
	return s.cache
}

func (s *Store) Invalidate(ctx context.Context, resources ...string) {
	for _, resource := range resources {
		s.mu.Lock()
		s.generations[resource]++
		s.mu.Unlock()
		s.cache.Invalidate(ctx, resource)
	}
}

func (s *Store) generation(resource string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[resource]
}

// store writes raw unless resource was invalidated since gen was read.
func (s *Store) store(ctx context.Context, resource string, gen uint64, key string, raw []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[resource] != gen {
		return false
	}
	s.cache.Set(ctx, key, raw, s.ttl)
	return true
}

// Query identifies one cached read.
type Query struct {
	Resource string
	Scope    string
	Params   url.Values
}

func (q Query) Key() string {
	return Key(q.Resource, q.Scope, q.Params)
}

// Fetch reads q through the cache. Only successful loads are stored. The shared load runs
// detached from the caller's cancellation so one aborted request does not fail the others
// waiting on it; each caller still stops waiting when its own ctx ends.
func Fetch[T any](ctx context.Context, s *Store, q Query, load func(context.Context) (T, error)) (T, error) {
	var zero T
	key := q.Key()
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			s.metrics.RecordCache(true)
			return cached, nil
		}
		slog.Warn("query cache entry unreadable", "key", key)
	}
	s.metrics.RecordCache(false)

	gen := s.generation(q.Resource)
	flight := key + "#" + strconv.FormatUint(gen, 10)
	ch := s.group.DoChan(flight, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()
		loaded, err := load(loadCtx)
		if err != nil {
			return loaded, err
		}
		if raw, err := json.Marshal(loaded); err == nil {
			if !s.store(loadCtx, q.Resource, gen, key, raw) {
				slog.Debug("query result discarded after invalidation", "key", key)
			}
		}
		return loaded, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}
