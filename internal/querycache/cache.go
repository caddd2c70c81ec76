package querycache

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Cache stores encoded query results keyed by resource, scope and params.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	// Invalidate drops every entry of resource, across all scopes.
	Invalidate(ctx context.Context, resource string)
}

// Key builds "resource:scope:params". Params are encoded in sorted order so equal
// queries share a key.
func Key(resource, scope string, params url.Values) string {
	var b strings.Builder
	b.WriteString(resource)
	b.WriteByte(':')
	b.WriteString(scope)
	b.WriteByte(':')
	b.WriteString(params.Encode())
	return b.String()
}

func resourcePrefix(resource string) string {
	return resource + ":"
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: map[string]memoryEntry{}, now: time.Now}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if !entry.expires.IsZero() && !entry.expires.After(m.now()) {
		delete(m.entries, key)
		return nil, false
	}
	return entry.value, true
}

func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expires = m.now().Add(ttl)
	}
	m.entries[key] = entry
}

func (m *Memory) Invalidate(ctx context.Context, resource string) {
	prefix := resourcePrefix(resource)
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
}

// Len is the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
