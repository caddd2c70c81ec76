package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"hrhub/internal/platform/metrics"
)

const persistTimeout = 5 * time.Second

// Manager owns live sessions and mirrors every change into the persister.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	store    Persister
	ttl      time.Duration
	metrics  *metrics.Collector
	now      func() time.Time
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func WithMetrics(c *metrics.Collector) Option {
	return func(m *Manager) {
		m.metrics = c
	}
}

func NewManager(store Persister, ttl time.Duration, opts ...Option) *Manager {
	if store == nil {
		store = NewMemoryPersister()
	}
	m := &Manager{
		sessions: map[string]*Session{},
		store:    store,
		ttl:      ttl,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) Now() time.Time {
	return m.now()
}

// Create starts an anonymous session.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	snap := Snapshot{ID: uuid.NewString(), ExpiresAt: m.now().Add(m.ttl)}
	if err := m.store.Save(ctx, snap); err != nil {
		return nil, err
	}
	s := m.track(snap)
	return s, nil
}

// Get returns the live session for id, restoring it from the persister when needed.
// Sessions past their expiry are deleted and reported as ErrNotFound.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		if m.expired(s.Snapshot()) {
			m.drop(ctx, id)
			return nil, ErrNotFound
		}
		return s, nil
	}

	snap, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.expired(snap) {
		m.drop(ctx, id)
		return nil, ErrNotFound
	}
	m.mu.Lock()
	if existing, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		return existing, nil
	}
	m.mu.Unlock()
	return m.track(snap), nil
}

// Rotate moves s to a fresh id and destroys the old one. The returned session replaces s;
// s itself is no longer persisted.
func (m *Manager) Rotate(ctx context.Context, s *Session) (*Session, error) {
	snap := s.Snapshot()
	oldID := snap.ID
	snap.ID = uuid.NewString()
	if err := m.store.Save(ctx, snap); err != nil {
		return nil, err
	}
	next := m.track(snap)
	if !s.MarkBootstrapped() {
		next.MarkBootstrapped()
	}
	next.pushToasts(s.DrainToasts())
	m.drop(ctx, oldID)
	return next, nil
}

func (m *Manager) Destroy(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return m.store.Delete(ctx, id)
}

// Authenticated lists live sessions that currently hold a token.
func (m *Manager) Authenticated() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		if s.Authenticated() {
			out = append(out, s)
		}
	}
	return out
}

// Sweep removes expired sessions from memory and the persister.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	now := m.now()
	m.mu.Lock()
	for id, s := range m.sessions {
		if !s.Snapshot().ExpiresAt.After(now) {
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
	return m.store.Sweep(ctx, now)
}

func (m *Manager) expired(snap Snapshot) bool {
	now := m.now()
	if !snap.ExpiresAt.After(now) {
		return true
	}
	if snap.IsAuthenticated {
		if exp, ok := TokenExpiry(snap.Token); ok && !exp.After(now) {
			return true
		}
	}
	return false
}

func (m *Manager) drop(ctx context.Context, id string) {
	if err := m.Destroy(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		slog.Warn("session drop failed", "sessionId", id, "err", err)
	}
}

// track makes snap live and persists its changes in version order. Saves for a session that
// was destroyed or rotated away are skipped.
func (m *Manager) track(snap Snapshot) *Session {
	s := newSession(snap)
	var authenticated atomic.Bool
	authenticated.Store(snap.IsAuthenticated)
	var (
		persistMu sync.Mutex
		saved     = snap.Version
	)
	s.Subscribe(func(next Snapshot) {
		if authenticated.Swap(next.IsAuthenticated) && !next.IsAuthenticated {
			m.metrics.RecordSessionExpired()
		}
		persistMu.Lock()
		defer persistMu.Unlock()
		if next.Version <= saved || !m.live(next.ID, s) {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := m.store.Save(ctx, next); err != nil {
			slog.Warn("session persist failed", "sessionId", next.ID, "err", err)
			return
		}
		saved = next.Version
	})
	m.mu.Lock()
	m.sessions[snap.ID] = s
	m.mu.Unlock()
	return s
}

func (m *Manager) live(id string, s *Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id] == s
}
