package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"hrhub/internal/domain/auth"
	"hrhub/internal/platform/crypto"
)

var ErrNotFound = errors.New("session not found")

// Persister keeps sessions across portal restarts.
type Persister interface {
	Load(ctx context.Context, id string) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	Delete(ctx context.Context, id string) error
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// authRecord is the persisted "auth-storage" entry.
type authRecord struct {
	ID              string    `json:"id"`
	Kind            auth.Kind `json:"kind"`
	User            *User     `json:"user"`
	TokenSealed     []byte    `json:"token"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	DeviceToken     string    `json:"deviceToken,omitempty"`
	CurrentReviewID string    `json:"currentReviewId,omitempty"`
	ExpiresAt       time.Time `json:"expiresAt"`
}

func toRecord(sealer *crypto.Sealer, snap Snapshot) (authRecord, error) {
	sealed, err := sealer.SealString(snap.Token)
	if err != nil {
		return authRecord{}, err
	}
	return authRecord{
		ID:              snap.ID,
		Kind:            snap.Kind,
		User:            snap.User,
		TokenSealed:     sealed,
		IsAuthenticated: snap.IsAuthenticated,
		DeviceToken:     snap.DeviceToken,
		CurrentReviewID: snap.CurrentReviewID,
		ExpiresAt:       snap.ExpiresAt,
	}, nil
}

func fromRecord(sealer *crypto.Sealer, rec authRecord, profile *User) (Snapshot, error) {
	token, err := sealer.OpenString(rec.TokenSealed)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		ID:              rec.ID,
		Kind:            rec.Kind,
		User:            rec.User,
		Token:           token,
		IsAuthenticated: rec.IsAuthenticated,
		Profile:         profile,
		DeviceToken:     rec.DeviceToken,
		CurrentReviewID: rec.CurrentReviewID,
		ExpiresAt:       rec.ExpiresAt,
	}, nil
}

type MemoryPersister struct {
	mu    sync.Mutex
	items map[string]Snapshot
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{items: map[string]Snapshot{}}
}

func (m *MemoryPersister) Load(ctx context.Context, id string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.items[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return snap, nil
}

func (m *MemoryPersister) Save(ctx context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[snap.ID] = snap
	return nil
}

func (m *MemoryPersister) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *MemoryPersister) Sweep(ctx context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, snap := range m.items {
		if !snap.ExpiresAt.After(now) {
			delete(m.items, id)
			removed++
		}
	}
	return removed, nil
}
