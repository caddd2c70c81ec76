package session

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrhub/internal/domain/auth"
	"hrhub/internal/platform/crypto"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()})
	signed, err := token.SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return signed
}

func TestExpireClearsStateExactlyOnce(t *testing.T) {
	s := newSession(Snapshot{ID: "s1"})
	s.SignIn(auth.KindUser, User{ID: "u1", Name: "Ada", Role: auth.RoleEmployee}, "tok", time.Now().Add(time.Hour))

	var mu sync.Mutex
	var cleared int
	s.Subscribe(func(snap Snapshot) {
		if !snap.IsAuthenticated {
			mu.Lock()
			cleared++
			mu.Unlock()
		}
	})

	var wg sync.WaitGroup
	results := make(chan bool, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.Expire()
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for ok := range results {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, cleared)

	snap := s.Snapshot()
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Token)
	assert.False(t, snap.IsAuthenticated)
}

func TestWizardAndToasts(t *testing.T) {
	s := newSession(Snapshot{ID: "s1"})
	_, ok := s.CurrentReview()
	assert.False(t, ok)

	s.SetCurrentReview("r-9")
	id, ok := s.CurrentReview()
	assert.True(t, ok)
	assert.Equal(t, "r-9", id)

	s.PushToast(ToastInfo, "Review", "assigned")
	s.PushToast(ToastError, "", "failed")
	toasts := s.DrainToasts()
	require.Len(t, toasts, 2)
	assert.Equal(t, "failed", toasts[1].Message)
	assert.Empty(t, s.DrainToasts())
}

func TestMarkBootstrappedOnce(t *testing.T) {
	s := newSession(Snapshot{ID: "s1"})
	assert.True(t, s.MarkBootstrapped())
	assert.False(t, s.MarkBootstrapped())
}

func TestManagerRestoresPersistedSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryPersister()
	m := NewManager(store, time.Hour)

	s, err := m.Create(ctx)
	require.NoError(t, err)
	token := signedToken(t, time.Now().Add(time.Hour))
	s.SignIn(auth.KindAdmin, User{ID: "a1", Name: "Root", Role: auth.RoleSuperAdmin}, token, time.Now().Add(time.Hour))

	restarted := NewManager(store, time.Hour)
	restored, err := restarted.Get(ctx, s.ID())
	require.NoError(t, err)
	snap := restored.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	assert.Equal(t, token, snap.Token)
	assert.Equal(t, auth.KindAdmin, snap.Kind)
	assert.True(t, restored.MarkBootstrapped(), "restored sessions need one bootstrap fetch")
}

// gatedPersister blocks the save that follows arm until release is closed.
type gatedPersister struct {
	*MemoryPersister
	mu      sync.Mutex
	armed   bool
	entered chan struct{}
	release chan struct{}
}

func (g *gatedPersister) arm() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.armed = true
	g.entered = make(chan struct{})
	g.release = make(chan struct{})
}

func (g *gatedPersister) Save(ctx context.Context, snap Snapshot) error {
	g.mu.Lock()
	armed := g.armed
	g.armed = false
	entered, release := g.entered, g.release
	g.mu.Unlock()
	if armed {
		close(entered)
		<-release
	}
	return g.MemoryPersister.Save(ctx, snap)
}

func TestManagerPersistsChangesInOrder(t *testing.T) {
	ctx := context.Background()
	store := &gatedPersister{MemoryPersister: NewMemoryPersister()}
	m := NewManager(store, time.Hour)

	s, err := m.Create(ctx)
	require.NoError(t, err)
	s.SignIn(auth.KindUser, User{ID: "u1", Role: auth.RoleEmployee}, "tok", time.Now().Add(time.Hour))

	store.arm()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.SetDeviceToken("device-1")
	}()
	<-store.entered
	go func() {
		defer wg.Done()
		assert.True(t, s.Expire())
	}()
	time.Sleep(20 * time.Millisecond)
	close(store.release)
	wg.Wait()

	persisted, err := store.Load(ctx, s.ID())
	require.NoError(t, err)
	assert.False(t, persisted.IsAuthenticated)
	assert.Empty(t, persisted.Token)

	restored, err := NewManager(store, time.Hour).Get(ctx, s.ID())
	require.NoError(t, err)
	assert.False(t, restored.Authenticated())
}

func TestManagerRotateMovesStateToFreshID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryPersister()
	m := NewManager(store, time.Hour)

	anon, err := m.Create(ctx)
	require.NoError(t, err)
	anon.SignIn(auth.KindUser, User{ID: "u1", Role: auth.RoleEmployee}, "tok", time.Now().Add(time.Hour))
	anon.PushToast(ToastInfo, "", "welcome")

	rotated, err := m.Rotate(ctx, anon)
	require.NoError(t, err)
	assert.NotEqual(t, anon.ID(), rotated.ID())
	assert.True(t, rotated.Authenticated())
	assert.Len(t, rotated.DrainToasts(), 1)
	assert.False(t, rotated.MarkBootstrapped(), "signed-in sessions skip the bootstrap fetch")

	_, err = m.Get(ctx, anon.ID())
	assert.ErrorIs(t, err, ErrNotFound)
	persisted, err := store.Load(ctx, rotated.ID())
	require.NoError(t, err)
	assert.True(t, persisted.IsAuthenticated)

	anon.SetDeviceToken("late")
	_, err = store.Load(ctx, anon.ID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerDropsExpiredToken(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryPersister()
	now := time.Now()
	require.NoError(t, store.Save(ctx, Snapshot{
		ID:              "old",
		User:            &User{ID: "u1"},
		Token:           signedToken(t, now.Add(-time.Minute)),
		IsAuthenticated: true,
		ExpiresAt:       now.Add(time.Hour),
	}))

	m := NewManager(store, time.Hour)
	_, err := m.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Load(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	clock := now
	m := NewManager(NewMemoryPersister(), time.Minute, WithClock(func() time.Time { return clock }))

	_, err := m.Create(ctx)
	require.NoError(t, err)
	clock = now.Add(2 * time.Minute)

	removed, err := m.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Empty(t, m.Authenticated())
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	got, ok := TokenExpiry(signedToken(t, exp))
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	_, ok = TokenExpiry("not-a-jwt")
	assert.False(t, ok)

	now := time.Now()
	assert.True(t, ExpiryFor("opaque", now, time.Hour).Equal(now.Add(time.Hour)))
}

func TestFilePersisterUsesFixedKeys(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	sealer, err := crypto.New("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	store, err := NewFilePersister(dir, sealer)
	require.NoError(t, err)

	snap := Snapshot{
		ID:              "abc123",
		Kind:            auth.KindUser,
		User:            &User{ID: "u1", Name: "Ada", Role: auth.RoleManager},
		Token:           "secret-token",
		IsAuthenticated: true,
		Profile:         &User{ID: "u1", Name: "Ada Lovelace"},
		ExpiresAt:       time.Now().Add(time.Hour).UTC(),
	}
	require.NoError(t, store.Save(ctx, snap))

	for _, key := range []string{authStorageKey, userProfileKey} {
		raw, err := os.ReadFile(filepath.Join(dir, "abc123", key))
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "secret-token")
	}

	loaded, err := store.Load(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "secret-token", loaded.Token)
	require.NotNil(t, loaded.Profile)
	assert.Equal(t, "Ada Lovelace", loaded.Profile.Name)

	_, err = store.Load(ctx, "../escape")
	assert.ErrorIs(t, err, ErrNotFound)

	removed, err := store.Sweep(ctx, time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}
