package account

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrhub/internal/apiclient"
	"hrhub/internal/domain/auth"
	"hrhub/internal/forms"
	"hrhub/internal/session"
)

type recordingRegistrar struct {
	calls int
}

func (r *recordingRegistrar) RegisterDevice(ctx context.Context, sess *session.Session) {
	r.calls++
}

func newBackend(t *testing.T, handler http.HandlerFunc) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := apiclient.New(srv.URL, apiclient.WithRetries(0))
	require.NoError(t, err)
	return c
}

func TestSignInAdmin(t *testing.T) {
	api := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, apiclient.RouteAdminSignIn, r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "root@hr.io", creds.Email)
		_, _ = w.Write([]byte(`{"data":{"token":"tok-1","user":{"id":"a1","name":"Root","email":"root@hr.io","role":"SUPER_ADMIN"}}}`))
	})
	devices := &recordingRegistrar{}
	svc := NewService(api, devices, time.Hour, nil)
	sess := session.New("s1")

	user, err := svc.SignIn(context.Background(), sess, auth.KindAdmin, Credentials{Email: " Root@HR.io ", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Root", user.Name)

	snap := sess.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	assert.Equal(t, auth.KindAdmin, snap.Kind)
	assert.Equal(t, "tok-1", sess.Token())
	assert.Equal(t, 1, devices.calls)
}

func TestSignInBadCredentialsIsFormError(t *testing.T) {
	api := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	svc := NewService(api, nil, time.Hour, nil)
	sess := session.New("s1")

	_, err := svc.SignIn(context.Background(), sess, auth.KindUser, Credentials{Email: "ana@hr.io", Password: "nope"})
	var formErr *forms.Errors
	require.True(t, errors.As(err, &formErr))
	assert.Equal(t, "Invalid email or password", formErr.Message)
	assert.False(t, sess.Authenticated())
}

func TestSignInRejectsWrongPortal(t *testing.T) {
	api := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"token":"tok","user":{"id":"a1","name":"Root","role":"ADMIN"}}}`))
	})
	svc := NewService(api, nil, time.Hour, nil)
	sess := session.New("s1")
	_, err := svc.SignIn(context.Background(), sess, auth.KindUser, Credentials{Email: "ana@hr.io", Password: "x"})
	assert.ErrorIs(t, err, ErrWrongKind)
	assert.False(t, sess.Authenticated())
}

func TestBootstrapFetchesOnce(t *testing.T) {
	var calls atomic.Int32
	api := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, apiclient.RouteMe, r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"id":"u1","fullname":"Ana Diaz","email":"ana@hr.io","role":"EMPLOYEE"}}`))
	})
	svc := NewService(api, nil, time.Hour, nil)
	ctx := context.Background()

	store := session.NewMemoryPersister()
	first := session.NewManager(store, time.Hour)
	sess, err := first.Create(ctx)
	require.NoError(t, err)
	sess.SignIn(auth.KindUser, session.User{ID: "u1", Role: auth.RoleEmployee}, "tok", time.Now().Add(time.Hour))
	require.NoError(t, svc.Bootstrap(ctx, sess))
	assert.Equal(t, int32(0), calls.Load())

	restored, err := session.NewManager(store, time.Hour).Get(ctx, sess.ID())
	require.NoError(t, err)
	require.NoError(t, svc.Bootstrap(ctx, restored))
	require.NoError(t, svc.Bootstrap(ctx, restored))
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "Ana Diaz", restored.Snapshot().User.Name)
}

func TestSignOutClearsSession(t *testing.T) {
	var calls atomic.Int32
	api := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	svc := NewService(api, nil, time.Hour, nil)
	sess := session.New("s1")
	sess.SignIn(auth.KindUser, session.User{ID: "u1"}, "tok", time.Now().Add(time.Hour))

	svc.SignOut(context.Background(), sess)
	assert.False(t, sess.Authenticated())
	assert.Equal(t, int32(1), calls.Load())
}
