package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"hrhub/internal/apiclient"
	"hrhub/internal/requestctx"
	"hrhub/internal/session"
	"hrhub/internal/transport/http/shared"
)

// Bootstrapper refreshes a restored session from the backend.
type Bootstrapper interface {
	Bootstrap(ctx context.Context, sess *session.Session) error
}

// Sessions resolves the browser's session from its cookie, creating an anonymous one when
// the cookie is missing or stale, and keeps the token cookie in step with the session.
func Sessions(mgr *session.Manager, boot Bootstrapper, cookies shared.Cookies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sess, err := lookup(ctx, mgr, r)
			if err != nil {
				if !errors.Is(err, session.ErrNotFound) {
					slog.Warn("session restore failed", "err", err, "requestId", requestctx.GetRequestID(ctx))
				}
				sess, err = mgr.Create(ctx)
				if err != nil {
					slog.Warn("session create failed", "err", err, "requestId", requestctx.GetRequestID(ctx))
					shared.WriteError(w, r, err)
					return
				}
				cookies.SetSession(w, sess.ID())
			}

			if boot != nil && sess.Authenticated() {
				if err := boot.Bootstrap(ctx, sess); err != nil && !errors.Is(err, apiclient.ErrUnauthorized) {
					slog.Warn("session bootstrap failed", "sessionId", sess.ID(), "err", err)
				}
			}

			mirrorToken(w, r, sess, cookies)
			ctx = requestctx.WithSessionID(session.NewContext(ctx, sess), sess.ID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func lookup(ctx context.Context, mgr *session.Manager, r *http.Request) (*session.Session, error) {
	cookie, err := r.Cookie(shared.SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, session.ErrNotFound
	}
	return mgr.Get(ctx, cookie.Value)
}

func mirrorToken(w http.ResponseWriter, r *http.Request, sess *session.Session, cookies shared.Cookies) {
	snap := sess.Snapshot()
	current := ""
	if c, err := r.Cookie(shared.TokenCookie); err == nil {
		current = c.Value
	}
	switch {
	case snap.IsAuthenticated && current != snap.Token:
		cookies.SetToken(w, snap.Token, snap.ExpiresAt)
	case !snap.IsAuthenticated && current != "":
		http.SetCookie(w, &http.Cookie{Name: shared.TokenCookie, Path: "/", MaxAge: -1, HttpOnly: true})
	}
}

// CurrentSession returns the session Sessions attached to the request.
func CurrentSession(r *http.Request) (*session.Session, bool) {
	return session.FromContext(r.Context())
}
