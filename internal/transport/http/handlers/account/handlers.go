package accounthandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrhub/internal/domain/account"
	"hrhub/internal/domain/auth"
	"hrhub/internal/session"
	"hrhub/internal/transport/http/api"
	"hrhub/internal/transport/http/middleware"
	"hrhub/internal/transport/http/shared"
)

type Handler struct {
	Service  *account.Service
	Sessions *session.Manager
	Cookies  shared.Cookies
	Limit    func(http.Handler) http.Handler
}

func NewHandler(service *account.Service, sessions *session.Manager, cookies shared.Cookies, limit func(http.Handler) http.Handler) *Handler {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{Service: service, Sessions: sessions, Cookies: cookies, Limit: limit}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(h.Limit).Post("/auth/sign-in", h.signIn(auth.KindUser))
	r.With(h.Limit).Post("/admin/auth/sign-in", h.signIn(auth.KindAdmin))
	r.Post("/auth/sign-out", h.handleSignOut)
	r.Get("/session", h.handleSession)
	r.Post("/password-strength", h.handlePasswordStrength)
	r.With(middleware.RequireAuth).Get("/toasts", h.handleToasts)
}

func (h *Handler) signIn(kind auth.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.CurrentSession(r)
		if !ok {
			api.Fail(w, http.StatusInternalServerError, "session_missing", "no session", middleware.GetRequestID(r.Context()))
			return
		}
		var creds account.Credentials
		if err := shared.DecodeJSON(r, &creds); err != nil {
			shared.WriteError(w, r, err)
			return
		}
		if _, err := h.Service.SignIn(r.Context(), sess, kind, creds); err != nil {
			shared.WriteError(w, r, err)
			return
		}
		// A signed-in browser never keeps the id it was handed while anonymous.
		rotated, err := h.Sessions.Rotate(r.Context(), sess)
		if err != nil {
			sess.Expire()
			shared.WriteError(w, r, err)
			return
		}
		h.Cookies.SetSession(w, rotated.ID())
		snap := rotated.Snapshot()
		h.Cookies.SetToken(w, snap.Token, snap.ExpiresAt)
		api.Success(w, snap, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.CurrentSession(r); ok {
		h.Service.SignOut(r.Context(), sess)
	}
	shared.RedirectHome(w, r)
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.CurrentSession(r)
	if !ok {
		api.Success(w, session.Snapshot{}, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, sess.Snapshot(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePasswordStrength(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Password string `json:"password"`
	}
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, auth.Strength(payload.Password), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleToasts(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	toasts := sess.DrainToasts()
	if toasts == nil {
		toasts = []session.Toast{}
	}
	api.Success(w, toasts, middleware.GetRequestID(r.Context()))
}
