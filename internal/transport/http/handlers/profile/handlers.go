package profilehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrhub/internal/domain/auth"
	"hrhub/internal/domain/profile"
	"hrhub/internal/session"
	"hrhub/internal/transport/http/api"
	"hrhub/internal/transport/http/middleware"
	"hrhub/internal/transport/http/shared"
)

type Handler struct {
	Service *profile.Service
}

func NewHandler(service *profile.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/profile", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermProfileWrite)).Put("/", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermProfileWrite)).Put("/password", h.handleChangePassword)
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	user, err := h.Service.Get(r.Context(), sess)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, user, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	var in profile.Input
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	user, err := h.Service.Update(r.Context(), sess, in)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, user, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	var in profile.PasswordInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if err := h.Service.ChangePassword(r.Context(), sess, in); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	sess.PushToast(session.ToastSuccess, "Password changed", "Your password was updated.")
	api.Success(w, shared.NewSaved[profile.PasswordInput](map[string]string{"status": "updated"}), middleware.GetRequestID(r.Context()))
}
