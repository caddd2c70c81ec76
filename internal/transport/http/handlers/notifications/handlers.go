package notificationshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrhub/internal/domain/notifications"
	"hrhub/internal/transport/http/api"
	"hrhub/internal/transport/http/middleware"
	"hrhub/internal/transport/http/shared"
)

type Handler struct {
	Service *notifications.Service
}

func NewHandler(service *notifications.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/poll", h.handlePoll)
		r.Post("/{notificationID}/read", h.handleMarkRead)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	page, err := h.Service.List(r.Context(), sess, shared.ParseListQuery(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, shared.NewList(page), middleware.GetRequestID(r.Context()))
}

// handlePoll pulls unread messages into the session's toasts without waiting for the job.
func (h *Handler) handlePoll(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	n, err := h.Service.Poll(r.Context(), sess)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]int{"received": n}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	if err := h.Service.MarkRead(r.Context(), sess, chi.URLParam(r, "notificationID")); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]string{"status": "read"}, middleware.GetRequestID(r.Context()))
}
