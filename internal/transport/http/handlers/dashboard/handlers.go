package dashboardhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrhub/internal/domain/auth"
	"hrhub/internal/domain/dashboard"
	"hrhub/internal/transport/http/api"
	"hrhub/internal/transport/http/middleware"
	"hrhub/internal/transport/http/shared"
)

type Handler struct {
	Service *dashboard.Service
}

func NewHandler(service *dashboard.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermDashboardView)).Get("/dashboard", h.handleDashboard)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	board, err := h.Service.For(r.Context(), sess)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, board, middleware.GetRequestID(r.Context()))
}
