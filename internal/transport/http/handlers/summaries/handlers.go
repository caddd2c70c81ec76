package summarieshandler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrhub/internal/domain/auth"
	"hrhub/internal/domain/summaries"
	"hrhub/internal/session"
	"hrhub/internal/transport/http/api"
	"hrhub/internal/transport/http/middleware"
	"hrhub/internal/transport/http/shared"
)

type Handler struct {
	Service *summaries.Service
}

func NewHandler(service *summaries.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/summaries", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermSummariesRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermSummariesRead)).Get("/{summaryID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermSummariesRead)).Get("/{summaryID}/pdf", h.handlePDF)
		r.With(middleware.RequirePermission(auth.PermSummariesAck)).Post("/{summaryID}/acknowledge", h.handleAcknowledge)
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

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	summary, err := h.Service.Get(r.Context(), sess, chi.URLParam(r, "summaryID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	summary, err := h.Service.Acknowledge(r.Context(), sess, chi.URLParam(r, "summaryID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	sess.PushToast(session.ToastSuccess, "Summary acknowledged", "Thanks for reviewing your summary.")
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	id := chi.URLParam(r, "summaryID")
	body, err := h.Service.PDF(r.Context(), sess, id)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "review-summary-"+id+".pdf"))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
