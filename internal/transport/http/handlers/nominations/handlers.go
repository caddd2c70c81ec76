package nominationshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrhub/internal/domain/auth"
	"hrhub/internal/domain/nominations"
	"hrhub/internal/transport/http/api"
	"hrhub/internal/transport/http/middleware"
	"hrhub/internal/transport/http/shared"
)

type Handler struct {
	Service *nominations.Service
}

func NewHandler(service *nominations.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/nominations", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermNominationsRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermNominationsCreate)).Post("/", h.handleNominate)
		r.With(middleware.RequirePermission(auth.PermNominationsRespond)).Post("/{nominationID}/{action}", h.handleRespond)
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

func (h *Handler) handleNominate(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	var in nominations.NominateInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	n, err := h.Service.Nominate(r.Context(), sess, in)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, shared.NewSaved[nominations.NominateInput](n.Row()), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRespond(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	action, err := nominations.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	n, err := h.Service.Respond(r.Context(), sess, chi.URLParam(r, "nominationID"), action)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, n.Row(), middleware.GetRequestID(r.Context()))
}
