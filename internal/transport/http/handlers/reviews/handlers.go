package reviewshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrhub/internal/domain/auth"
	"hrhub/internal/domain/reviews"
	"hrhub/internal/transport/http/api"
	"hrhub/internal/transport/http/middleware"
	"hrhub/internal/transport/http/shared"
)

type Handler struct {
	Service *reviews.Service
}

func NewHandler(service *reviews.Service) *Handler {
	return &Handler{Service: service}
}

// createPermission maps a review type to the permission needed to open it.
var createPermission = map[reviews.ReviewType]string{
	reviews.TypeSelf:    auth.PermReviewsSelf,
	reviews.TypeManager: auth.PermReviewsManager,
	reviews.TypePeer:    auth.PermReviewsPeer,
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reviews", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermReviewsRead))
		r.Get("/", h.list(reviews.ListAll))
		r.Get("/self", h.list(reviews.ListSelf))
		r.Get("/manager", h.list(reviews.ListManager))
		r.Get("/peer", h.list(reviews.ListPeer))
		r.Post("/", h.handleCreate)
		r.Post("/wizard/questionnaires", h.handleAddQuestionnaire)
		r.Post("/wizard/finish", h.handleFinishWizard)
		r.Get("/{reviewID}", h.handleGet)
		r.Patch("/{reviewID}/status", h.handleUpdateStatus)
		r.Put("/questionnaires/{questionnaireID}/answers", h.handleSubmitAnswers)
	})
}

func (h *Handler) list(kind reviews.ListKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := middleware.CurrentSession(r)
		page, err := h.Service.List(r.Context(), sess, kind, shared.ParseListQuery(r))
		if err != nil {
			shared.WriteError(w, r, err)
			return
		}
		api.Success(w, shared.NewList(page), middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	review, err := h.Service.Get(r.Context(), sess, chi.URLParam(r, "reviewID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, review, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	var in reviews.Input
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	if perm, ok := createPermission[in.ReviewType.Normalize()]; ok && !auth.HasPermission(sess.Snapshot().Role(), perm) {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", middleware.GetRequestID(r.Context()))
		return
	}
	review, err := h.Service.Create(r.Context(), sess, in)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, shared.NewSaved[reviews.Input](review), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAddQuestionnaire(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	var in reviews.QuestionnaireInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	items, err := h.Service.AddQuestionnaire(r.Context(), sess, in)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Created(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleFinishWizard(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	id, err := h.Service.FinishWizard(sess)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]string{"reviewId": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	var payload struct {
		ProgressStatus string `json:"progressStatus"`
	}
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	review, err := h.Service.UpdateStatus(r.Context(), sess, chi.URLParam(r, "reviewID"), payload.ProgressStatus)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, review, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmitAnswers(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	var in reviews.AnswerInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	q, err := h.Service.SubmitAnswers(r.Context(), sess, chi.URLParam(r, "questionnaireID"), in)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, q, middleware.GetRequestID(r.Context()))
}
