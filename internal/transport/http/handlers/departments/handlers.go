package departmentshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrhub/internal/domain/auth"
	"hrhub/internal/domain/departments"
	"hrhub/internal/session"
	"hrhub/internal/transport/http/api"
	"hrhub/internal/transport/http/middleware"
	"hrhub/internal/transport/http/shared"
)

type Handler struct {
	Service *departments.Service
}

func NewHandler(service *departments.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/departments", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermDepartmentsRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermDepartmentsWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermDepartmentsRead)).Get("/{departmentID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermDepartmentsWrite)).Put("/{departmentID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermDepartmentsWrite)).Delete("/{departmentID}", h.handleDelete)
		r.With(middleware.RequirePermission(auth.PermDepartmentsWrite)).Post("/{departmentID}/members", h.handleAddMembers)
		r.With(middleware.RequirePermission(auth.PermDepartmentsWrite)).Delete("/{departmentID}/members/{userID}", h.handleRemoveMember)
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
	dep, err := h.Service.Get(r.Context(), sess, chi.URLParam(r, "departmentID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, dep, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	var in departments.Input
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	dep, err := h.Service.Create(r.Context(), sess, in)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	sess.PushToast(session.ToastSuccess, "Department created", dep.Department+" was added.")
	api.Created(w, shared.NewSaved[departments.Input](dep), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	var in departments.Input
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	dep, err := h.Service.Update(r.Context(), sess, chi.URLParam(r, "departmentID"), in)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, dep, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	if err := h.Service.Delete(r.Context(), sess, chi.URLParam(r, "departmentID")); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAddMembers(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	var payload struct {
		MemberIDs []string `json:"memberIds"`
	}
	if err := shared.DecodeJSON(r, &payload); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	dep, err := h.Service.AddMembers(r.Context(), sess, chi.URLParam(r, "departmentID"), payload.MemberIDs)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, dep, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	if err := h.Service.RemoveMember(r.Context(), sess, chi.URLParam(r, "departmentID"), chi.URLParam(r, "userID")); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]string{"status": "removed"}, middleware.GetRequestID(r.Context()))
}
