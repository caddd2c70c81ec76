package peoplehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrhub/internal/domain/auth"
	"hrhub/internal/domain/people"
	"hrhub/internal/session"
	"hrhub/internal/transport/http/api"
	"hrhub/internal/transport/http/middleware"
	"hrhub/internal/transport/http/shared"
)

type Handler struct {
	Service *people.Service
}

func NewHandler(service *people.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermUsersRead)).Get("/", h.handleListUsers)
		r.With(middleware.RequirePermission(auth.PermUsersWrite)).Post("/", h.handleCreateUser)
		r.With(middleware.RequirePermission(auth.PermUsersRead)).Get("/{userID}", h.handleGetUser)
		r.With(middleware.RequirePermission(auth.PermUsersWrite)).Put("/{userID}", h.handleUpdateUser)
		r.With(middleware.RequirePermission(auth.PermUsersWrite)).Delete("/{userID}", h.handleDeleteUser)
	})
	r.Route("/admins", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAdminsRead)).Get("/", h.handleListAdmins)
		r.With(middleware.RequirePermission(auth.PermAdminsWrite)).Post("/", h.handleCreateAdmin)
		r.With(middleware.RequirePermission(auth.PermAdminsRead)).Get("/{adminID}", h.handleGetAdmin)
		r.With(middleware.RequirePermission(auth.PermAdminsWrite)).Put("/{adminID}", h.handleUpdateAdmin)
		r.With(middleware.RequirePermission(auth.PermAdminsWrite)).Delete("/{adminID}", h.handleDeleteAdmin)
	})
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	page, err := h.Service.ListUsers(r.Context(), sess, shared.ParseListQuery(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, shared.NewList(page), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	user, err := h.Service.GetUser(r.Context(), sess, chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, user, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	var in people.UserInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	user, err := h.Service.CreateUser(r.Context(), sess, in)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	sess.PushToast(session.ToastSuccess, "User created", user.Fullname+" was added.")
	api.Created(w, shared.NewSaved[people.UserInput](user), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	var in people.UserInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	user, err := h.Service.UpdateUser(r.Context(), sess, chi.URLParam(r, "userID"), in)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, user, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	if err := h.Service.DeleteUser(r.Context(), sess, chi.URLParam(r, "userID")); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListAdmins(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	page, err := h.Service.ListAdmins(r.Context(), sess, shared.ParseListQuery(r))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, shared.NewList(page), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetAdmin(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	admin, err := h.Service.GetAdmin(r.Context(), sess, chi.URLParam(r, "adminID"))
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, admin, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	var in people.AdminInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	admin, err := h.Service.CreateAdmin(r.Context(), sess, in)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	sess.PushToast(session.ToastSuccess, "Admin created", admin.Name+" was added.")
	api.Created(w, shared.NewSaved[people.AdminInput](admin), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateAdmin(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	var in people.AdminInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	admin, err := h.Service.UpdateAdmin(r.Context(), sess, chi.URLParam(r, "adminID"), in)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, admin, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteAdmin(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.CurrentSession(r)
	if err := h.Service.DeleteAdmin(r.Context(), sess, chi.URLParam(r, "adminID")); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
