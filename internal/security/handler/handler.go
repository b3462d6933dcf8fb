package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/platform/resource"
	"backoffice/internal/security/models"
	"backoffice/pkg/platform/httputil"
)

type RoleService interface {
	resource.Service[models.RoleDTO]
	Permissions(ctx context.Context, id int64) ([]models.PermissionDTO, error)
}

type UserService interface {
	resource.Service[models.UserDTO]
	Enable(ctx context.Context, id int64) (*models.UserDTO, error)
	Disable(ctx context.Context, id int64) (*models.UserDTO, error)
	ByUsername(ctx context.Context, username string) (*models.UserDTO, error)
	Permissions(ctx context.Context, id int64) (*models.EffectivePermissions, error)
}

type Handler struct {
	roleService RoleService
	userService UserService

	authorities *resource.Handler[models.AuthorityDTO]
	permissions *resource.Handler[models.PermissionDTO]
	roles       *resource.Handler[models.RoleDTO]
	groups      *resource.Handler[models.GroupDTO]
	users       *resource.Handler[models.UserDTO]
}

func New(authorities resource.Service[models.AuthorityDTO], permissions resource.Service[models.PermissionDTO],
	roles RoleService, groups resource.Service[models.GroupDTO], users UserService, logger *slog.Logger) *Handler {
	return &Handler{
		roleService: roles,
		userService: users,
		authorities: resource.New(authorities, logger),
		permissions: resource.New(permissions, logger),
		roles:       resource.New[models.RoleDTO](roles, logger),
		groups:      resource.New(groups, logger),
		users:       resource.New[models.UserDTO](users, logger),
	}
}

// Register mounts the access control routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/authorities", h.authorities.Routes)
	r.Route("/permissions", h.permissions.Routes)
	r.Route("/roles", func(r chi.Router) {
		h.roles.Routes(r)
		r.Get("/{id}/permissions", h.handleRolePermissions)
	})
	r.Route("/groups", h.groups.Routes)
	r.Route("/users", func(r chi.Router) {
		h.users.Routes(r)
		r.Get("/username/{username}", h.handleUserByUsername)
		r.Get("/{id}/permissions", h.handleUserPermissions)
		r.Put("/{id}/enable", h.handleSetEnabled(h.userService.Enable))
		r.Put("/{id}/disable", h.handleSetEnabled(h.userService.Disable))
	})
}

func (h *Handler) handleRolePermissions(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		h.roles.Fail(w, r, err)
		return
	}
	perms, err := h.roleService.Permissions(r.Context(), id)
	if err != nil {
		h.roles.Fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, perms)
}

func (h *Handler) handleUserByUsername(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.ByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.users.Fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleUserPermissions(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		h.users.Fail(w, r, err)
		return
	}
	perms, err := h.userService.Permissions(r.Context(), id)
	if err != nil {
		h.users.Fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, perms)
}

func (h *Handler) handleSetEnabled(apply func(context.Context, int64) (*models.UserDTO, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httputil.PathID(r, "id")
		if err != nil {
			h.users.Fail(w, r, err)
			return
		}
		user, err := apply(r.Context(), id)
		if err != nil {
			h.users.Fail(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, user)
	}
}
