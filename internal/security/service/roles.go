package service

import (
	"context"

	"backoffice/internal/platform/crud"
	"backoffice/internal/query"
	"backoffice/internal/security/models"
	"backoffice/internal/security/store"
	"backoffice/internal/validation"
	stringutil "backoffice/pkg/platform/strings"
)

type RoleService struct {
	*crud.Service[models.Role, models.RoleDTO]
	permissions *PermissionService
}

// NewRoleService stores permission ids in links. Permissions cannot be
// deleted while a role grants them.
func NewRoleService(repo query.Repository[models.Role], links store.Links, permissions *PermissionService, opts ...crud.Option) *RoleService {
	s := &RoleService{permissions: permissions}
	assoc := association[models.Role]{
		links: links,
		id:    store.RoleSchema.ID,
		get:   func(r models.Role) []int64 { return r.PermissionIDs },
		set:   func(r *models.Role, ids []int64) { r.PermissionIDs = ids },
	}
	s.Service = crud.New(models.RoleKind, repo, store.RoleSchema,
		crud.Mapper[models.Role, models.RoleDTO]{ToDTO: models.RoleToDTO, ToEntity: models.RoleToEntity},
		assoc.hooks(crud.Hooks[models.Role]{
			Normalize: func(r *models.Role) {
				stringutil.TrimAll(&r.Name, &r.Description)
				r.PermissionIDs = stringutil.DedupeIDs(r.PermissionIDs)
			},
			Plan: func(r models.Role) *validation.Plan {
				return namePlan(models.RoleKind, r.Name).
					MaxLen("description", r.Description, validation.MaxDescription).
					Unique("name", r.Name, s.Unique("name", r.Name)).
					References("permissionIds", models.PermissionKind, r.PermissionIDs, permissions.Exists)
			},
			Constraints: store.RoleConstraints,
		}),
		opts...,
	)
	permissions.Guard(guard(models.RoleKind, links))
	return s
}

// ByIDs returns the roles with the given ids, ordered by id.
func (s *RoleService) ByIDs(ctx context.Context, ids []int64) ([]models.RoleDTO, error) {
	if len(ids) == 0 {
		return []models.RoleDTO{}, nil
	}
	return s.AllDTO(ctx, query.In("id", ids))
}

// Permissions lists the permissions a role grants.
func (s *RoleService) Permissions(ctx context.Context, id int64) ([]models.PermissionDTO, error) {
	role, err := s.Entity(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.permissions.ByIDs(ctx, role.PermissionIDs)
}

type GroupService struct {
	*crud.Service[models.Group, models.GroupDTO]
}

// NewGroupService stores role ids in links. Roles cannot be deleted while a
// group holds them.
func NewGroupService(repo query.Repository[models.Group], links store.Links, roles *RoleService, opts ...crud.Option) *GroupService {
	s := &GroupService{}
	assoc := association[models.Group]{
		links: links,
		id:    store.GroupSchema.ID,
		get:   func(g models.Group) []int64 { return g.RoleIDs },
		set:   func(g *models.Group, ids []int64) { g.RoleIDs = ids },
	}
	s.Service = crud.New(models.GroupKind, repo, store.GroupSchema,
		crud.Mapper[models.Group, models.GroupDTO]{ToDTO: models.GroupToDTO, ToEntity: models.GroupToEntity},
		assoc.hooks(crud.Hooks[models.Group]{
			Normalize: func(g *models.Group) {
				stringutil.TrimAll(&g.Name)
				g.RoleIDs = stringutil.DedupeIDs(g.RoleIDs)
			},
			Plan: func(g models.Group) *validation.Plan {
				return namePlan(models.GroupKind, g.Name).
					Unique("name", g.Name, s.Unique("name", g.Name)).
					References("roleIds", models.RoleKind, g.RoleIDs, roles.Exists)
			},
			Constraints: store.GroupConstraints,
		}),
		opts...,
	)
	roles.Guard(guard(models.GroupKind, links))
	return s
}
