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

type AuthorityService struct {
	*crud.Service[models.Authority, models.AuthorityDTO]
}

func NewAuthorityService(repo query.Repository[models.Authority], opts ...crud.Option) *AuthorityService {
	s := &AuthorityService{}
	s.Service = crud.New(models.AuthorityKind, repo, store.AuthoritySchema,
		crud.Mapper[models.Authority, models.AuthorityDTO]{ToDTO: models.AuthorityToDTO, ToEntity: models.AuthorityToEntity},
		crud.Hooks[models.Authority]{
			Normalize: func(a *models.Authority) { stringutil.TrimAll(&a.Name) },
			Plan: func(a models.Authority) *validation.Plan {
				return namePlan(models.AuthorityKind, a.Name).
					Unique("name", a.Name, s.Unique("name", a.Name))
			},
			Constraints: store.AuthorityConstraints,
		},
		opts...,
	)
	return s
}

type PermissionService struct {
	*crud.Service[models.Permission, models.PermissionDTO]
}

func NewPermissionService(repo query.Repository[models.Permission], opts ...crud.Option) *PermissionService {
	s := &PermissionService{}
	s.Service = crud.New(models.PermissionKind, repo, store.PermissionSchema,
		crud.Mapper[models.Permission, models.PermissionDTO]{ToDTO: models.PermissionToDTO, ToEntity: models.PermissionToEntity},
		crud.Hooks[models.Permission]{
			Normalize: func(p *models.Permission) { stringutil.TrimAll(&p.Name, &p.Description) },
			Plan: func(p models.Permission) *validation.Plan {
				return namePlan(models.PermissionKind, p.Name).
					MaxLen("description", p.Description, validation.MaxDescription).
					Unique("name", p.Name, s.Unique("name", p.Name))
			},
			Constraints: store.PermissionConstraints,
		},
		opts...,
	)
	return s
}

// ByIDs returns the permissions with the given ids, ordered by id.
func (s *PermissionService) ByIDs(ctx context.Context, ids []int64) ([]models.PermissionDTO, error) {
	if len(ids) == 0 {
		return []models.PermissionDTO{}, nil
	}
	return s.AllDTO(ctx, query.In("id", ids))
}

func namePlan(kind, name string) *validation.Plan {
	return validation.For(kind).
		Require("name", name).
		MaxLen("name", name, validation.MaxName)
}
