// Package service validates designation writes for any designation kind.
package service

import (
	"context"

	"backoffice/internal/designation/models"
	"backoffice/internal/designation/store"
	"backoffice/internal/platform/crud"
	"backoffice/internal/query"
	"backoffice/internal/validation"
	dErrors "backoffice/pkg/domain-errors"
	stringutil "backoffice/pkg/platform/strings"
)

type Service struct {
	*crud.Service[models.Designation, models.DesignationDTO]
	kind models.Kind
}

func New(kind models.Kind, repo query.Repository[models.Designation], opts ...crud.Option) *Service {
	s := &Service{kind: kind}
	s.Service = crud.New(kind.Name, repo, store.Schema,
		crud.Mapper[models.Designation, models.DesignationDTO]{
			ToDTO:    func(d models.Designation) models.DesignationDTO { return models.ToDTO(d, kind.Catalog) },
			ToEntity: models.ToEntity,
		},
		crud.Hooks[models.Designation]{
			Normalize: func(d *models.Designation) {
				stringutil.TrimAll(&d.DesignationAr, &d.DesignationEn, &d.DesignationFr)
			},
			Plan:        s.plan,
			Constraints: store.Constraints(kind),
		},
		opts...,
	)
	return s
}

func (s *Service) Catalog() query.Catalog {
	return s.kind.Catalog
}

func (s *Service) plan(d models.Designation) *validation.Plan {
	return validation.For(s.kind.Name).
		Require("designationFr", d.DesignationFr).
		MaxLen("designationFr", d.DesignationFr, validation.MaxDesignation).
		MaxLen("designationEn", d.DesignationEn, validation.MaxDesignation).
		MaxLen("designationAr", d.DesignationAr, validation.MaxDesignation).
		Unique("designationFr", d.DesignationFr, s.Unique("designationFr", d.DesignationFr))
}

// ByCategory pages through records classified under category.
func (s *Service) ByCategory(ctx context.Context, category query.Category, req query.PageRequest) (*query.Page[models.DesignationDTO], error) {
	keywords, ok := s.kind.Catalog.Keywords(category)
	if !ok {
		return nil, dErrors.New(dErrors.CodeBadRequest, "unknown "+s.kind.Name+" category "+string(category))
	}
	return s.Filter(ctx, req, query.ContainsAny("designationFr", keywords))
}

// CountByCategory counts the records of every category.
func (s *Service) CountByCategory(ctx context.Context) (map[query.Category]int64, error) {
	out := make(map[query.Category]int64)
	for _, c := range s.kind.Catalog.Categories() {
		keywords, _ := s.kind.Catalog.Keywords(c)
		n, err := s.Count(ctx, query.ContainsAny("designationFr", keywords))
		if err != nil {
			return nil, err
		}
		out[c] = n
	}
	return out, nil
}
