// Package service validates budget types, financial operations and budget
// modifications and serves their canned filters.
package service

import (
	"context"

	"backoffice/internal/budget/models"
	"backoffice/internal/budget/store"
	"backoffice/internal/platform/crud"
	"backoffice/internal/query"
	"backoffice/internal/validation"
	dErrors "backoffice/pkg/domain-errors"
	stringutil "backoffice/pkg/platform/strings"
)

type BudgetTypeService struct {
	*crud.Service[models.BudgetType, models.BudgetTypeDTO]
}

func NewBudgetTypeService(repo query.Repository[models.BudgetType], opts ...crud.Option) *BudgetTypeService {
	s := &BudgetTypeService{}
	s.Service = crud.New(models.BudgetTypeKind, repo, store.BudgetTypeSchema,
		crud.Mapper[models.BudgetType, models.BudgetTypeDTO]{ToDTO: models.BudgetTypeToDTO, ToEntity: models.BudgetTypeToEntity},
		crud.Hooks[models.BudgetType]{
			Normalize: func(b *models.BudgetType) {
				stringutil.TrimAll(&b.DesignationAr, &b.DesignationEn, &b.DesignationFr, &b.AcronymAr, &b.AcronymEn, &b.AcronymFr)
			},
			Plan:        s.plan,
			Constraints: store.BudgetTypeConstraints,
		},
		opts...,
	)
	return s
}

func (s *BudgetTypeService) plan(b models.BudgetType) *validation.Plan {
	p := validation.For(models.BudgetTypeKind).
		Require("designationFr", b.DesignationFr).
		Require("acronymFr", b.AcronymFr)
	limits := []struct {
		field string
		value string
		max   int
	}{
		{"designationAr", b.DesignationAr, validation.MaxDesignation},
		{"designationEn", b.DesignationEn, validation.MaxDesignation},
		{"designationFr", b.DesignationFr, validation.MaxDesignation},
		{"acronymAr", b.AcronymAr, validation.MaxAcronym},
		{"acronymEn", b.AcronymEn, validation.MaxAcronym},
		{"acronymFr", b.AcronymFr, validation.MaxAcronym},
	}
	for _, l := range limits {
		p.MaxLen(l.field, l.value, l.max)
	}
	return p.
		Unique("designationFr", b.DesignationFr, s.Unique("designationFr", b.DesignationFr)).
		Unique("acronymFr", b.AcronymFr, s.Unique("acronymFr", b.AcronymFr))
}

func (s *BudgetTypeService) Catalog() query.Catalog {
	return models.BudgetTypeCategories
}

func (s *BudgetTypeService) categoryCriterion(category query.Category) (query.Criterion, error) {
	keywords, ok := models.BudgetTypeCategories.Keywords(category)
	if !ok {
		return query.Criterion{}, dErrors.New(dErrors.CodeBadRequest, "unknown budget type category "+string(category))
	}
	return query.ContainsAny("designationFr", keywords), nil
}

// ByCategory pages through budget types whose designation falls in category.
func (s *BudgetTypeService) ByCategory(ctx context.Context, category query.Category, req query.PageRequest) (*query.Page[models.BudgetTypeDTO], error) {
	c, err := s.categoryCriterion(category)
	if err != nil {
		return nil, err
	}
	return s.Filter(ctx, req, c)
}

// IDsInCategory lists the ids of every budget type in category.
func (s *BudgetTypeService) IDsInCategory(ctx context.Context, category query.Category) ([]int64, error) {
	c, err := s.categoryCriterion(category)
	if err != nil {
		return nil, err
	}
	rows, err := s.All(ctx, c)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids, nil
}

// ByAcronym returns the budget type with exactly this French acronym.
func (s *BudgetTypeService) ByAcronym(ctx context.Context, acronym string) (*models.BudgetTypeDTO, error) {
	rows, err := s.AllDTO(ctx, query.Eq("acronymFr", acronym))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, models.BudgetTypeKind+" with acronymFr \""+acronym+"\" not found")
	}
	return &rows[0], nil
}
