// Package service validates and orchestrates currency writes.
package service

import (
	"context"
	"fmt"

	"backoffice/internal/currency/models"
	"backoffice/internal/currency/store"
	"backoffice/internal/platform/crud"
	"backoffice/internal/query"
	"backoffice/internal/validation"
	dErrors "backoffice/pkg/domain-errors"
	stringutil "backoffice/pkg/platform/strings"
)

type Service struct {
	*crud.Service[models.Currency, models.CurrencyDTO]
}

func New(repo query.Repository[models.Currency], opts ...crud.Option) *Service {
	s := &Service{}
	s.Service = crud.New(models.Kind, repo, store.Schema,
		crud.Mapper[models.Currency, models.CurrencyDTO]{ToDTO: models.ToDTO, ToEntity: models.ToEntity},
		crud.Hooks[models.Currency]{
			Normalize: func(c *models.Currency) {
				stringutil.TrimAll(&c.DesignationAr, &c.DesignationEn, &c.DesignationFr, &c.CodeAr, &c.CodeLt)
			},
			Plan:        s.plan,
			Constraints: store.Constraints,
		},
		opts...,
	)
	return s
}

func (s *Service) plan(c models.Currency) *validation.Plan {
	p := validation.For(models.Kind)
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"designationAr", c.DesignationAr, validation.MaxDesignation},
		{"designationEn", c.DesignationEn, validation.MaxDesignation},
		{"designationFr", c.DesignationFr, validation.MaxDesignation},
		{"codeAr", c.CodeAr, validation.MaxCode},
		{"codeLt", c.CodeLt, validation.MaxCode},
	}
	for _, f := range fields {
		p.Require(f.name, f.value).
			MaxLen(f.name, f.value, f.max).
			Unique(f.name, f.value, s.Unique(f.name, f.value))
	}
	return p
}

// ByCodePrefix pages through currencies whose Latin code starts with prefix.
func (s *Service) ByCodePrefix(ctx context.Context, prefix string, req query.PageRequest) (*query.Page[models.CurrencyDTO], error) {
	return s.Filter(ctx, req, query.Prefix("codeLt", prefix))
}

// ByCode returns the currency with exactly this Latin code.
func (s *Service) ByCode(ctx context.Context, code string) (*models.CurrencyDTO, error) {
	rows, err := s.AllDTO(ctx, query.Eq("codeLt", code))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("%s with codeLt %q not found", models.Kind, code))
	}
	return &rows[0], nil
}
