// Package service validates the planning hierarchy and enforces quantity
// conservation between planned items and their distributions.
package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"backoffice/internal/planning/models"
	"backoffice/internal/planning/store"
	"backoffice/internal/platform/crud"
	"backoffice/internal/query"
	"backoffice/internal/validation"
	stringutil "backoffice/pkg/platform/strings"
)

type DomainService struct {
	*crud.Service[models.Domain, models.DomainDTO]
	rubrics *RubricService
}

func NewDomainService(repo query.Repository[models.Domain], opts ...crud.Option) *DomainService {
	s := &DomainService{}
	s.Service = crud.New(models.DomainKind, repo, store.DomainSchema,
		crud.Mapper[models.Domain, models.DomainDTO]{ToDTO: models.DomainToDTO, ToEntity: models.DomainToEntity},
		crud.Hooks[models.Domain]{
			Normalize: func(d *models.Domain) {
				stringutil.TrimAll(&d.DesignationAr, &d.DesignationEn, &d.DesignationFr)
			},
			Plan: func(d models.Domain) *validation.Plan {
				return designationPlan(models.DomainKind, d.DesignationAr, d.DesignationEn, d.DesignationFr).
					Unique("designationFr", d.DesignationFr, s.Unique("designationFr", d.DesignationFr))
			},
			Constraints: store.DomainConstraints,
		},
		opts...,
	)
	return s
}

// WithRelations returns the domain with its rubrics.
func (s *DomainService) WithRelations(ctx context.Context, id int64) (*models.DomainDTO, error) {
	out, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.rubrics != nil {
		rubrics, err := s.rubrics.AllDTO(ctx, query.Eq("domainId", id))
		if err != nil {
			return nil, err
		}
		out.Rubrics = rubrics
	}
	return out, nil
}

type RubricService struct {
	*crud.Service[models.Rubric, models.RubricDTO]
	domains *DomainService
	items   *ItemService
}

// NewRubricService also guards domains against deletion while rubrics
// reference them.
func NewRubricService(repo query.Repository[models.Rubric], domains *DomainService, opts ...crud.Option) *RubricService {
	s := &RubricService{domains: domains}
	s.Service = crud.New(models.RubricKind, repo, store.RubricSchema,
		crud.Mapper[models.Rubric, models.RubricDTO]{ToDTO: models.RubricToDTO, ToEntity: models.RubricToEntity},
		crud.Hooks[models.Rubric]{
			Normalize: func(r *models.Rubric) {
				stringutil.TrimAll(&r.DesignationAr, &r.DesignationEn, &r.DesignationFr)
			},
			Plan: func(r models.Rubric) *validation.Plan {
				return designationPlan(models.RubricKind, r.DesignationAr, r.DesignationEn, r.DesignationFr).
					RequireRef("domainId", r.DomainID).
					Unique("designationFr", r.DesignationFr, s.Unique("designationFr", r.DesignationFr)).
					Reference("domainId", models.DomainKind, r.DomainID, domains.Exists)
			},
			Constraints: store.RubricConstraints,
		},
		opts...,
	)
	domains.Guard(s.Referencing("domainId"))
	domains.rubrics = s
	return s
}

func (s *RubricService) ByDomain(ctx context.Context, domainID int64, req query.PageRequest) (*query.Page[models.RubricDTO], error) {
	return s.Filter(ctx, req, query.Eq("domainId", domainID))
}

func (s *RubricService) CountByDomain(ctx context.Context, domainID int64) (int64, error) {
	return s.Count(ctx, query.Eq("domainId", domainID))
}

// WithRelations returns the rubric with its domain and items.
func (s *RubricService) WithRelations(ctx context.Context, id int64) (*models.RubricDTO, error) {
	out, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		domain, err := s.domains.Get(gctx, out.DomainID)
		out.Domain = domain
		return err
	})
	if s.items != nil {
		g.Go(func() error {
			items, err := s.items.AllDTO(gctx, query.Eq("rubricId", id))
			out.Items = items
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

type ItemService struct {
	*crud.Service[models.Item, models.ItemDTO]
	rubrics      *RubricService
	plannedItems *PlannedItemService
}

// NewItemService also guards rubrics against deletion while items reference
// them.
func NewItemService(repo query.Repository[models.Item], rubrics *RubricService, opts ...crud.Option) *ItemService {
	s := &ItemService{rubrics: rubrics}
	s.Service = crud.New(models.ItemKind, repo, store.ItemSchema,
		crud.Mapper[models.Item, models.ItemDTO]{ToDTO: models.ItemToDTO, ToEntity: models.ItemToEntity},
		crud.Hooks[models.Item]{
			Normalize: func(i *models.Item) {
				stringutil.TrimAll(&i.DesignationAr, &i.DesignationEn, &i.DesignationFr)
			},
			Plan: func(i models.Item) *validation.Plan {
				return designationPlan(models.ItemKind, i.DesignationAr, i.DesignationEn, i.DesignationFr).
					RequireRef("rubricId", i.RubricID).
					Reference("rubricId", models.RubricKind, i.RubricID, rubrics.Exists)
			},
		},
		opts...,
	)
	rubrics.Guard(s.Referencing("rubricId"))
	rubrics.items = s
	return s
}

func (s *ItemService) ByRubric(ctx context.Context, rubricID int64, req query.PageRequest) (*query.Page[models.ItemDTO], error) {
	return s.Filter(ctx, req, query.Eq("rubricId", rubricID))
}

// WithRelations returns the item with its rubric and planned items.
func (s *ItemService) WithRelations(ctx context.Context, id int64) (*models.ItemDTO, error) {
	out, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rubric, err := s.rubrics.Get(gctx, out.RubricID)
		out.Rubric = rubric
		return err
	})
	if s.plannedItems != nil {
		g.Go(func() error {
			planned, err := s.plannedItems.AllDTO(gctx, query.Eq("itemId", id))
			out.PlannedItems = planned
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func designationPlan(kind, ar, en, fr string) *validation.Plan {
	return validation.For(kind).
		Require("designationFr", fr).
		MaxLen("designationFr", fr, validation.MaxDesignation).
		MaxLen("designationEn", en, validation.MaxDesignation).
		MaxLen("designationAr", ar, validation.MaxDesignation)
}
