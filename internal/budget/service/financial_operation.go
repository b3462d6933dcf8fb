package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"backoffice/internal/budget/models"
	"backoffice/internal/budget/store"
	"backoffice/internal/platform/crud"
	"backoffice/internal/query"
	"backoffice/internal/validation"
	dErrors "backoffice/pkg/domain-errors"
	stringutil "backoffice/pkg/platform/strings"
	"backoffice/pkg/requestcontext"
)

type FinancialOperationService struct {
	*crud.Service[models.FinancialOperation, models.FinancialOperationDTO]
	budgetTypes *BudgetTypeService
}

// NewFinancialOperationService also guards budget types against deletion
// while operations reference them.
func NewFinancialOperationService(repo query.Repository[models.FinancialOperation], budgetTypes *BudgetTypeService, opts ...crud.Option) *FinancialOperationService {
	s := &FinancialOperationService{budgetTypes: budgetTypes}
	s.Service = crud.New(models.FinancialOperationKind, repo, store.FinancialOperationSchema,
		crud.Mapper[models.FinancialOperation, models.FinancialOperationDTO]{
			ToDTO:    models.FinancialOperationToDTO,
			ToEntity: models.FinancialOperationToEntity,
		},
		crud.Hooks[models.FinancialOperation]{
			Normalize: func(f *models.FinancialOperation) {
				stringutil.TrimAll(&f.Operation, &f.BudgetYear)
			},
			Plan:        s.plan,
			Constraints: store.FinancialOperationConstraints,
		},
		opts...,
	)
	budgetTypes.Guard(s.Referencing("budgetTypeId"))
	return s
}

func (s *FinancialOperationService) plan(f models.FinancialOperation) *validation.Plan {
	return validation.For(models.FinancialOperationKind).
		Require("operation", f.Operation).
		Require("budgetYear", f.BudgetYear).
		RequireRef("budgetTypeId", f.BudgetTypeID).
		MaxLen("operation", f.Operation, validation.MaxOperation).
		RuleContext(func(ctx context.Context) error {
			return validation.BudgetYear(models.FinancialOperationKind, "budgetYear", f.BudgetYear, requestcontext.Now(ctx))
		}).
		Unique("operation", f.Operation, s.Unique("operation", f.Operation)).
		Reference("budgetTypeId", models.BudgetTypeKind, f.BudgetTypeID, s.budgetTypes.Exists)
}

func (s *FinancialOperationService) ByBudgetType(ctx context.Context, budgetTypeID int64, req query.PageRequest) (*query.Page[models.FinancialOperationDTO], error) {
	return s.Filter(ctx, req, query.Eq("budgetTypeId", budgetTypeID))
}

func (s *FinancialOperationService) CountByBudgetType(ctx context.Context, budgetTypeID int64) (int64, error) {
	return s.Count(ctx, query.Eq("budgetTypeId", budgetTypeID))
}

// ByYearRange pages through operations with from <= budgetYear <= to. Either
// bound may be empty.
func (s *FinancialOperationService) ByYearRange(ctx context.Context, from, to string, req query.PageRequest) (*query.Page[models.FinancialOperationDTO], error) {
	var where []query.Criterion
	for _, bound := range []struct {
		value string
		build func(string, any) query.Criterion
	}{{from, query.Gte}, {to, query.Lte}} {
		if bound.value == "" {
			continue
		}
		if !yearPattern(bound.value) {
			return nil, dErrors.New(dErrors.CodeBadRequest, "year bounds must be 4 digits")
		}
		where = append(where, bound.build("budgetYear", bound.value))
	}
	if from != "" && to != "" && from > to {
		return nil, dErrors.New(dErrors.CodeBadRequest, "from must not be after to")
	}
	return s.Filter(ctx, req, where...)
}

// ByBudgetTypeCategory pages through operations whose budget type falls in
// category.
func (s *FinancialOperationService) ByBudgetTypeCategory(ctx context.Context, category query.Category, req query.PageRequest) (*query.Page[models.FinancialOperationDTO], error) {
	ids, err := s.budgetTypes.IDsInCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return s.Filter(ctx, req, query.In("budgetTypeId", ids))
}

// WithRelations returns the operation with its budget type embedded.
func (s *FinancialOperationService) WithRelations(ctx context.Context, id int64) (*models.FinancialOperationDTO, error) {
	op, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	bt, err := s.budgetTypes.Get(ctx, op.BudgetTypeID)
	if err != nil {
		return nil, err
	}
	op.BudgetType = bt
	return op, nil
}

// YearSummary counts operations per budget year and per budget type category.
type YearSummary struct {
	Year       string                   `json:"year"`
	Total      int64                    `json:"total"`
	ByCategory map[query.Category]int64 `json:"byCategory"`
}

func (s *FinancialOperationService) SummaryForYear(ctx context.Context, year string) (*YearSummary, error) {
	if !yearPattern(year) {
		return nil, dErrors.New(dErrors.CodeBadRequest, "year must be 4 digits")
	}
	categories := models.BudgetTypeCategories.Categories()
	counts := make([]int64, len(categories))
	var total int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.Count(gctx, query.Eq("budgetYear", year))
		total = n
		return err
	})
	for i, c := range categories {
		g.Go(func() error {
			ids, err := s.budgetTypes.IDsInCategory(gctx, c)
			if err != nil {
				return err
			}
			n, err := s.Count(gctx, query.Eq("budgetYear", year), query.In("budgetTypeId", ids))
			counts[i] = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &YearSummary{Year: year, Total: total, ByCategory: make(map[query.Category]int64, len(categories))}
	for i, c := range categories {
		out.ByCategory[c] = counts[i]
	}
	return out, nil
}

func yearPattern(v string) bool {
	if len(v) != 4 {
		return false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
