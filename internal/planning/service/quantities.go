package service

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"backoffice/internal/planning/models"
	"backoffice/internal/planning/store"
	"backoffice/internal/platform/crud"
	"backoffice/internal/query"
	"backoffice/internal/validation"
)

// FinancialOperationKind is the target kind named when a planned item's
// operation does not resolve.
const FinancialOperationKind = "FinancialOperation"

// StructureKind is the target kind named when a distribution's structure does
// not resolve.
const StructureKind = "Structure"

type PlannedItemService struct {
	*crud.Service[models.PlannedItem, models.PlannedItemDTO]
	items         *ItemService
	distributions store.DistributionRepository
}

// NewPlannedItemService resolves financial operations with operations and
// reads distributed totals from distributions. It also guards items against
// deletion while planned items reference them.
func NewPlannedItemService(repo query.Repository[models.PlannedItem], items *ItemService, operations validation.ResolveFunc,
	distributions store.DistributionRepository, opts ...crud.Option) *PlannedItemService {
	s := &PlannedItemService{items: items, distributions: distributions}
	s.Service = crud.New(models.PlannedItemKind, repo, store.PlannedItemSchema,
		crud.Mapper[models.PlannedItem, models.PlannedItemDTO]{ToDTO: models.PlannedItemToDTO, ToEntity: models.PlannedItemToEntity},
		crud.Hooks[models.PlannedItem]{
			Plan: func(p models.PlannedItem) *validation.Plan {
				key := []string{"itemId", "financialOperationId"}
				values := []any{p.ItemID, p.FinancialOperationID}
				return validation.For(models.PlannedItemKind).
					RequireRef("itemId", p.ItemID).
					RequireRef("financialOperationId", p.FinancialOperationID).
					Rule(func() error {
						return validation.Quantity(models.PlannedItemKind, "plannedQuantity", p.PlannedQuantity)
					}).
					Rule(func() error {
						return validation.NonNegative(models.PlannedItemKind, "plannedQuantity", p.PlannedQuantity)
					}).
					UniqueTogether(key, values, s.UniqueTogether(key, values)).
					Reference("itemId", models.ItemKind, p.ItemID, items.Exists).
					Reference("financialOperationId", FinancialOperationKind, p.FinancialOperationID, operations)
			},
			// The row is already locked by the update, so no distribution
			// can land between the sum and the write.
			BeforeWrite: func(ctx context.Context, prior *models.PlannedItem, next *models.PlannedItem) error {
				if prior == nil || !next.PlannedQuantity.LessThan(prior.PlannedQuantity) {
					return nil
				}
				distributed, err := distributions.SumQuantity(ctx, next.ID)
				if err != nil {
					return err
				}
				return validation.CoverDistributed(next.PlannedQuantity, distributed)
			},
			Constraints: store.PlannedItemConstraints,
		},
		opts...,
	)
	items.Guard(s.Referencing("itemId"))
	items.plannedItems = s
	return s
}

func (s *PlannedItemService) ByItem(ctx context.Context, itemID int64, req query.PageRequest) (*query.Page[models.PlannedItemDTO], error) {
	return s.Filter(ctx, req, query.Eq("itemId", itemID))
}

func (s *PlannedItemService) ByFinancialOperation(ctx context.Context, operationID int64, req query.PageRequest) (*query.Page[models.PlannedItemDTO], error) {
	return s.Filter(ctx, req, query.Eq("financialOperationId", operationID))
}

// Summary reports how much of the planned quantity has been distributed.
func (s *PlannedItemService) Summary(ctx context.Context, id int64) (*models.QuantitySummary, error) {
	planned, err := s.Entity(ctx, id)
	if err != nil {
		return nil, err
	}
	var (
		distributed decimal.Decimal
		count       int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sum, err := s.distributions.SumQuantity(gctx, id)
		distributed = sum
		return err
	})
	g.Go(func() error {
		n, err := s.distributions.Count(gctx, query.Eq("plannedItemId", id))
		count = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &models.QuantitySummary{
		PlannedItemID: id,
		Planned:       planned.PlannedQuantity,
		Distributed:   distributed,
		Remaining:     planned.PlannedQuantity.Sub(distributed),
		Distributions: count,
	}, nil
}

// WithRelations returns the planned item with its item, its distributions and
// the quantity still available.
func (s *PlannedItemService) WithRelations(ctx context.Context, id int64) (*models.PlannedItemDTO, error) {
	out, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		item, err := s.items.Get(gctx, out.ItemID)
		out.Item = item
		return err
	})
	g.Go(func() error {
		rows, err := s.distributions.All(gctx, query.Eq("plannedItemId", id))
		if err != nil {
			return err
		}
		distributed := decimal.Zero
		out.Distributions = make([]models.ItemDistributionDTO, len(rows))
		for i, r := range rows {
			out.Distributions[i] = models.DistributionToDTO(r)
			distributed = distributed.Add(r.Quantity)
		}
		remaining := out.PlannedQuantity.Sub(distributed)
		out.RemainingQuantity = &remaining
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

type DistributionService struct {
	*crud.Service[models.ItemDistribution, models.ItemDistributionDTO]
	repo         store.DistributionRepository
	plannedItems *PlannedItemService
}

// NewDistributionService resolves structures with structures. It also guards
// planned items against deletion while distributions reference them.
func NewDistributionService(repo store.DistributionRepository, plannedItems *PlannedItemService, structures validation.ResolveFunc, opts ...crud.Option) *DistributionService {
	s := &DistributionService{repo: repo, plannedItems: plannedItems}
	s.Service = crud.New(models.DistributionKind, repo, store.DistributionSchema,
		crud.Mapper[models.ItemDistribution, models.ItemDistributionDTO]{ToDTO: models.DistributionToDTO, ToEntity: models.DistributionToEntity},
		crud.Hooks[models.ItemDistribution]{
			Plan: func(d models.ItemDistribution) *validation.Plan {
				return validation.For(models.DistributionKind).
					RequireRef("plannedItemId", d.PlannedItemID).
					RequireRef("structureId", d.StructureID).
					Rule(func() error {
						return validation.Quantity(models.DistributionKind, "quantity", d.Quantity)
					}).
					Rule(func() error {
						return validation.Positive(models.DistributionKind, "quantity", d.Quantity)
					}).
					Reference("plannedItemId", models.PlannedItemKind, d.PlannedItemID, plannedItems.Exists).
					Reference("structureId", StructureKind, d.StructureID, structures)
			},
			BeforeWrite: s.conserve,
		},
		opts...,
	)
	plannedItems.Guard(s.Referencing("plannedItemId"))
	return s
}

// conserve locks the planned item before summing so concurrent writers
// against the same planned item observe each other's distributions.
func (s *DistributionService) conserve(ctx context.Context, prior *models.ItemDistribution, next *models.ItemDistribution) error {
	planned, err := s.plannedItems.Lock(ctx, next.PlannedItemID)
	if err != nil {
		return err
	}
	current, err := s.repo.SumQuantity(ctx, next.PlannedItemID)
	if err != nil {
		return err
	}
	own := decimal.Zero
	if prior != nil && prior.PlannedItemID == next.PlannedItemID {
		own = prior.Quantity
	}
	if _, err := validation.ConserveQuantity(planned.PlannedQuantity, current, own, next.Quantity); err != nil {
		s.Metrics().IncrementConservationRejected()
		return err
	}
	return nil
}

func (s *DistributionService) ByPlannedItem(ctx context.Context, plannedItemID int64, req query.PageRequest) (*query.Page[models.ItemDistributionDTO], error) {
	return s.Filter(ctx, req, query.Eq("plannedItemId", plannedItemID))
}

func (s *DistributionService) ByStructure(ctx context.Context, structureID int64, req query.PageRequest) (*query.Page[models.ItemDistributionDTO], error) {
	return s.Filter(ctx, req, query.Eq("structureId", structureID))
}

// Sum totals the distributions of a planned item. The planned item must exist.
func (s *DistributionService) Sum(ctx context.Context, plannedItemID int64) (*models.DistributedSum, error) {
	if _, err := s.plannedItems.Entity(ctx, plannedItemID); err != nil {
		return nil, err
	}
	sum, err := s.repo.SumQuantity(ctx, plannedItemID)
	if err != nil {
		return nil, err
	}
	return &models.DistributedSum{PlannedItemID: plannedItemID, Sum: sum}, nil
}
