// Package store maps the planning kinds onto domains, rubrics, items,
// planned_items and item_distributions.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"backoffice/internal/planning/models"
	"backoffice/internal/platform/memstore"
	"backoffice/internal/platform/postgres"
	"backoffice/internal/query"
	"backoffice/internal/validation"
)

// DistributionRepository adds the quantity aggregate conservation is checked
// against.
type DistributionRepository interface {
	query.Repository[models.ItemDistribution]
	// SumQuantity totals the persisted distributions of a planned item.
	SumQuantity(ctx context.Context, plannedItemID int64) (decimal.Decimal, error)
}

func designationFields[T any](ar, en, fr func(T) string) map[string]func(T) any {
	return map[string]func(T) any{
		"designationAr": func(v T) any { return ar(v) },
		"designationEn": func(v T) any { return en(v) },
		"designationFr": func(v T) any { return fr(v) },
	}
}

var designationSearch = []string{"designationAr", "designationEn", "designationFr"}

var DomainSchema = query.Schema[models.Domain]{
	ID:    func(d models.Domain) int64 { return d.ID },
	SetID: func(d *models.Domain, id int64) { d.ID = id },
	Fields: designationFields(
		func(d models.Domain) string { return d.DesignationAr },
		func(d models.Domain) string { return d.DesignationEn },
		func(d models.Domain) string { return d.DesignationFr },
	),
	Search: designationSearch,
}

var RubricSchema = func() query.Schema[models.Rubric] {
	s := query.Schema[models.Rubric]{
		ID:    func(r models.Rubric) int64 { return r.ID },
		SetID: func(r *models.Rubric, id int64) { r.ID = id },
		Fields: designationFields(
			func(r models.Rubric) string { return r.DesignationAr },
			func(r models.Rubric) string { return r.DesignationEn },
			func(r models.Rubric) string { return r.DesignationFr },
		),
		Search: designationSearch,
	}
	s.Fields["domainId"] = func(r models.Rubric) any { return r.DomainID }
	return s
}()

var ItemSchema = func() query.Schema[models.Item] {
	s := query.Schema[models.Item]{
		ID:    func(i models.Item) int64 { return i.ID },
		SetID: func(i *models.Item, id int64) { i.ID = id },
		Fields: designationFields(
			func(i models.Item) string { return i.DesignationAr },
			func(i models.Item) string { return i.DesignationEn },
			func(i models.Item) string { return i.DesignationFr },
		),
		Search: designationSearch,
	}
	s.Fields["rubricId"] = func(i models.Item) any { return i.RubricID }
	return s
}()

var PlannedItemSchema = query.Schema[models.PlannedItem]{
	ID:    func(p models.PlannedItem) int64 { return p.ID },
	SetID: func(p *models.PlannedItem, id int64) { p.ID = id },
	Fields: map[string]func(models.PlannedItem) any{
		"itemId":               func(p models.PlannedItem) any { return p.ItemID },
		"financialOperationId": func(p models.PlannedItem) any { return p.FinancialOperationID },
		"plannedQuantity":      func(p models.PlannedItem) any { return p.PlannedQuantity },
	},
}

var DistributionSchema = query.Schema[models.ItemDistribution]{
	ID:    func(d models.ItemDistribution) int64 { return d.ID },
	SetID: func(d *models.ItemDistribution, id int64) { d.ID = id },
	Fields: map[string]func(models.ItemDistribution) any{
		"plannedItemId": func(d models.ItemDistribution) any { return d.PlannedItemID },
		"structureId":   func(d models.ItemDistribution) any { return d.StructureID },
		"quantity":      func(d models.ItemDistribution) any { return d.Quantity },
	},
}

var (
	DomainConstraints = []validation.Constraint{
		{Name: "uk_domains_designation_fr", Fields: []string{"designationFr"}},
	}
	RubricConstraints = []validation.Constraint{
		{Name: "uk_rubrics_designation_fr", Fields: []string{"designationFr"}},
	}
	PlannedItemConstraints = []validation.Constraint{
		{Name: "uk_planned_items_item_financial_operation", Fields: []string{"itemId", "financialOperationId"}},
	}
)

func NewDomainMemory() *memstore.Table[models.Domain] {
	return memstore.New(DomainSchema)
}

func NewRubricMemory() *memstore.Table[models.Rubric] {
	return memstore.New(RubricSchema)
}

func NewItemMemory() *memstore.Table[models.Item] {
	return memstore.New(ItemSchema)
}

func NewPlannedItemMemory() *memstore.Table[models.PlannedItem] {
	return memstore.New(PlannedItemSchema)
}

type distributionMemory struct {
	*memstore.Table[models.ItemDistribution]
}

func NewDistributionMemory() DistributionRepository {
	return distributionMemory{memstore.New(DistributionSchema)}
}

func (m distributionMemory) SumQuantity(ctx context.Context, plannedItemID int64) (decimal.Decimal, error) {
	rows, err := m.All(ctx, query.Eq("plannedItemId", plannedItemID))
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.Quantity)
	}
	return sum, nil
}

func designationColumns() []postgres.Column {
	return []postgres.Column{
		{Field: "designationAr", Name: "F_01", Search: true},
		{Field: "designationEn", Name: "F_02", Search: true},
		{Field: "designationFr", Name: "F_03", Search: true},
	}
}

func NewDomainPostgres(db *sql.DB) *postgres.Repo[models.Domain] {
	return postgres.NewRepo(db, postgres.Table{Name: "domains", Columns: designationColumns()}, postgres.Mapping[models.Domain]{
		ID:    DomainSchema.ID,
		SetID: DomainSchema.SetID,
		Values: func(d models.Domain) []any {
			return []any{d.DesignationAr, d.DesignationEn, d.DesignationFr}
		},
		Scan: func(s postgres.Scanner) (models.Domain, error) {
			var d models.Domain
			err := s.Scan(&d.ID, &d.DesignationAr, &d.DesignationEn, &d.DesignationFr)
			return d, err
		},
	})
}

func NewRubricPostgres(db *sql.DB) *postgres.Repo[models.Rubric] {
	table := postgres.Table{Name: "rubrics", Columns: append(designationColumns(), postgres.Column{Field: "domainId", Name: "F_04"})}
	return postgres.NewRepo(db, table, postgres.Mapping[models.Rubric]{
		ID:    RubricSchema.ID,
		SetID: RubricSchema.SetID,
		Values: func(r models.Rubric) []any {
			return []any{r.DesignationAr, r.DesignationEn, r.DesignationFr, r.DomainID}
		},
		Scan: func(s postgres.Scanner) (models.Rubric, error) {
			var r models.Rubric
			err := s.Scan(&r.ID, &r.DesignationAr, &r.DesignationEn, &r.DesignationFr, &r.DomainID)
			return r, err
		},
	})
}

func NewItemPostgres(db *sql.DB) *postgres.Repo[models.Item] {
	table := postgres.Table{Name: "items", Columns: append(designationColumns(), postgres.Column{Field: "rubricId", Name: "F_04"})}
	return postgres.NewRepo(db, table, postgres.Mapping[models.Item]{
		ID:    ItemSchema.ID,
		SetID: ItemSchema.SetID,
		Values: func(i models.Item) []any {
			return []any{i.DesignationAr, i.DesignationEn, i.DesignationFr, i.RubricID}
		},
		Scan: func(s postgres.Scanner) (models.Item, error) {
			var i models.Item
			err := s.Scan(&i.ID, &i.DesignationAr, &i.DesignationEn, &i.DesignationFr, &i.RubricID)
			return i, err
		},
	})
}

func NewPlannedItemPostgres(db *sql.DB) *postgres.Repo[models.PlannedItem] {
	table := postgres.Table{Name: "planned_items", Columns: []postgres.Column{
		{Field: "itemId", Name: "F_01"},
		{Field: "financialOperationId", Name: "F_02"},
		{Field: "plannedQuantity", Name: "F_03"},
	}}
	return postgres.NewRepo(db, table, postgres.Mapping[models.PlannedItem]{
		ID:    PlannedItemSchema.ID,
		SetID: PlannedItemSchema.SetID,
		Values: func(p models.PlannedItem) []any {
			return []any{p.ItemID, p.FinancialOperationID, p.PlannedQuantity}
		},
		Scan: func(s postgres.Scanner) (models.PlannedItem, error) {
			var p models.PlannedItem
			err := s.Scan(&p.ID, &p.ItemID, &p.FinancialOperationID, &p.PlannedQuantity)
			return p, err
		},
	})
}

type distributionPostgres struct {
	*postgres.Repo[models.ItemDistribution]
}

func NewDistributionPostgres(db *sql.DB) DistributionRepository {
	table := postgres.Table{Name: "item_distributions", Columns: []postgres.Column{
		{Field: "plannedItemId", Name: "F_01"},
		{Field: "structureId", Name: "F_02"},
		{Field: "quantity", Name: "F_03"},
	}}
	return distributionPostgres{postgres.NewRepo(db, table, postgres.Mapping[models.ItemDistribution]{
		ID:    DistributionSchema.ID,
		SetID: DistributionSchema.SetID,
		Values: func(d models.ItemDistribution) []any {
			return []any{d.PlannedItemID, d.StructureID, d.Quantity}
		},
		Scan: func(s postgres.Scanner) (models.ItemDistribution, error) {
			var d models.ItemDistribution
			err := s.Scan(&d.ID, &d.PlannedItemID, &d.StructureID, &d.Quantity)
			return d, err
		},
	})}
}

func (p distributionPostgres) SumQuantity(ctx context.Context, plannedItemID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := p.DB(ctx).QueryRowContext(ctx,
		"SELECT COALESCE(SUM(F_03), 0) FROM item_distributions WHERE F_01 = $1", plannedItemID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum item_distributions: %w", postgres.MapError(err))
	}
	return sum, nil
}
