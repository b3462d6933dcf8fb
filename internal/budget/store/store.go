// Package store maps the budget kinds onto budget_types,
// financial_operations and budget_modifications.
package store

import (
	"database/sql"

	"backoffice/internal/budget/models"
	"backoffice/internal/platform/memstore"
	"backoffice/internal/platform/postgres"
	"backoffice/internal/query"
	"backoffice/internal/validation"
)

var BudgetTypeSchema = query.Schema[models.BudgetType]{
	ID:    func(b models.BudgetType) int64 { return b.ID },
	SetID: func(b *models.BudgetType, id int64) { b.ID = id },
	Fields: map[string]func(models.BudgetType) any{
		"designationAr": func(b models.BudgetType) any { return b.DesignationAr },
		"designationEn": func(b models.BudgetType) any { return b.DesignationEn },
		"designationFr": func(b models.BudgetType) any { return b.DesignationFr },
		"acronymAr":     func(b models.BudgetType) any { return b.AcronymAr },
		"acronymEn":     func(b models.BudgetType) any { return b.AcronymEn },
		"acronymFr":     func(b models.BudgetType) any { return b.AcronymFr },
	},
	Search: []string{"designationAr", "designationEn", "designationFr", "acronymAr", "acronymEn", "acronymFr"},
}

var BudgetTypeConstraints = []validation.Constraint{
	{Name: "uk_budget_types_designation_fr", Fields: []string{"designationFr"}},
	{Name: "uk_budget_types_acronym_fr", Fields: []string{"acronymFr"}},
}

var FinancialOperationSchema = query.Schema[models.FinancialOperation]{
	ID:    func(f models.FinancialOperation) int64 { return f.ID },
	SetID: func(f *models.FinancialOperation, id int64) { f.ID = id },
	Fields: map[string]func(models.FinancialOperation) any{
		"operation":    func(f models.FinancialOperation) any { return f.Operation },
		"budgetYear":   func(f models.FinancialOperation) any { return f.BudgetYear },
		"budgetTypeId": func(f models.FinancialOperation) any { return f.BudgetTypeID },
	},
	Search: []string{"operation", "budgetYear"},
}

var FinancialOperationConstraints = []validation.Constraint{
	{Name: "uk_financial_operations_operation", Fields: []string{"operation"}},
}

var ModificationSchema = query.Schema[models.BudgetModification]{
	ID:    func(m models.BudgetModification) int64 { return m.ID },
	SetID: func(m *models.BudgetModification, id int64) { m.ID = id },
	Fields: map[string]func(models.BudgetModification) any{
		"demandeId":    func(m models.BudgetModification) any { return m.DemandeID },
		"responseId":   func(m models.BudgetModification) any { return m.ResponseID },
		"approvalDate": func(m models.BudgetModification) any { return m.ApprovalDate },
		"description":  func(m models.BudgetModification) any { return m.Description },
	},
	Search: []string{"description"},
}

var ModificationConstraints = []validation.Constraint{
	{Name: "uk_budget_modifications_approval_date_demande", Fields: []string{"approvalDate", "demandeId"}},
}

func NewBudgetTypeMemory() *memstore.Table[models.BudgetType] {
	return memstore.New(BudgetTypeSchema)
}

func NewFinancialOperationMemory() *memstore.Table[models.FinancialOperation] {
	return memstore.New(FinancialOperationSchema)
}

func NewModificationMemory() *memstore.Table[models.BudgetModification] {
	return memstore.New(ModificationSchema)
}

func NewBudgetTypePostgres(db *sql.DB) *postgres.Repo[models.BudgetType] {
	table := postgres.Table{Name: "budget_types", Columns: []postgres.Column{
		{Field: "designationAr", Name: "F_01", Search: true},
		{Field: "designationEn", Name: "F_02", Search: true},
		{Field: "designationFr", Name: "F_03", Search: true},
		{Field: "acronymAr", Name: "F_04", Search: true},
		{Field: "acronymEn", Name: "F_05", Search: true},
		{Field: "acronymFr", Name: "F_06", Search: true},
	}}
	return postgres.NewRepo(db, table, postgres.Mapping[models.BudgetType]{
		ID:    BudgetTypeSchema.ID,
		SetID: BudgetTypeSchema.SetID,
		Values: func(b models.BudgetType) []any {
			return []any{b.DesignationAr, b.DesignationEn, b.DesignationFr, b.AcronymAr, b.AcronymEn, b.AcronymFr}
		},
		Scan: func(s postgres.Scanner) (models.BudgetType, error) {
			var b models.BudgetType
			err := s.Scan(&b.ID, &b.DesignationAr, &b.DesignationEn, &b.DesignationFr, &b.AcronymAr, &b.AcronymEn, &b.AcronymFr)
			return b, err
		},
	})
}

func NewFinancialOperationPostgres(db *sql.DB) *postgres.Repo[models.FinancialOperation] {
	table := postgres.Table{Name: "financial_operations", Columns: []postgres.Column{
		{Field: "operation", Name: "F_01", Search: true},
		{Field: "budgetYear", Name: "F_02", Search: true},
		{Field: "budgetTypeId", Name: "F_03"},
	}}
	return postgres.NewRepo(db, table, postgres.Mapping[models.FinancialOperation]{
		ID:    FinancialOperationSchema.ID,
		SetID: FinancialOperationSchema.SetID,
		Values: func(f models.FinancialOperation) []any {
			return []any{f.Operation, f.BudgetYear, f.BudgetTypeID}
		},
		Scan: func(s postgres.Scanner) (models.FinancialOperation, error) {
			var f models.FinancialOperation
			err := s.Scan(&f.ID, &f.Operation, &f.BudgetYear, &f.BudgetTypeID)
			return f, err
		},
	})
}

func NewModificationPostgres(db *sql.DB) *postgres.Repo[models.BudgetModification] {
	table := postgres.Table{Name: "budget_modifications", Columns: []postgres.Column{
		{Field: "demandeId", Name: "F_01"},
		{Field: "responseId", Name: "F_02"},
		{Field: "approvalDate", Name: "F_03"},
		{Field: "description", Name: "F_04", Search: true},
	}}
	return postgres.NewRepo(db, table, postgres.Mapping[models.BudgetModification]{
		ID:    ModificationSchema.ID,
		SetID: ModificationSchema.SetID,
		Values: func(m models.BudgetModification) []any {
			return []any{m.DemandeID, m.ResponseID, m.ApprovalDate, m.Description}
		},
		Scan: func(s postgres.Scanner) (models.BudgetModification, error) {
			var m models.BudgetModification
			err := s.Scan(&m.ID, &m.DemandeID, &m.ResponseID, &m.ApprovalDate, &m.Description)
			return m, err
		},
	})
}
