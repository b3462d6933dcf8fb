// Package store persists currencies in the currencies table or in memory.
package store

import (
	"database/sql"

	"backoffice/internal/currency/models"
	"backoffice/internal/platform/memstore"
	"backoffice/internal/platform/postgres"
	"backoffice/internal/query"
	"backoffice/internal/validation"
)

var Schema = query.Schema[models.Currency]{
	ID:    func(c models.Currency) int64 { return c.ID },
	SetID: func(c *models.Currency, id int64) { c.ID = id },
	Fields: map[string]func(models.Currency) any{
		"designationAr": func(c models.Currency) any { return c.DesignationAr },
		"designationEn": func(c models.Currency) any { return c.DesignationEn },
		"designationFr": func(c models.Currency) any { return c.DesignationFr },
		"codeAr":        func(c models.Currency) any { return c.CodeAr },
		"codeLt":        func(c models.Currency) any { return c.CodeLt },
	},
	Search: []string{"designationAr", "designationEn", "designationFr", "codeAr", "codeLt"},
}

var Table = postgres.Table{
	Name: "currencies",
	Columns: []postgres.Column{
		{Field: "designationAr", Name: "F_01", Search: true},
		{Field: "designationEn", Name: "F_02", Search: true},
		{Field: "designationFr", Name: "F_03", Search: true},
		{Field: "codeAr", Name: "F_04", Search: true},
		{Field: "codeLt", Name: "F_05", Search: true},
	},
}

// Constraints are the unique constraints declared on the currencies table.
var Constraints = []validation.Constraint{
	{Name: "uk_currencies_designation_ar", Fields: []string{"designationAr"}},
	{Name: "uk_currencies_designation_en", Fields: []string{"designationEn"}},
	{Name: "uk_currencies_designation_fr", Fields: []string{"designationFr"}},
	{Name: "uk_currencies_code_ar", Fields: []string{"codeAr"}},
	{Name: "uk_currencies_code_lt", Fields: []string{"codeLt"}},
}

func NewMemory() *memstore.Table[models.Currency] {
	return memstore.New(Schema)
}

func NewPostgres(db *sql.DB) *postgres.Repo[models.Currency] {
	return postgres.NewRepo(db, Table, postgres.Mapping[models.Currency]{
		ID:    Schema.ID,
		SetID: Schema.SetID,
		Values: func(c models.Currency) []any {
			return []any{c.DesignationAr, c.DesignationEn, c.DesignationFr, c.CodeAr, c.CodeLt}
		},
		Scan: func(s postgres.Scanner) (models.Currency, error) {
			var c models.Currency
			err := s.Scan(&c.ID, &c.DesignationAr, &c.DesignationEn, &c.DesignationFr, &c.CodeAr, &c.CodeLt)
			return c, err
		},
	})
}
