// Package store persists designations. All four kinds share the column
// layout F_01 designationAr, F_02 designationEn, F_03 designationFr.
package store

import (
	"database/sql"

	"backoffice/internal/designation/models"
	"backoffice/internal/platform/memstore"
	"backoffice/internal/platform/postgres"
	"backoffice/internal/query"
	"backoffice/internal/validation"
)

var Schema = query.Schema[models.Designation]{
	ID:    func(d models.Designation) int64 { return d.ID },
	SetID: func(d *models.Designation, id int64) { d.ID = id },
	Fields: map[string]func(models.Designation) any{
		"designationAr": func(d models.Designation) any { return d.DesignationAr },
		"designationEn": func(d models.Designation) any { return d.DesignationEn },
		"designationFr": func(d models.Designation) any { return d.DesignationFr },
	},
	Search: []string{"designationAr", "designationEn", "designationFr"},
}

func Table(kind models.Kind) postgres.Table {
	return postgres.Table{
		Name: kind.Table,
		Columns: []postgres.Column{
			{Field: "designationAr", Name: "F_01", Search: true},
			{Field: "designationEn", Name: "F_02", Search: true},
			{Field: "designationFr", Name: "F_03", Search: true},
		},
	}
}

func Constraints(kind models.Kind) []validation.Constraint {
	return []validation.Constraint{
		{Name: "uk_" + kind.Table + "_designation_fr", Fields: []string{"designationFr"}},
	}
}

func NewMemory() *memstore.Table[models.Designation] {
	return memstore.New(Schema)
}

func NewPostgres(db *sql.DB, kind models.Kind) *postgres.Repo[models.Designation] {
	return postgres.NewRepo(db, Table(kind), postgres.Mapping[models.Designation]{
		ID:    Schema.ID,
		SetID: Schema.SetID,
		Values: func(d models.Designation) []any {
			return []any{d.DesignationAr, d.DesignationEn, d.DesignationFr}
		},
		Scan: func(s postgres.Scanner) (models.Designation, error) {
			var d models.Designation
			err := s.Scan(&d.ID, &d.DesignationAr, &d.DesignationEn, &d.DesignationFr)
			return d, err
		},
	})
}
