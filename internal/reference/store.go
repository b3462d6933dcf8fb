package reference

import (
	"database/sql"

	"backoffice/internal/platform/memstore"
	"backoffice/internal/platform/postgres"
	"backoffice/internal/query"
	"backoffice/internal/validation"
)

var structureSchema = query.Schema[Structure]{
	ID:    func(s Structure) int64 { return s.ID },
	SetID: func(s *Structure, id int64) { s.ID = id },
	Fields: map[string]func(Structure) any{
		"code":          func(s Structure) any { return s.Code },
		"designationFr": func(s Structure) any { return s.DesignationFr },
	},
	Search: []string{"code", "designationFr"},
}

var documentSchema = query.Schema[Document]{
	ID:    func(d Document) int64 { return d.ID },
	SetID: func(d *Document, id int64) { d.ID = id },
	Fields: map[string]func(Document) any{
		"reference": func(d Document) any { return d.Reference },
		"title":     func(d Document) any { return d.Title },
	},
	Search: []string{"reference", "title"},
}

var (
	structureConstraints = []validation.Constraint{{Name: "uk_structures_code", Fields: []string{"code"}}}
	documentConstraints  = []validation.Constraint{{Name: "uk_documents_reference", Fields: []string{"reference"}}}
)

func NewStructureMemory() *memstore.Table[Structure] {
	return memstore.New(structureSchema)
}

func NewDocumentMemory() *memstore.Table[Document] {
	return memstore.New(documentSchema)
}

func NewStructurePostgres(db *sql.DB) *postgres.Repo[Structure] {
	table := postgres.Table{Name: "structures", Columns: []postgres.Column{
		{Field: "code", Name: "F_01", Search: true},
		{Field: "designationFr", Name: "F_02", Search: true},
	}}
	return postgres.NewRepo(db, table, postgres.Mapping[Structure]{
		ID:     structureSchema.ID,
		SetID:  structureSchema.SetID,
		Values: func(s Structure) []any { return []any{s.Code, s.DesignationFr} },
		Scan: func(sc postgres.Scanner) (Structure, error) {
			var s Structure
			err := sc.Scan(&s.ID, &s.Code, &s.DesignationFr)
			return s, err
		},
	})
}

func NewDocumentPostgres(db *sql.DB) *postgres.Repo[Document] {
	table := postgres.Table{Name: "documents", Columns: []postgres.Column{
		{Field: "reference", Name: "F_01", Search: true},
		{Field: "title", Name: "F_02", Search: true},
	}}
	return postgres.NewRepo(db, table, postgres.Mapping[Document]{
		ID:     documentSchema.ID,
		SetID:  documentSchema.SetID,
		Values: func(d Document) []any { return []any{d.Reference, d.Title} },
		Scan: func(sc postgres.Scanner) (Document, error) {
			var d Document
			err := sc.Scan(&d.ID, &d.Reference, &d.Title)
			return d, err
		},
	})
}
