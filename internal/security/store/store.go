// Package store maps the security kinds onto their tables and keeps the
// role, group and user associations in join tables.
package store

import (
	"database/sql"

	"backoffice/internal/platform/memstore"
	"backoffice/internal/platform/postgres"
	"backoffice/internal/query"
	"backoffice/internal/security/models"
	"backoffice/internal/validation"
)

var AuthoritySchema = query.Schema[models.Authority]{
	ID:     func(a models.Authority) int64 { return a.ID },
	SetID:  func(a *models.Authority, id int64) { a.ID = id },
	Fields: map[string]func(models.Authority) any{"name": func(a models.Authority) any { return a.Name }},
	Search: []string{"name"},
}

var PermissionSchema = query.Schema[models.Permission]{
	ID:    func(p models.Permission) int64 { return p.ID },
	SetID: func(p *models.Permission, id int64) { p.ID = id },
	Fields: map[string]func(models.Permission) any{
		"name":        func(p models.Permission) any { return p.Name },
		"description": func(p models.Permission) any { return p.Description },
	},
	Search: []string{"name", "description"},
}

var RoleSchema = query.Schema[models.Role]{
	ID:    func(r models.Role) int64 { return r.ID },
	SetID: func(r *models.Role, id int64) { r.ID = id },
	Fields: map[string]func(models.Role) any{
		"name":        func(r models.Role) any { return r.Name },
		"description": func(r models.Role) any { return r.Description },
	},
	Search: []string{"name", "description"},
}

var GroupSchema = query.Schema[models.Group]{
	ID:     func(g models.Group) int64 { return g.ID },
	SetID:  func(g *models.Group, id int64) { g.ID = id },
	Fields: map[string]func(models.Group) any{"name": func(g models.Group) any { return g.Name }},
	Search: []string{"name"},
}

var UserSchema = query.Schema[models.User]{
	ID:    func(u models.User) int64 { return u.ID },
	SetID: func(u *models.User, id int64) { u.ID = id },
	Fields: map[string]func(models.User) any{
		"username": func(u models.User) any { return u.Username },
		"email":    func(u models.User) any { return u.Email },
		"enabled":  func(u models.User) any { return u.Enabled },
	},
	Search: []string{"username", "email"},
}

var (
	AuthorityConstraints  = []validation.Constraint{{Name: "uk_authorities_name", Fields: []string{"name"}}}
	PermissionConstraints = []validation.Constraint{{Name: "uk_permissions_name", Fields: []string{"name"}}}
	RoleConstraints       = []validation.Constraint{{Name: "uk_roles_name", Fields: []string{"name"}}}
	GroupConstraints      = []validation.Constraint{{Name: "uk_user_groups_name", Fields: []string{"name"}}}
	UserConstraints       = []validation.Constraint{
		{Name: "uk_users_username", Fields: []string{"username"}},
		{Name: "uk_users_email", Fields: []string{"email"}},
	}
)

func NewAuthorityMemory() *memstore.Table[models.Authority] { return memstore.New(AuthoritySchema) }

func NewPermissionMemory() *memstore.Table[models.Permission] { return memstore.New(PermissionSchema) }

func NewRoleMemory() *memstore.Table[models.Role] { return memstore.New(RoleSchema) }

func NewGroupMemory() *memstore.Table[models.Group] { return memstore.New(GroupSchema) }

func NewUserMemory() *memstore.Table[models.User] { return memstore.New(UserSchema) }

func NewAuthorityPostgres(db *sql.DB) *postgres.Repo[models.Authority] {
	table := postgres.Table{Name: "authorities", Columns: []postgres.Column{{Field: "name", Name: "F_01", Search: true}}}
	return postgres.NewRepo(db, table, postgres.Mapping[models.Authority]{
		ID:     AuthoritySchema.ID,
		SetID:  AuthoritySchema.SetID,
		Values: func(a models.Authority) []any { return []any{a.Name} },
		Scan: func(s postgres.Scanner) (models.Authority, error) {
			var a models.Authority
			err := s.Scan(&a.ID, &a.Name)
			return a, err
		},
	})
}

func NewPermissionPostgres(db *sql.DB) *postgres.Repo[models.Permission] {
	table := postgres.Table{Name: "permissions", Columns: []postgres.Column{
		{Field: "name", Name: "F_01", Search: true},
		{Field: "description", Name: "F_02", Search: true},
	}}
	return postgres.NewRepo(db, table, postgres.Mapping[models.Permission]{
		ID:     PermissionSchema.ID,
		SetID:  PermissionSchema.SetID,
		Values: func(p models.Permission) []any { return []any{p.Name, p.Description} },
		Scan: func(s postgres.Scanner) (models.Permission, error) {
			var p models.Permission
			err := s.Scan(&p.ID, &p.Name, &p.Description)
			return p, err
		},
	})
}

func NewRolePostgres(db *sql.DB) *postgres.Repo[models.Role] {
	table := postgres.Table{Name: "roles", Columns: []postgres.Column{
		{Field: "name", Name: "F_01", Search: true},
		{Field: "description", Name: "F_02", Search: true},
	}}
	return postgres.NewRepo(db, table, postgres.Mapping[models.Role]{
		ID:     RoleSchema.ID,
		SetID:  RoleSchema.SetID,
		Values: func(r models.Role) []any { return []any{r.Name, r.Description} },
		Scan: func(s postgres.Scanner) (models.Role, error) {
			var r models.Role
			err := s.Scan(&r.ID, &r.Name, &r.Description)
			return r, err
		},
	})
}

func NewGroupPostgres(db *sql.DB) *postgres.Repo[models.Group] {
	table := postgres.Table{Name: "user_groups", Columns: []postgres.Column{{Field: "name", Name: "F_01", Search: true}}}
	return postgres.NewRepo(db, table, postgres.Mapping[models.Group]{
		ID:     GroupSchema.ID,
		SetID:  GroupSchema.SetID,
		Values: func(g models.Group) []any { return []any{g.Name} },
		Scan: func(s postgres.Scanner) (models.Group, error) {
			var g models.Group
			err := s.Scan(&g.ID, &g.Name)
			return g, err
		},
	})
}

func NewUserPostgres(db *sql.DB) *postgres.Repo[models.User] {
	table := postgres.Table{Name: "users", Columns: []postgres.Column{
		{Field: "username", Name: "F_01", Search: true},
		{Field: "email", Name: "F_02", Search: true},
		{Field: "passwordHash", Name: "F_03"},
		{Field: "enabled", Name: "F_04"},
	}}
	return postgres.NewRepo(db, table, postgres.Mapping[models.User]{
		ID:    UserSchema.ID,
		SetID: UserSchema.SetID,
		Values: func(u models.User) []any {
			return []any{u.Username, u.Email, u.PasswordHash, u.Enabled}
		},
		Scan: func(s postgres.Scanner) (models.User, error) {
			var u models.User
			err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Enabled)
			return u, err
		},
	})
}
