package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sync"

	"github.com/lib/pq"

	"backoffice/internal/platform/postgres"
	txcontext "backoffice/pkg/platform/tx"
)

// Links is a many-to-many association from owners (roles, groups, users) to
// targets (permissions, roles).
type Links interface {
	// Replace sets the targets of owner to exactly ids.
	Replace(ctx context.Context, owner int64, ids []int64) error
	// Load returns the targets of every owner, sorted.
	Load(ctx context.Context, owners []int64) (map[int64][]int64, error)
	// Referenced reports whether any owner links to target.
	Referenced(ctx context.Context, target int64) (bool, error)
}

type memoryLinks struct {
	mu    sync.RWMutex
	links map[int64][]int64
}

func NewMemoryLinks() Links {
	return &memoryLinks{links: make(map[int64][]int64)}
}

func (m *memoryLinks) Replace(_ context.Context, owner int64, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(ids) == 0 {
		delete(m.links, owner)
		return nil
	}
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	m.links[owner] = sorted
	return nil
}

func (m *memoryLinks) Load(_ context.Context, owners []int64) (map[int64][]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[int64][]int64, len(owners))
	for _, o := range owners {
		if ids, ok := m.links[o]; ok {
			out[o] = slices.Clone(ids)
		}
	}
	return out, nil
}

func (m *memoryLinks) Referenced(_ context.Context, target int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, ids := range m.links {
		if slices.Contains(ids, target) {
			return true, nil
		}
	}
	return false, nil
}

// postgresLinks stores owner ids in F_01 and target ids in F_02.
type postgresLinks struct {
	db    *sql.DB
	table string
}

func NewPostgresLinks(db *sql.DB, table string) Links {
	return &postgresLinks{db: db, table: table}
}

func NewRolePermissionLinks(db *sql.DB) Links { return NewPostgresLinks(db, "role_permissions") }

func NewGroupRoleLinks(db *sql.DB) Links { return NewPostgresLinks(db, "group_roles") }

func NewUserRoleLinks(db *sql.DB) Links { return NewPostgresLinks(db, "user_roles") }

func (p *postgresLinks) Replace(ctx context.Context, owner int64, ids []int64) error {
	exec := txcontext.Executor(ctx, p.db)
	if _, err := exec.ExecContext(ctx, "DELETE FROM "+p.table+" WHERE F_01 = $1", owner); err != nil {
		return fmt.Errorf("clear %s: %w", p.table, postgres.MapError(err))
	}
	if len(ids) == 0 {
		return nil
	}
	stmt := "INSERT INTO " + p.table + " (F_01, F_02) SELECT $1, UNNEST($2::BIGINT[])"
	if _, err := exec.ExecContext(ctx, stmt, owner, pq.Array(ids)); err != nil {
		return fmt.Errorf("insert %s: %w", p.table, postgres.MapError(err))
	}
	return nil
}

func (p *postgresLinks) Load(ctx context.Context, owners []int64) (map[int64][]int64, error) {
	stmt := "SELECT F_01, F_02 FROM " + p.table + " WHERE F_01 = ANY($1) ORDER BY F_01, F_02"
	rows, err := txcontext.Executor(ctx, p.db).QueryContext(ctx, stmt, pq.Array(owners))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", p.table, postgres.MapError(err))
	}
	defer rows.Close()

	out := make(map[int64][]int64, len(owners))
	for rows.Next() {
		var owner, target int64
		if err := rows.Scan(&owner, &target); err != nil {
			return nil, fmt.Errorf("scan %s: %w", p.table, err)
		}
		out[owner] = append(out[owner], target)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", p.table, err)
	}
	return out, nil
}

func (p *postgresLinks) Referenced(ctx context.Context, target int64) (bool, error) {
	var found bool
	stmt := "SELECT EXISTS (SELECT 1 FROM " + p.table + " WHERE F_02 = $1)"
	if err := txcontext.Executor(ctx, p.db).QueryRowContext(ctx, stmt, target).Scan(&found); err != nil {
		return false, fmt.Errorf("exists in %s: %w", p.table, postgres.MapError(err))
	}
	return found, nil
}
