package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"backoffice/internal/query"
	txcontext "backoffice/pkg/platform/tx"
)

// IDColumn is the surrogate key column of every table.
const IDColumn = "F_00"

// Column binds an API field to its numbered column.
type Column struct {
	Field  string
	Name   string
	Search bool
}

// Table describes a kind's table. Columns are listed in F_01..F_0n order and
// exclude the id column.
type Table struct {
	Name    string
	Columns []Column
}

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Mapping converts between a kind and its row. Scan reads F_00 followed by the
// table columns; Values returns the table columns in order.
type Mapping[T any] struct {
	ID     func(T) int64
	SetID  func(*T, int64)
	Values func(T) []any
	Scan   func(Scanner) (T, error)
}

// Repo implements query.Repository over one table. Statements run on the
// transaction carried by ctx when there is one.
type Repo[T any] struct {
	db      *sql.DB
	table   Table
	mapping Mapping[T]
	columns map[string]string
	search  []string
	selects string
}

func NewRepo[T any](db *sql.DB, table Table, mapping Mapping[T]) *Repo[T] {
	r := &Repo[T]{
		db:      db,
		table:   table,
		mapping: mapping,
		columns: map[string]string{"id": IDColumn},
	}
	names := []string{IDColumn}
	for _, c := range table.Columns {
		r.columns[c.Field] = c.Name
		names = append(names, c.Name)
		if c.Search {
			r.search = append(r.search, c.Name)
		}
	}
	r.selects = "SELECT " + strings.Join(names, ", ") + " FROM " + table.Name
	return r
}

// DB exposes the executor for module specific statements.
func (r *Repo[T]) DB(ctx context.Context) txcontext.DBTX {
	return txcontext.Executor(ctx, r.db)
}

// Column returns the column name for an API field.
func (r *Repo[T]) Column(field string) (string, bool) {
	c, ok := r.columns[field]
	return c, ok
}

func (r *Repo[T]) Create(ctx context.Context, entity T) (T, error) {
	names := make([]string, len(r.table.Columns))
	marks := make([]string, len(r.table.Columns))
	for i, c := range r.table.Columns {
		names[i] = c.Name
		marks[i] = "$" + strconv.Itoa(i+1)
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		r.table.Name, strings.Join(names, ", "), strings.Join(marks, ", "), IDColumn)

	var id int64
	if err := r.DB(ctx).QueryRowContext(ctx, stmt, r.mapping.Values(entity)...).Scan(&id); err != nil {
		return entity, fmt.Errorf("insert into %s: %w", r.table.Name, MapError(err))
	}
	r.mapping.SetID(&entity, id)
	return entity, nil
}

func (r *Repo[T]) Update(ctx context.Context, entity T) error {
	sets := make([]string, len(r.table.Columns))
	for i, c := range r.table.Columns {
		sets[i] = c.Name + " = $" + strconv.Itoa(i+1)
	}
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		r.table.Name, strings.Join(sets, ", "), IDColumn, len(sets)+1)

	args := append(r.mapping.Values(entity), r.mapping.ID(entity))
	res, err := r.DB(ctx).ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.table.Name, MapError(err))
	}
	return requireAffected(res, r.table.Name)
}

func (r *Repo[T]) Delete(ctx context.Context, id int64) error {
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", r.table.Name, IDColumn)
	res, err := r.DB(ctx).ExecContext(ctx, stmt, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", r.table.Name, MapError(err))
	}
	return requireAffected(res, r.table.Name)
}

func (r *Repo[T]) FindByID(ctx context.Context, id int64) (T, error) {
	return r.one(ctx, r.selects+" WHERE "+IDColumn+" = $1", id)
}

// Lock selects the row FOR UPDATE. Outside a transaction the lock is released
// as soon as the statement completes.
func (r *Repo[T]) Lock(ctx context.Context, id int64) (T, error) {
	return r.one(ctx, r.selects+" WHERE "+IDColumn+" = $1 FOR UPDATE", id)
}

func (r *Repo[T]) one(ctx context.Context, stmt string, args ...any) (T, error) {
	entity, err := r.mapping.Scan(r.DB(ctx).QueryRowContext(ctx, stmt, args...))
	if err != nil {
		return entity, fmt.Errorf("select from %s: %w", r.table.Name, MapError(err))
	}
	return entity, nil
}

func (r *Repo[T]) Find(ctx context.Context, req query.PageRequest, where ...query.Criterion) ([]T, int64, error) {
	clause, args, err := r.Where(where)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.count(ctx, clause, args)
	if err != nil {
		return nil, 0, err
	}
	order, err := r.orderBy(req)
	if err != nil {
		return nil, 0, err
	}
	stmt := fmt.Sprintf("%s%s%s LIMIT $%d OFFSET $%d", r.selects, clause, order, len(args)+1, len(args)+2)
	rows, err := r.Query(ctx, stmt, append(args, req.Size, req.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *Repo[T]) All(ctx context.Context, where ...query.Criterion) ([]T, error) {
	clause, args, err := r.Where(where)
	if err != nil {
		return nil, err
	}
	return r.Query(ctx, r.selects+clause+" ORDER BY "+IDColumn, args...)
}

func (r *Repo[T]) Count(ctx context.Context, where ...query.Criterion) (int64, error) {
	clause, args, err := r.Where(where)
	if err != nil {
		return 0, err
	}
	return r.count(ctx, clause, args)
}

func (r *Repo[T]) Exists(ctx context.Context, excludeID int64, where ...query.Criterion) (bool, error) {
	clause, args, err := r.Where(where)
	if err != nil {
		return false, err
	}
	if excludeID != 0 {
		args = append(args, excludeID)
		if clause == "" {
			clause = " WHERE "
		} else {
			clause += " AND "
		}
		clause += fmt.Sprintf("%s <> $%d", IDColumn, len(args))
	}
	stmt := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s%s)", r.table.Name, clause)
	var found bool
	if err := r.DB(ctx).QueryRowContext(ctx, stmt, args...).Scan(&found); err != nil {
		return false, fmt.Errorf("exists in %s: %w", r.table.Name, MapError(err))
	}
	return found, nil
}

// Query runs a select built from the repo's column list and scans every row.
func (r *Repo[T]) Query(ctx context.Context, stmt string, args ...any) ([]T, error) {
	rows, err := r.DB(ctx).QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.table.Name, MapError(err))
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		entity, err := r.mapping.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.table.Name, err)
		}
		out = append(out, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", r.table.Name, err)
	}
	return out, nil
}

// Selects returns "SELECT <all columns> FROM <table>".
func (r *Repo[T]) Selects() string {
	return r.selects
}

func (r *Repo[T]) count(ctx context.Context, clause string, args []any) (int64, error) {
	var n int64
	stmt := "SELECT COUNT(*) FROM " + r.table.Name + clause
	if err := r.DB(ctx).QueryRowContext(ctx, stmt, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.table.Name, MapError(err))
	}
	return n, nil
}

func (r *Repo[T]) orderBy(req query.PageRequest) (string, error) {
	by := req.SortBy
	if by == "" {
		by = "id"
	}
	col, ok := r.columns[by]
	if !ok {
		return "", fmt.Errorf("%s: unknown sort field %q", r.table.Name, by)
	}
	dir := "ASC"
	if req.Descending() {
		dir = "DESC"
	}
	if col == IDColumn {
		return " ORDER BY " + IDColumn + " " + dir, nil
	}
	return fmt.Sprintf(" ORDER BY %s %s, %s ASC", col, dir, IDColumn), nil
}

// Where renders criteria as a WHERE clause with positional arguments.
func (r *Repo[T]) Where(where []query.Criterion) (string, []any, error) {
	if len(where) == 0 {
		return "", nil, nil
	}
	var (
		parts []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	for _, c := range where {
		if c.Op == query.OpSearch {
			term, _ := c.Value.(string)
			if strings.TrimSpace(term) == "" || len(r.search) == 0 {
				continue
			}
			mark := next(query.ContainsPattern(strings.TrimSpace(term)))
			ors := make([]string, len(r.search))
			for i, col := range r.search {
				ors[i] = col + " ILIKE " + mark
			}
			parts = append(parts, "("+strings.Join(ors, " OR ")+")")
			continue
		}
		col, ok := r.columns[c.Field]
		if !ok {
			return "", nil, fmt.Errorf("%s: unknown filter field %q", r.table.Name, c.Field)
		}
		switch c.Op {
		case query.OpEq:
			parts = append(parts, col+" = "+next(c.Value))
		case query.OpGte:
			parts = append(parts, col+" >= "+next(c.Value))
		case query.OpLte:
			parts = append(parts, col+" <= "+next(c.Value))
		case query.OpIn:
			ids, _ := c.Value.([]int64)
			parts = append(parts, col+" = ANY("+next(pq.Array(ids))+")")
		case query.OpPrefix:
			p, _ := c.Value.(string)
			parts = append(parts, col+" ILIKE "+next(query.PrefixPattern(p)))
		case query.OpContainsAny:
			terms, _ := c.Value.([]string)
			patterns := make([]string, len(terms))
			for i, t := range terms {
				patterns[i] = query.ContainsPattern(t)
			}
			parts = append(parts, col+" ILIKE ANY("+next(pq.Array(patterns))+")")
		default:
			return "", nil, fmt.Errorf("%s: unsupported operator %d", r.table.Name, c.Op)
		}
	}
	if len(parts) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

func requireAffected(res sql.Result, table string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected on %s: %w", table, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", table, MapError(sql.ErrNoRows))
	}
	return nil
}
