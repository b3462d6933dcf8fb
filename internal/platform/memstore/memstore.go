// Package memstore is the in-memory backend behind every entity repository.
// It is used in development when no database is configured and in tests.
package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"backoffice/internal/query"
	"backoffice/pkg/platform/sentinel"
)

// Table is a goroutine-safe map of records keyed by surrogate id.
type Table[T any] struct {
	mu     sync.RWMutex
	schema query.Schema[T]
	rows   map[int64]T
	nextID int64
}

func New[T any](schema query.Schema[T]) *Table[T] {
	return &Table[T]{schema: schema, rows: make(map[int64]T)}
}

func (t *Table[T]) Create(_ context.Context, entity T) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	t.schema.SetID(&entity, t.nextID)
	t.rows[t.nextID] = entity
	return entity, nil
}

func (t *Table[T]) Update(_ context.Context, entity T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.schema.ID(entity)
	if _, ok := t.rows[id]; !ok {
		return sentinel.ErrNotFound
	}
	t.rows[id] = entity
	return nil
}

func (t *Table[T]) Delete(_ context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

func (t *Table[T]) FindByID(_ context.Context, id int64) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, sentinel.ErrNotFound
	}
	return row, nil
}

// Lock is FindByID: writers are already serialized by tx.LockRunner.
func (t *Table[T]) Lock(ctx context.Context, id int64) (T, error) {
	return t.FindByID(ctx, id)
}

func (t *Table[T]) Find(_ context.Context, req query.PageRequest, where ...query.Criterion) ([]T, int64, error) {
	rows, err := t.match(where)
	if err != nil {
		return nil, 0, err
	}
	if err := t.sort(rows, req); err != nil {
		return nil, 0, err
	}
	start, end := query.Window(len(rows), req)
	return rows[start:end], int64(len(rows)), nil
}

func (t *Table[T]) All(_ context.Context, where ...query.Criterion) ([]T, error) {
	return t.match(where)
}

func (t *Table[T]) Count(_ context.Context, where ...query.Criterion) (int64, error) {
	rows, err := t.match(where)
	return int64(len(rows)), err
}

func (t *Table[T]) Exists(_ context.Context, excludeID int64, where ...query.Criterion) (bool, error) {
	rows, err := t.match(where)
	if err != nil {
		return false, err
	}
	for _, row := range rows {
		if excludeID == 0 || t.schema.ID(row) != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// match returns the rows satisfying every criterion, ordered by id.
func (t *Table[T]) match(where []query.Criterion) ([]T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		ok, err := t.matches(row, where)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, row)
		}
	}
	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(t.schema.ID(a), t.schema.ID(b)) })
	return out, nil
}

func (t *Table[T]) matches(row T, where []query.Criterion) (bool, error) {
	for _, c := range where {
		if c.Op == query.OpSearch {
			term, _ := c.Value.(string)
			if !t.searchMatches(row, term) {
				return false, nil
			}
			continue
		}
		v, err := t.field(row, c.Field)
		if err != nil {
			return false, err
		}
		ok, err := evaluate(v, c)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (t *Table[T]) searchMatches(row T, term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	for _, f := range t.schema.Search {
		if s, ok := t.schema.Fields[f](row).(string); ok && query.MatchesAny(s, []string{term}) {
			return true
		}
	}
	return false
}

func (t *Table[T]) field(row T, name string) (any, error) {
	if name == "id" {
		return t.schema.ID(row), nil
	}
	get, ok := t.schema.Fields[name]
	if !ok {
		return nil, fmt.Errorf("memstore: unknown field %q", name)
	}
	return get(row), nil
}

func (t *Table[T]) sort(rows []T, req query.PageRequest) error {
	by := req.SortBy
	if by == "" || by == "id" {
		if req.Descending() {
			slices.Reverse(rows)
		}
		return nil
	}
	if _, ok := t.schema.Fields[by]; !ok {
		return fmt.Errorf("memstore: unknown sort field %q", by)
	}
	get := t.schema.Fields[by]
	slices.SortStableFunc(rows, func(a, b T) int {
		c, _ := compare(get(a), get(b))
		if req.Descending() {
			return -c
		}
		return c
	})
	return nil
}

func evaluate(v any, c query.Criterion) (bool, error) {
	switch c.Op {
	case query.OpEq, query.OpGte, query.OpLte:
		n, ok := compare(v, c.Value)
		if !ok {
			return false, fmt.Errorf("memstore: cannot compare %T with %T on %q", v, c.Value, c.Field)
		}
		switch c.Op {
		case query.OpEq:
			return n == 0, nil
		case query.OpGte:
			return n >= 0, nil
		default:
			return n <= 0, nil
		}
	case query.OpIn:
		id, _ := v.(int64)
		ids, _ := c.Value.([]int64)
		return slices.Contains(ids, id), nil
	case query.OpPrefix:
		s, _ := v.(string)
		p, _ := c.Value.(string)
		return strings.HasPrefix(strings.ToLower(s), strings.ToLower(p)), nil
	case query.OpContainsAny:
		s, _ := v.(string)
		terms, _ := c.Value.([]string)
		return query.MatchesAny(s, terms), nil
	default:
		return false, fmt.Errorf("memstore: unsupported operator %d on %q", c.Op, c.Field)
	}
}

// compare orders two field values of the same type. ok is false when the
// types cannot be compared.
func compare(a, b any) (int, bool) {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return cmp.Compare(x, y), true
		}
	case int64:
		switch y := b.(type) {
		case int64:
			return cmp.Compare(x, y), true
		case int:
			return cmp.Compare(x, int64(y)), true
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0, true
			case !x:
				return -1, true
			default:
				return 1, true
			}
		}
	case decimal.Decimal:
		if y, ok := b.(decimal.Decimal); ok {
			return x.Cmp(y), true
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y), true
		}
	}
	return 0, false
}
