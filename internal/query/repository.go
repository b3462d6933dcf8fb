package query

import (
	"context"
	"slices"
)

// Repository is the persistence contract shared by the memory and Postgres
// backends of every entity kind. Lookups by id return sentinel.ErrNotFound
// when the row is absent.
type Repository[T any] interface {
	Create(ctx context.Context, entity T) (T, error)
	Update(ctx context.Context, entity T) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (T, error)
	// Lock loads the row and holds it for the rest of the surrounding
	// transaction.
	Lock(ctx context.Context, id int64) (T, error)
	Find(ctx context.Context, req PageRequest, where ...Criterion) ([]T, int64, error)
	All(ctx context.Context, where ...Criterion) ([]T, error)
	Count(ctx context.Context, where ...Criterion) (int64, error)
	// Exists reports whether a row other than excludeID matches. A zero
	// excludeID excludes nothing.
	Exists(ctx context.Context, excludeID int64, where ...Criterion) (bool, error)
}

// Schema describes how to read a kind without knowing its concrete type.
type Schema[T any] struct {
	ID    func(T) int64
	SetID func(*T, int64)
	// Fields maps API field names to accessors. Values are one of string,
	// int64, bool, decimal.Decimal or time.Time.
	Fields map[string]func(T) any
	// Search lists the fields matched by Search criteria.
	Search []string
}

// Field returns the value of the named field, or nil when it is unknown.
func (s Schema[T]) Field(entity T, name string) any {
	if name == "id" {
		return s.ID(entity)
	}
	if get, ok := s.Fields[name]; ok {
		return get(entity)
	}
	return nil
}

// Sortable lists the field names accepted for sortBy.
func (s Schema[T]) Sortable() []string {
	out := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
