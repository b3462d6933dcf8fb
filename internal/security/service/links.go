// Package service validates the access control kinds and resolves a user's
// effective permissions through their roles.
package service

import (
	"context"

	"backoffice/internal/platform/crud"
	"backoffice/internal/security/store"
)

// association wires a to-many id list of E to a join table through the crud
// hooks: written after the row, loaded on every read, cleared on delete.
type association[E any] struct {
	links store.Links
	id    func(E) int64
	get   func(E) []int64
	set   func(*E, []int64)
}

func (a association[E]) hooks(h crud.Hooks[E]) crud.Hooks[E] {
	h.AfterWrite = func(ctx context.Context, e E) error {
		return a.links.Replace(ctx, a.id(e), a.get(e))
	}
	h.AfterDelete = func(ctx context.Context, id int64) error {
		return a.links.Replace(ctx, id, nil)
	}
	h.Enrich = func(ctx context.Context, rows []E) error {
		owners := make([]int64, len(rows))
		for i, r := range rows {
			owners[i] = a.id(r)
		}
		loaded, err := a.links.Load(ctx, owners)
		if err != nil {
			return err
		}
		for i := range rows {
			a.set(&rows[i], loaded[owners[i]])
		}
		return nil
	}
	return h
}

// guard blocks deleting a target while any owner links to it.
func guard(child string, links store.Links) crud.Guard {
	return crud.Guard{Child: child, Exists: links.Referenced}
}
