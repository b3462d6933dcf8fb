// Package migrations applies the embedded schema in file name order. Each
// file runs in its own transaction and is recorded in schema_migrations so
// that Apply is safe to call on every start.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed sql/*.sql
var files embed.FS

const (
	createVersionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (version VARCHAR(255) PRIMARY KEY, applied_at TIMESTAMPTZ NOT NULL DEFAULT now())`
	selectApplied      = `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`
	insertVersion      = `INSERT INTO schema_migrations (version) VALUES ($1)`
)

// Names lists the embedded migrations in the order Apply runs them.
func Names() ([]string, error) {
	names, err := fs.Glob(files, "sql/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	for i, n := range names {
		names[i] = n[len("sql/"):]
	}
	return names, nil
}

// Apply runs every migration not yet recorded.
func Apply(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, createVersionTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	names, err := Names()
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	for _, name := range names {
		if err := applyOne(ctx, db, name); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
	}
	return nil
}

func applyOne(ctx context.Context, db *sql.DB, name string) error {
	var applied bool
	if err := db.QueryRowContext(ctx, selectApplied, name).Scan(&applied); err != nil {
		return err
	}
	if applied {
		return nil
	}
	body, err := files.ReadFile("sql/" + name)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, string(body)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, insertVersion, name); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
