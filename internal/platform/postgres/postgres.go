// Package postgres opens the database pool and hosts the generic repository
// used by every module's Postgres store.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"backoffice/internal/platform/config"
	"backoffice/pkg/platform/sentinel"
)

const driverName = "pgx"

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(driverName, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNumericOutOfRange   = "22003"
)

// MapError translates driver errors into store sentinels. Unique violations
// keep the constraint name so services can report the offending fields.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return &sentinel.UniqueViolation{Constraint: pgErr.ConstraintName}
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", sentinel.ErrReferenced, pgErr.ConstraintName)
		case codeCheckViolation:
			return fmt.Errorf("%w: %s", sentinel.ErrInvalidValue, pgErr.ConstraintName)
		case codeNumericOutOfRange:
			return fmt.Errorf("%w: %s", sentinel.ErrInvalidValue, pgErr.Message)
		}
	}
	return err
}
