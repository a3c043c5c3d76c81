// Package repository holds the shared helpers for running SQL through
// database/sql with typed row scanning.
package repository

import (
	"context"
	"database/sql"
)

// DB is the subset of database/sql methods the helpers need.
// *sql.DB, *sql.Tx, and *sql.Conn all satisfy it.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Scanner abstracts row scanning so a single scan function serves both
// *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanFunc converts a scanned row into a typed value. Domain packages
// define one per entity.
type ScanFunc[T any] func(Scanner) (T, error)

// QueryOne runs a query expected to return a single row and scans it.
func QueryOne[T any](ctx context.Context, db DB, query string, scan ScanFunc[T], args ...any) (T, error) {
	return scan(db.QueryRowContext(ctx, query, args...))
}

// QueryMany runs a query and scans every returned row. A query matching
// nothing yields an empty slice, not nil.
func QueryMany[T any](ctx context.Context, db DB, query string, scan ScanFunc[T], args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ExecExpectOne runs a statement that must affect exactly one row and
// returns sql.ErrNoRows when it affects none.
func ExecExpectOne(ctx context.Context, db DB, query string, args ...any) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error.
func WithTx[T any](ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) (T, error)) (T, error) {
	var zero T

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return zero, err
	}
	defer tx.Rollback()

	result, err := fn(tx)
	if err != nil {
		return zero, err
	}
	return result, tx.Commit()
}
