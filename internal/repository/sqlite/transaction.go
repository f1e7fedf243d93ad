// Package sqlite implements the domain repositories on a single-file SQLite
// database for the offline CLI.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/database"
	"github.com/mattn/go-sqlite3"
)

type txKey struct{}

// WithTransaction executes fn inside a database transaction. A nested call
// reuses the outer one.
func WithTransaction(ctx context.Context, db *database.SQLiteDB, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("rollback error during panic recovery", "error", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetQuerier returns the transaction carried by ctx, or the database.
func GetQuerier(ctx context.Context, db *database.SQLiteDB) database.SQLQuerier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db.DB
}

type transactor struct {
	db *database.SQLiteDB
}

func NewTransactor(db *database.SQLiteDB) database.Transactor {
	return &transactor{db: db}
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, t.db, fn)
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure
// mentioning the given columns, e.g. "employees.employer_id, employees.dni".
func isUniqueViolation(err error, columns string) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique {
		return false
	}
	return strings.Contains(sqliteErr.Error(), columns)
}
