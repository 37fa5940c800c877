package sqlite

import (
	"context"
	"database/sql"

	"polingo/internal/logger"
)

// tx runs fn inside a transaction, rolling back on error.
func tx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	log := logger.FromContext(ctx).WithPrefix("repo")
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		log.Debug("transaction rolled back due to error: %v", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction: %v", err)
		return err
	}
	return nil
}

// counts scans a single correct/total aggregation row.
func counts(ctx context.Context, db *sql.DB, query string, args ...any) (int, int, error) {
	var correct, total int
	err := db.QueryRowContext(ctx, query, args...).Scan(&correct, &total)
	return correct, total, err
}
