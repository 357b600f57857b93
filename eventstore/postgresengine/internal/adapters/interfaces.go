package adapters

import (
	"context"
	"database/sql"
	"errors"
)

// DBAdapter defines the database operations needed by the event store.
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)
	// ExecInTx runs lockQuery and then query inside one transaction on the primary.
	ExecInTx(ctx context.Context, lockQuery string, query string) (DBResult, error)
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}

// stdRows wraps sql.Rows, shared by the sql and sqlx adapters.
type stdRows struct {
	rows *sql.Rows
}

func (s *stdRows) Next() bool {
	return s.rows.Next()
}

func (s *stdRows) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}

func (s *stdRows) Err() error {
	return s.rows.Err()
}

func (s *stdRows) Close() error {
	return s.rows.Close()
}

// stdResult wraps sql.Result, shared by the sql and sqlx adapters.
type stdResult struct {
	result sql.Result
}

func (s *stdResult) RowsAffected() (int64, error) {
	return s.result.RowsAffected()
}

// execInStdTx is shared by the sql and sqlx adapters.
func execInStdTx(ctx context.Context, db *sql.DB, lockQuery string, query string) (DBResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx, lockQuery); err != nil {
		return nil, errors.Join(err, tx.Rollback())
	}

	result, err := tx.ExecContext(ctx, query)
	if err != nil {
		return nil, errors.Join(err, tx.Rollback())
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &stdResult{result: result}, nil
}
