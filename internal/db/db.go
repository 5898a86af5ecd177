// Package db provides PostgreSQL access for identities, interviews and feedback.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/interview-tracker/internal/query"
)

// DefaultTimeout bounds every statement so a hung connection cannot pin a request.
const DefaultTimeout = 5 * time.Second

// PostgreSQL error codes the repositories translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

var (
	// ErrDuplicate is returned when an insert or update violates a unique constraint.
	ErrDuplicate = errors.New("duplicate key")
	// ErrReferenced is returned when a delete is blocked by a foreign key.
	ErrReferenced = errors.New("row is still referenced")
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()
	return db.pool.Ping(ctx)
}

// get scans one row into dest. It reports false when no row matched.
func (db *DB) get(ctx context.Context, dest any, stmt query.Statement) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	if err := pgxscan.Get(ctx, db.pool, dest, stmt.SQL, stmt.Args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, classify(err)
	}
	return true, nil
}

// selectAll scans every row into dest, which must point to a slice.
func (db *DB) selectAll(ctx context.Context, dest any, stmt query.Statement) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	return classify(pgxscan.Select(ctx, db.pool, dest, stmt.SQL, stmt.Args...))
}

// exec runs a statement and returns the affected row count.
func (db *DB) exec(ctx context.Context, stmt query.Statement) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	tag, err := db.pool.Exec(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return 0, classify(err)
	}
	return tag.RowsAffected(), nil
}

func raw(sql string, args ...any) query.Statement {
	return query.Statement{SQL: sql, Args: args}
}

// classify tags constraint violations with a sentinel while keeping the
// driver error in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w (%s): %w", ErrDuplicate, pgErr.ConstraintName, err)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w (%s): %w", ErrReferenced, pgErr.ConstraintName, err)
		}
	}
	return err
}
