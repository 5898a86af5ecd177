package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver for goose
	"github.com/pressly/goose/v3"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// goose keeps its dialect and filesystem in package globals.
var gooseMu sync.Mutex

// Migrator applies the embedded schema migrations.
type Migrator struct {
	databaseURL string
	up          func(context.Context) error

	mu   sync.Mutex
	done bool
	err  error
}

// NewMigrator returns a migrator for the database at databaseURL.
func NewMigrator(databaseURL string) *Migrator {
	m := &Migrator{databaseURL: databaseURL}
	m.up = m.Up
	return m
}

// Ensure brings the schema up to date once per Migrator. Concurrent callers
// block until the running attempt finishes and all observe its result, which
// is final. An attempt cut short by its caller's context is not recorded, so
// the next caller migrates again.
func (m *Migrator) Ensure(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.done {
		return m.err
	}
	err := m.up(ctx)
	if err != nil && ctx.Err() != nil {
		return err
	}
	m.done, m.err = true, err
	return m.err
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) error {
	return m.run(ctx, func(ctx context.Context, sqlDB *sql.DB) error {
		return goose.UpContext(ctx, sqlDB, migrationsDir)
	})
}

// Reset rolls every migration back and applies them again, dropping all data.
func (m *Migrator) Reset(ctx context.Context) error {
	return m.run(ctx, func(ctx context.Context, sqlDB *sql.DB) error {
		if err := goose.ResetContext(ctx, sqlDB, migrationsDir); err != nil {
			return err
		}
		return goose.UpContext(ctx, sqlDB, migrationsDir)
	})
}

// Version returns the current schema version.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	var version int64
	err := m.run(ctx, func(ctx context.Context, sqlDB *sql.DB) error {
		v, err := goose.GetDBVersionContext(ctx, sqlDB)
		version = v
		return err
	})
	return version, err
}

func (m *Migrator) run(ctx context.Context, fn func(context.Context, *sql.DB) error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	sqlDB, err := goose.OpenDBWithDriver("pgx", m.databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer sqlDB.Close()

	if err := fn(ctx, sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
