package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// goose keeps its settings in package state.
var gooseMu sync.Mutex

// Migrate applies pending migrations, recording them in table.
func Migrate(ctx context.Context, pool *pgxpool.Pool, table string, log *slog.Logger) error {
	return withGoose(pool, table, log, func(db *sql.DB) error {
		return goose.UpContext(ctx, db, "migrations")
	})
}

// Rollback reverts the most recent migration.
func Rollback(ctx context.Context, pool *pgxpool.Pool, table string, log *slog.Logger) error {
	return withGoose(pool, table, log, func(db *sql.DB) error {
		return goose.DownContext(ctx, db, "migrations")
	})
}

func withGoose(pool *pgxpool.Pool, table string, log *slog.Logger, fn func(*sql.DB) error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if table == "" {
		table = "pcms_schema_migrations"
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{log})
	goose.SetTableName(table)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}

	// The *sql.DB shares pool connections and must not be closed here.
	if err := fn(stdlib.OpenDBFromPool(pool)); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}
	return nil
}

type gooseLogger struct {
	log *slog.Logger
}

func (g gooseLogger) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...))
}

// Fatalf logs only; goose returns the error to the caller.
func (g gooseLogger) Fatalf(format string, args ...any) {
	g.log.Error(fmt.Sprintf(format, args...))
}
