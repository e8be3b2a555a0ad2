package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/plexis-cms/plexis/pkg/module"
)

// Querier is the subset of pgx used by ModuleStore. *pgxpool.Pool and
// pgx.Tx both satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	queryIsInstalled = `SELECT EXISTS (SELECT 1 FROM pcms_modules WHERE name = $1)`
	queryRegister    = `INSERT INTO pcms_modules (name, version) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`
	queryUnregister  = `DELETE FROM pcms_modules WHERE name = $1`
	queryInstalled   = `SELECT name, version, installed_at FROM pcms_modules ORDER BY name`
)

// ModuleStore keeps module registration records in the pcms_modules table.
type ModuleStore struct {
	db Querier
}

// NewModuleStore creates a store on top of db.
func NewModuleStore(db Querier) *ModuleStore {
	return &ModuleStore{db: db}
}

func (s *ModuleStore) IsInstalled(ctx context.Context, name string) (bool, error) {
	var ok bool
	if err := s.db.QueryRow(ctx, queryIsInstalled, name).Scan(&ok); err != nil {
		return false, errors.Join(ErrQueryModuleRegistry, err)
	}
	return ok, nil
}

func (s *ModuleStore) RegisterModule(ctx context.Context, name, version string) (bool, error) {
	tag, err := s.db.Exec(ctx, queryRegister, name, version)
	if err != nil {
		return false, errors.Join(ErrQueryModuleRegistry, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *ModuleStore) UnregisterModule(ctx context.Context, name string) (bool, error) {
	tag, err := s.db.Exec(ctx, queryUnregister, name)
	if err != nil {
		return false, errors.Join(ErrQueryModuleRegistry, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *ModuleStore) Installed(ctx context.Context) ([]module.Registration, error) {
	rows, err := s.db.Query(ctx, queryInstalled)
	if err != nil {
		return nil, errors.Join(ErrQueryModuleRegistry, err)
	}
	regs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (module.Registration, error) {
		var r module.Registration
		err := row.Scan(&r.Name, &r.Version, &r.InstalledAt)
		return r, err
	})
	if err != nil {
		return nil, errors.Join(ErrQueryModuleRegistry, err)
	}
	return regs, nil
}

var (
	_ module.Store  = (*ModuleStore)(nil)
	_ module.Lister = (*ModuleStore)(nil)
)
