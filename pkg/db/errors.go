package db

import "errors"

var (
	ErrEmptyConnString     = errors.New("db: empty connection string")
	ErrParseConfig         = errors.New("db: failed to parse database configuration")
	ErrConnectionFailed    = errors.New("db: failed to open database connection")
	ErrHealthcheckFailed   = errors.New("db: healthcheck failed")
	ErrApplyMigrations     = errors.New("db: failed to apply migrations")
	ErrQueryModuleRegistry = errors.New("db: module registry query failed")
)
