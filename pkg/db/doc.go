// Package db provides the PostgreSQL side of plexis: connection pooling with
// retry, embedded goose migrations and [ModuleStore], the persistent store of
// module registration records.
//
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := db.Migrate(ctx, pool, cfg.MigrationsTable, log); err != nil {
//	    return err
//	}
//	registry := module.NewRegistry("modules", db.NewModuleStore(pool))
package db
