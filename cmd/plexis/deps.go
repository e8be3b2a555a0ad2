package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/plexis-cms/plexis"
	"github.com/plexis-cms/plexis/pkg/cache"
	"github.com/plexis-cms/plexis/pkg/db"
	"github.com/plexis-cms/plexis/pkg/logger"
	"github.com/plexis-cms/plexis/pkg/module"
	"github.com/plexis-cms/plexis/pkg/redis"
	"github.com/plexis-cms/plexis/pkg/routing"
)

const installedCachePrefix = "plexis:installed"

// deps holds the services shared by the commands.
type deps struct {
	log      *slog.Logger
	pool     *pgxpool.Pool
	redis    *goredis.Client
	store    module.Store
	registry *module.Registry
	router   *plexis.Router
	closers  []func(context.Context) error
	cfg      appConfig
}

// bootstrap connects the configured backends. Without DATABASE_URL the
// installed state lives in memory, seeded from PLEXIS_INSTALLED.
func bootstrap(ctx context.Context, cfg appConfig) (_ *deps, err error) {
	d := &deps{
		cfg: cfg,
		log: logger.New(cfg.Log, plexis.RequestIDExtractor()),
	}
	defer func() {
		if err != nil {
			_ = d.close(context.WithoutCancel(ctx))
		}
	}()

	var store module.Store
	if cfg.DB.Enabled() {
		pool, err := db.Connect(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		d.pool = pool
		d.onClose(func(context.Context) error {
			pool.Close()
			return nil
		})

		if cfg.AutoMigrate {
			if err := db.Migrate(ctx, pool, cfg.DB.MigrationsTable, d.log); err != nil {
				return nil, err
			}
		}
		store = db.NewModuleStore(pool)
	} else {
		d.log.Warn("DATABASE_URL is not set, module state is kept in memory",
			slog.Any("installed", cfg.Installed),
		)
		store = module.NewMemoryStore(cfg.Installed...)
	}

	if cfg.Redis.Enabled() {
		client, err := redis.Open(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		d.redis = client
		d.onClose(func(context.Context) error {
			return client.Close()
		})
	}

	if cfg.InstalledCacheTTL > 0 {
		var c cache.Cache[bool]
		if d.redis != nil {
			c = cache.NewRedis[bool](d.redis, cache.WithPrefix(installedCachePrefix))
		} else {
			c = cache.NewMemory[bool](cache.WithDefaultTTL(cfg.InstalledCacheTTL))
		}
		d.onClose(func(context.Context) error {
			return c.Close()
		})
		store = module.NewCachedStore(store, c, cfg.InstalledCacheTTL)
	}

	d.store = store
	d.registry = module.NewRegistry(cfg.ModulesPath, store, module.WithLogger(d.log))
	d.router = plexis.NewRouter(d.registry,
		plexis.WithDefaultModule(cfg.DefaultModule),
		plexis.WithRouteStore(routing.NewFileStore(cfg.RoutesFile)),
		plexis.WithRouterLogger(d.log),
	)
	return d, nil
}

// app builds the HTTP application with the built-in modules registered.
func (d *deps) app() *plexis.App {
	opts := []plexis.Option{
		plexis.WithLogger(d.log),
		plexis.WithControllers("error", errorControllers()...),
		plexis.WithControllers("welcome", welcomeController()),
	}

	if d.pool != nil {
		opts = append(opts, plexis.WithReadinessCheck("db", db.Healthcheck(d.pool)))
	}
	if d.redis != nil {
		opts = append(opts, plexis.WithReadinessCheck("redis", redis.Healthcheck(d.redis)))
	}
	if d.cfg.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts = append(opts, plexis.WithMetrics(reg))
	}
	if d.cfg.Offline {
		opts = append(opts, plexis.WithOffline(d.cfg.OfflineMessage))
	}

	return plexis.New(d.router, opts...)
}

func (d *deps) onClose(fn func(context.Context) error) {
	d.closers = append(d.closers, fn)
}

// close releases resources in reverse order of acquisition.
func (d *deps) close(ctx context.Context) error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}

// withDeps loads the config, bootstraps and runs fn, closing everything
// afterwards.
func withDeps(ctx context.Context, load func() (appConfig, error), fn func(*deps) error) error {
	cfg, err := load()
	if err != nil {
		return err
	}
	d, err := bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = d.close(context.WithoutCancel(ctx)) }()
	return fn(d)
}
