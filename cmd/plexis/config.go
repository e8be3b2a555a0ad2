package main

import (
	"time"

	"github.com/plexis-cms/plexis/pkg/config"
	"github.com/plexis-cms/plexis/pkg/db"
	"github.com/plexis-cms/plexis/pkg/logger"
	"github.com/plexis-cms/plexis/pkg/redis"
)

type appConfig struct {
	Addr           string `env:"PLEXIS_ADDR" envDefault:":8080"`
	ModulesPath    string `env:"PLEXIS_MODULES_PATH" envDefault:"modules"`
	RoutesFile     string `env:"PLEXIS_ROUTES_FILE" envDefault:"config/routes.yaml"`
	DefaultModule  string `env:"PLEXIS_DEFAULT_MODULE" envDefault:"welcome"`
	OfflineMessage string `env:"PLEXIS_OFFLINE_MESSAGE"`

	// Installed seeds the in-memory module store when no database is
	// configured.
	Installed []string `env:"PLEXIS_INSTALLED" envDefault:"welcome,error"`

	InstalledCacheTTL time.Duration `env:"PLEXIS_INSTALLED_CACHE_TTL" envDefault:"0s"`
	ShutdownTimeout   time.Duration `env:"PLEXIS_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	Offline           bool          `env:"PLEXIS_OFFLINE"`
	Metrics           bool          `env:"PLEXIS_METRICS" envDefault:"true"`
	AutoMigrate       bool          `env:"PLEXIS_AUTO_MIGRATE" envDefault:"true"`

	DB    db.Config
	Redis redis.Config
	Log   logger.Config
}

func loadConfig(envFile string) (appConfig, error) {
	return config.Load[appConfig](envFile)
}
