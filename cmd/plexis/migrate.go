package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plexis-cms/plexis/pkg/db"
	"github.com/plexis-cms/plexis/pkg/logger"
)

var errNoDatabase = errors.New("DATABASE_URL is not set")

func migrateCmd(load func() (appConfig, error)) *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  `Apply pending migrations of the module registration table, or revert the latest one with --down.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if !cfg.DB.Enabled() {
				return errNoDatabase
			}

			ctx := cmd.Context()
			log := logger.New(cfg.Log)
			pool, err := db.Connect(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			if down {
				err = db.Rollback(ctx, pool, cfg.DB.MigrationsTable, log)
			} else {
				err = db.Migrate(ctx, pool, cfg.DB.MigrationsTable, log)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "Revert the most recent migration")

	return cmd
}
