package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/plexis-cms/plexis"
)

func serveCmd(load func() (appConfig, error)) *cobra.Command {
	var (
		addr    string
		offline string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server.

The global route table is loaded before the listener opens. SIGINT and
SIGTERM trigger a graceful shutdown that closes the database and Redis
connections.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("offline") {
				cfg.Offline = true
				cfg.OfflineMessage = offline
			}

			ctx := cmd.Context()
			d, err := bootstrap(ctx, cfg)
			if err != nil {
				return err
			}
			return serve(ctx, d)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides PLEXIS_ADDR)")
	cmd.Flags().StringVar(&offline, "offline", "", "Serve the offline page with this message")

	return cmd
}

// serve runs the HTTP server until shutdown. The dependencies are closed
// even when the server fails to start.
func serve(ctx context.Context, d *deps) error {
	// A no-op once the shutdown hook has run.
	defer func() { _ = d.close(context.WithoutCancel(ctx)) }()

	return plexis.Run(d.app(),
		plexis.WithContext(ctx),
		plexis.Address(d.cfg.Addr),
		plexis.Logger(d.log),
		plexis.ShutdownTimeout(d.cfg.ShutdownTimeout),
		plexis.StartupHook(d.router.Init),
		plexis.ShutdownHook(d.close),
	)
}
