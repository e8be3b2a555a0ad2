package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var envFile string

	rootCmd := &cobra.Command{
		Use:   "plexis",
		Short: "Module/controller/action web framework server",
		Long: `Plexis serves modular web sites.

URIs resolve through the global route table, then the module's own
config/routes.yaml, then the {module}/{controller}/{action}/{params}
convention. Modules must be installed before they are reachable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file read before the process environment")

	load := func() (appConfig, error) {
		return loadConfig(envFile)
	}

	rootCmd.AddCommand(
		serveCmd(load),
		routesCmd(load),
		modulesCmd(load),
		resolveCmd(load),
		migrateCmd(load),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
