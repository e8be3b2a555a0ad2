package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func resolveCmd(load func() (appConfig, error)) *cobra.Command {
	var ajax bool

	cmd := &cobra.Command{
		Use:     "resolve <uri>",
		Short:   "Show what a URI resolves to",
		Example: `  plexis resolve blog/post/view/5`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uri := ""
			if len(args) > 0 {
				uri = args[0]
			}

			return withDeps(cmd.Context(), load, func(d *deps) error {
				res, err := d.router.Forge(cmd.Context(), uri)
				if err != nil {
					return err
				}
				controller, action := res.ForRequest(ajax)

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "module:     %s\n", res.Module.Name())
				fmt.Fprintf(out, "controller: %s\n", controller)
				fmt.Fprintf(out, "action:     %s\n", action)
				fmt.Fprintf(out, "params:     [%s]\n", strings.Join(res.Params, ", "))
				fmt.Fprintf(out, "source:     %s\n", res.Source)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&ajax, "ajax", false, "Apply the route's ajax overrides")

	return cmd
}
