package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/plexis-cms/plexis/pkg/routing"
)

func routesCmd(load func() (appConfig, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Manage the global route table",
	}
	cmd.AddCommand(
		routesListCmd(load),
		routesAddCmd(load),
		routesRemoveCmd(load),
	)
	return cmd
}

func routesListCmd(load func() (appConfig, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the global routes in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), load, func(d *deps) error {
				if err := d.router.Init(cmd.Context()); err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "PATTERN\tMODULE\tCONTROLLER\tACTION\tPARAMS\tAJAX")
				for _, r := range d.router.Routes() {
					ajax := "-"
					if a := r.Target.Ajax; a != nil {
						ajax = orDash(a.Controller) + "/" + orDash(a.Action)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
						r.Pattern,
						orDash(r.Target.Module),
						orDash(r.Target.Controller),
						orDash(r.Target.Action),
						orDash(strings.Join(r.Target.Params, ",")),
						ajax,
					)
				}
				return w.Flush()
			})
		},
	}
}

func routesAddCmd(load func() (appConfig, error)) *cobra.Command {
	var (
		target routing.Target
		ajax   routing.AjaxTarget
	)

	cmd := &cobra.Command{
		Use:   "add <pattern>",
		Short: "Add or replace a global route",
		Long: `Add or replace a global route.

Pattern segments are literals, :name placeholders matching one segment,
or a trailing *name matching the rest of the URI. Captured values are
appended to --param values.`,
		Example: `  plexis routes add "shop/item/:id" --module shop --controller item --action view
  plexis routes add "news/*path" --module blog --ajax-action feed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ajax.Controller != "" || ajax.Action != "" {
				target.Ajax = &ajax
			}

			t := routing.NewTable()
			t.Add(args[0], target)

			return withDeps(cmd.Context(), load, func(d *deps) error {
				if err := d.router.AddRoutes(cmd.Context(), t); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "route %q saved\n", routing.Normalize(args[0]))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&target.Module, "module", "m", "", "Target module")
	cmd.Flags().StringVarP(&target.Controller, "controller", "c", "", "Target controller (default: module name)")
	cmd.Flags().StringVarP(&target.Action, "action", "a", "", "Target action (default: index)")
	cmd.Flags().StringSliceVarP(&target.Params, "param", "p", nil, "Static parameter, repeatable")
	cmd.Flags().StringVar(&ajax.Controller, "ajax-controller", "", "Controller used for ajax requests")
	cmd.Flags().StringVar(&ajax.Action, "ajax-action", "", "Action used for ajax requests")
	_ = cmd.MarkFlagRequired("module")

	return cmd
}

func routesRemoveCmd(load func() (appConfig, error)) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <pattern>",
		Aliases: []string{"rm"},
		Short:   "Remove a global route",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), load, func(d *deps) error {
				if err := d.router.RemoveRoute(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "route %q removed\n", routing.Normalize(args[0]))
				return nil
			})
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
