package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func modulesCmd(load func() (appConfig, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modules",
		Short: "List, install and uninstall modules",
	}
	cmd.AddCommand(
		modulesListCmd(load),
		modulesInstallCmd(load),
		modulesUninstallCmd(load),
	)
	return cmd
}

func modulesListCmd(load func() (appConfig, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the modules found under the modules path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), load, func(d *deps) error {
				names, err := d.registry.Discover()
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tVERSION\tINSTALLED\tADMIN")
				for _, name := range names {
					m, err := d.registry.Load(name)
					if err != nil {
						fmt.Fprintf(w, "%s\t-\terror: %v\t-\n", name, err)
						continue
					}
					installed, err := m.IsInstalled(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
						name,
						orDash(m.Version()),
						strconv.FormatBool(installed),
						strconv.FormatBool(m.HasAdmin()),
					)
				}
				return w.Flush()
			})
		},
	}
}

func modulesInstallCmd(load func() (appConfig, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "install <name>",
		Short: "Install a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), load, func(d *deps) error {
				m, err := d.registry.Load(args[0])
				if err != nil {
					return err
				}
				if err := m.Install(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "module %s %s installed\n", m.Name(), m.Version())
				return nil
			})
		},
	}
}

func modulesUninstallCmd(load func() (appConfig, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <name>",
		Short: "Uninstall a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), load, func(d *deps) error {
				m, err := d.registry.Load(args[0])
				if err != nil {
					return err
				}
				if err := m.Uninstall(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "module %s uninstalled\n", m.Name())
				return nil
			})
		},
	}
}
