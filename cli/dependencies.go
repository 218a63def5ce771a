package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/queries"
)

func (a *app) dependsOnCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "depends-on <module>",
		Short: "Show what modules a module depends on (outgoing dependencies)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.dependenciesOptions(args[0])

			return a.withStore(cmd, func(ctx context.Context, driver core.Driver) error {
				result, err := queries.DependsOn(ctx, driver, opts)
				if err != nil {
					return err
				}

				return a.render(result)
			})
		},
	}
}

func (a *app) dependedByCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "depended-by <module>",
		Short: "Show what modules depend on a module (incoming dependencies)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.dependenciesOptions(args[0])

			return a.withStore(cmd, func(ctx context.Context, driver core.Driver) error {
				result, err := queries.DependedBy(ctx, driver, opts)
				if err != nil {
					return err
				}

				return a.render(result)
			})
		},
	}
}

func (a *app) dependenciesOptions(module string) queries.DependenciesOptions {
	return queries.DependenciesOptions{
		Module:  module,
		Project: a.project,
		Mode:    a.mode(),
		Limit:   a.limit,
	}
}
