package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/queries"
)

func (a *app) callsToCommand() *cobra.Command {
	var arity int64

	cmd := &cobra.Command{
		Use:   "calls-to <module> [function]",
		Short: "Show what calls a module or function (incoming edges)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.callsOptions(args, arity)

			return a.withStore(cmd, func(ctx context.Context, driver core.Driver) error {
				result, err := queries.CallsTo(ctx, driver, opts)
				if err != nil {
					return err
				}

				return a.render(result)
			})
		},
	}
	cmd.Flags().Int64Var(&arity, "arity", -1, "Only this arity (-1 for any)")

	return cmd
}

func (a *app) callsFromCommand() *cobra.Command {
	var arity int64

	cmd := &cobra.Command{
		Use:   "calls-from <module> [function]",
		Short: "Show what a module or function calls (outgoing edges)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.callsOptions(args, arity)

			return a.withStore(cmd, func(ctx context.Context, driver core.Driver) error {
				result, err := queries.CallsFrom(ctx, driver, opts)
				if err != nil {
					return err
				}

				return a.render(result)
			})
		},
	}
	cmd.Flags().Int64Var(&arity, "arity", -1, "Only this arity (-1 for any)")

	return cmd
}

func (a *app) callsOptions(args []string, arity int64) queries.CallsOptions {
	opts := queries.CallsOptions{
		Module:  args[0],
		Arity:   arity,
		Project: a.project,
		Mode:    a.mode(),
		Limit:   a.limit,
	}
	if len(args) > 1 {
		opts.Function = args[1]
	}

	return opts
}
