package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/queries"
)

func (a *app) functionCommand() *cobra.Command {
	var arity int64

	cmd := &cobra.Command{
		Use:   "function <module> <function>",
		Short: "Show function signatures (args, return type)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := queries.FunctionOptions{
				Module:   args[0],
				Function: args[1],
				Arity:    arity,
				Project:  a.project,
				Mode:     a.mode(),
				Limit:    a.limit,
			}

			return a.withStore(cmd, func(ctx context.Context, driver core.Driver) error {
				result, err := queries.Function(ctx, driver, opts)
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
