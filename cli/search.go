package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/queries"
)

func (a *app) searchCommand() *cobra.Command {
	var kindName string

	cmd := &cobra.Command{
		Use:   "search <pattern>",
		Short: "Search for modules or functions by name pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := queries.ParseSearchKind(kindName)
			if err != nil {
				return err
			}

			opts := queries.SearchOptions{
				Pattern: args[0],
				Kind:    kind,
				Project: a.project,
				Mode:    a.mode(),
				Limit:   a.limit,
			}

			return a.withStore(cmd, func(ctx context.Context, driver core.Driver) error {
				result, err := queries.Search(ctx, driver, opts)
				if err != nil {
					return err
				}

				return a.render(result)
			})
		},
	}
	cmd.Flags().StringVarP(&kindName, "kind", "k", "modules", "What to search for: modules or functions")

	return cmd
}
