package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/queries"
)

func (a *app) setupCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create the call-graph relations in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(ctx context.Context, driver core.Driver) error {
				result, err := queries.Setup(ctx, driver, dryRun)
				if err != nil {
					return err
				}

				return a.render(result)
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be created without touching the store")

	return cmd
}
