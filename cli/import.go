package cli

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/ingest"
)

func (a *app) importCommand() *cobra.Command {
	var clearFirst bool

	cmd := &cobra.Command{
		Use:   "import <extract.json>",
		Short: "Load a call-graph extract into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			graph, err := ingest.Load(path)
			if err != nil {
				return err
			}

			logger := a.logger.With("run_id", uuid.NewString(), "project", a.project)
			logger.Info("importing call graph", "path", path, "clear", clearFirst)

			return a.withStore(cmd, func(ctx context.Context, driver core.Driver) error {
				result, err := ingest.Import(ctx, driver, graph, ingest.Options{
					Project: a.project,
					Clear:   clearFirst,
				})
				if err != nil {
					return err
				}

				logger.Info("import complete",
					"modules", result.Modules,
					"functions", result.Functions,
					"calls", result.Calls,
					"structs", result.Structs,
					"locations", result.FunctionLocations,
					"specs", result.Specs,
					"types", result.Types)

				return a.render(result)
			})
		},
	}
	cmd.Flags().BoolVar(&clearFirst, "clear", false, "Delete the project's existing rows first")

	return cmd
}
