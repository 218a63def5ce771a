package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/queries"
)

func (a *app) duplicatesCommand() *cobra.Command {
	var (
		bySource         bool
		byModule         bool
		excludeGenerated bool
	)

	cmd := &cobra.Command{
		Use:   "duplicates [module]",
		Short: "Find functions with identical implementations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := queries.DuplicatesOptions{
				Project:          a.project,
				Mode:             a.mode(),
				BySource:         bySource,
				ExcludeGenerated: excludeGenerated,
			}
			if len(args) > 0 {
				opts.Module = args[0]
			}

			return a.withStore(cmd, func(ctx context.Context, driver core.Driver) error {
				if byModule {
					result, err := queries.DuplicatesByModule(ctx, driver, opts)
					if err != nil {
						return err
					}

					return a.render(result)
				}

				result, err := queries.Duplicates(ctx, driver, opts)
				if err != nil {
					return err
				}

				return a.render(result)
			})
		},
	}
	cmd.Flags().BoolVar(&bySource, "source", false, "Match on the source hash instead of the AST hash")
	cmd.Flags().BoolVar(&byModule, "by-module", false, "Rank modules by duplicate count instead of listing groups")
	cmd.Flags().BoolVar(&excludeGenerated, "exclude-generated", false, "Skip compiler-generated functions")

	return cmd
}
