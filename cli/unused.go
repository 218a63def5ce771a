package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/callscope/callscope/core"
	"github.com/callscope/callscope/queries"
)

func (a *app) unusedCommand() *cobra.Command {
	var (
		privateOnly      bool
		publicOnly       bool
		excludeGenerated bool
	)

	cmd := &cobra.Command{
		Use:   "unused [module]",
		Short: "Find functions that are never called",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := queries.UnusedOptions{
				Project:          a.project,
				Mode:             a.mode(),
				Limit:            a.limit,
				PrivateOnly:      privateOnly,
				PublicOnly:       publicOnly,
				ExcludeGenerated: excludeGenerated,
			}
			if len(args) > 0 {
				opts.Module = args[0]
			}

			return a.withStore(cmd, func(ctx context.Context, driver core.Driver) error {
				result, err := queries.Unused(ctx, driver, opts)
				if err != nil {
					return err
				}

				return a.render(result)
			})
		},
	}
	cmd.Flags().BoolVar(&privateOnly, "private-only", false, "Only private functions (defp, defmacrop)")
	cmd.Flags().BoolVar(&publicOnly, "public-only", false, "Only public functions (def, defmacro)")
	cmd.Flags().BoolVar(&excludeGenerated, "exclude-generated", false, "Skip compiler-generated functions")
	cmd.MarkFlagsMutuallyExclusive("private-only", "public-only")

	return cmd
}
