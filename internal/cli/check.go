package cli

import (
	"github.com/spf13/cobra"

	"cvsgit.dev/cvsgit/internal/actions"
	"cvsgit.dev/cvsgit/internal/cli/helpers"
	"cvsgit.dev/cvsgit/internal/runtime"
)

// newCheckCmd creates the check command
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "check <history.yaml>",
		Short:        "Report tags that are not a consistent cut, without repairing them",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.CheckAction(ctx, args[0])
			})
		},
	}
}
