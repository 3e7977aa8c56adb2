package cli

import (
	"github.com/spf13/cobra"

	"cvsgit.dev/cvsgit/internal/actions"
	"cvsgit.dev/cvsgit/internal/cli/helpers"
	"cvsgit.dev/cvsgit/internal/runtime"
)

// newResolveCmd creates the resolve command
func newResolveCmd() *cobra.Command {
	var (
		noFix   bool
		commits bool
		diff    bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <history.yaml>",
		Short: "Reconcile a CVS history and print the resulting branch streams",
		Long: `Reconcile a CVS history and print the resulting branch streams.

Tags whose revisions do not form a consistent cut are repaired by moving or
splitting commits on the tag's branch. Tags that cannot be repaired are
reported and left out. The run fails if any branch does not replay cleanly or
any merge cannot be resolved.

Pass - as the path to read the history from standard input.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.ResolveAction(ctx, actions.ResolveOptions{
					HistoryPath: args[0],
					Fix:         !noFix && !ctx.Config.NoFix,
					Commits:     commits,
					Diff:        diff,
				})
			})
		},
	}

	cmd.Flags().BoolVar(&noFix, "no-fix", false, "Only check tags, do not repair them")
	cmd.Flags().BoolVar(&commits, "commits", false, "List every commit of every branch")
	cmd.Flags().BoolVar(&diff, "diff", false, "Show a diff of each branch before and after the repairs")

	return cmd
}
