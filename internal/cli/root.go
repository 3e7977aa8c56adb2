package cli

import (
	"context"

	"github.com/spf13/cobra"

	"cvsgit.dev/cvsgit/internal/config"
	"cvsgit.dev/cvsgit/internal/output"
	"cvsgit.dev/cvsgit/internal/runtime"
)

// globalFlags are shared by every command
type globalFlags struct {
	configPath  string
	debug       bool
	logFile     string
	noColor     bool
	quiet       bool
	tagRules    []config.Rule
	branchRules []config.Rule
}

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	var flags globalFlags
	var splog *output.Splog

	rootCmd := &cobra.Command{
		Use:   "cvsgit",
		Short: "cvsgit reconciles CVS history into consistent per-branch commit streams",
		Long: `cvsgit reconciles CVS history into consistent per-branch commit streams.

It reads the commits grouped from a CVS log, makes every tag correspond to a
single commit by reordering or splitting commits, proves each branch replays
cleanly, and links CVSNT merges to the commits they merged from.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(flags.configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("log-file") {
				if cfg.LogFile != "" {
					flags.logFile = cfg.LogFile
				} else {
					flags.logFile = output.LogFilePath()
				}
			}

			output.ConfigureColor(flags.noColor)

			splog, err = output.NewSplogWithConfig(cmd.OutOrStdout(), flags.logFile, flags.debug || cfg.Debug)
			if err != nil {
				return err
			}
			splog.SetQuiet(flags.quiet)

			ctx, err := runtime.NewContextWithConfig(splog, cfg, flags.tagRules, flags.branchRules)
			if err != nil {
				return err
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			cmd.SetContext(runtime.WithContext(parent, ctx))
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if splog != nil {
				return splog.Close()
			}
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "C", "", "Read settings and include/exclude rules from a YAML file")
	pf.BoolVarP(&flags.debug, "debug", "d", false, "Show the detailed repair log on the console")
	pf.StringVar(&flags.logFile, "log-file", "", "Write the full log to a rotated file (default $CVSGIT_LOG_FILE)")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "Suppress console output; the log file and exit status still report the run")

	includeTag, excludeTag := config.NewRuleFlags(&flags.tagRules)
	pf.Var(includeTag, "include-tag", "Include tags matching a regex (repeatable, order matters)")
	pf.Var(excludeTag, "exclude-tag", "Exclude tags matching a regex (repeatable, order matters)")
	includeBranch, excludeBranch := config.NewRuleFlags(&flags.branchRules)
	pf.Var(includeBranch, "include-branch", "Include branches matching a regex (repeatable, order matters)")
	pf.Var(excludeBranch, "exclude-branch", "Exclude branches matching a regex (repeatable, order matters)")

	// Add subcommands
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	return rootCmd
}
