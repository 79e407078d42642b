package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/keiri-dev/keiri/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "keiri",
		Short:   "Bookkeeping and tax estimates for sole proprietors",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if g.debug {
				level = slog.LevelDebug
			}
			h := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(h))
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.dir, "dir", ".", "project directory")
	rootCmd.PersistentFlags().StringVar(&g.owner, "owner", "", "owner reference (default: business.owner)")
	rootCmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newInitCommand(g),
		newOwnerCommand(g),
		newJournalCommand(g),
		newReportCommand(g),
		newTaxCommand(),
		newBatchCommand(g),
		newServeCommand(g),
	)

	return rootCmd
}
