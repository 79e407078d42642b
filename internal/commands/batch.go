package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keiri-dev/keiri/internal/batch"
)

func newBatchCommand(g *globals) *cobra.Command {
	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Run a periodic report for every owner",
	}

	mid := &cobra.Command{
		Use:   "mid-month",
		Short: "Send the mid-month report to every owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), g, func(a *app) error {
				sum, err := a.runner(cmd).MidMonth(cmd.Context())
				if err != nil {
					return err
				}
				a.finishBatch(cmd, sum)
				return nil
			})
		},
	}

	var p period
	end := &cobra.Command{
		Use:   "month-end",
		Short: "Send the month-end report to every owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), g, func(a *app) error {
				y, m, err := p.resolve(a.today())
				if err != nil {
					return err
				}
				sum, err := a.runner(cmd).MonthEnd(cmd.Context(), y, m)
				if err != nil {
					return err
				}
				a.finishBatch(cmd, sum)
				return nil
			})
		},
	}
	p.register(end, true)

	batchCmd.AddCommand(mid, end)
	return batchCmd
}

// runner delivers reports to stdout and records outcomes under logs/.
func (a *app) runner(cmd *cobra.Command) *batch.Runner {
	return batch.NewRunner(a.store, a.composer(), batch.WriterNotifier{W: cmd.OutOrStdout()}, a.root, a.logger)
}

func (a *app) finishBatch(cmd *cobra.Command, sum batch.Summary) {
	a.record(fmt.Sprintf("batch: %s %s", sum.Job, sum.RunID))
	fmt.Fprintf(cmd.OutOrStdout(), "%s run %s: %d sent, %d skipped, %d failed\n",
		sum.Job, sum.RunID, sum.OK, sum.Skipped, sum.Failed)
}
