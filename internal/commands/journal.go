package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/keiri-dev/keiri/internal/importer"
	"github.com/keiri-dev/keiri/internal/journal"
	"github.com/keiri-dev/keiri/internal/ledger"
	"github.com/keiri-dev/keiri/internal/model"
	"github.com/keiri-dev/keiri/internal/report"
)

func newJournalCommand(g *globals) *cobra.Command {
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Record and inspect journal entries",
	}
	journalCmd.AddCommand(
		newJournalAddCommand(g),
		newJournalListCommand(g),
		newJournalDeleteCommand(g),
		newJournalImportCommand(g),
	)
	return journalCmd
}

func newJournalAddCommand(g *globals) *cobra.Command {
	var d model.Draft
	var amount string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a journal entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q", amount)
			}
			d.Amount = decimal.NewNullDecimal(amt)
			d.Source = "cli"

			return withApp(cmd.Context(), g, func(a *app) error {
				owner, err := a.ownerRef(g)
				if err != nil {
					return err
				}
				e, err := a.builder().Build(cmd.Context(), d, owner)
				var verr *journal.ValidationError
				if errors.As(err, &verr) {
					for _, v := range verr.Violations {
						fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", v)
					}
				}
				if err != nil {
					return err
				}
				a.record(fmt.Sprintf("journal: add %s", e.ID))
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s: %s %s / %s %s\n",
					e.ID, e.Date.Format("2006-01-02"), e.DebitAccount, e.CreditAccount, report.Yen(e.DebitAmount))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&d.Date, "date", "", "entry date, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&amount, "amount", "", "tax-inclusive amount (required)")
	cmd.Flags().StringVar(&d.DebitAccount, "debit", "", "debit account (required)")
	cmd.Flags().StringVar(&d.CreditAccount, "credit", "", "credit account (required)")
	cmd.Flags().StringVar(&d.Description, "description", "", "description")
	cmd.Flags().StringVar(&d.TaxType, "tax-type", "", "tax class, e.g. 課税10% or exempt")
	cmd.Flags().StringVar(&d.Client, "client", "", "client name")
	cmd.Flags().StringVar(&d.Project, "project", "", "project name")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("debit")
	_ = cmd.MarkFlagRequired("credit")

	return cmd
}

func newJournalListCommand(g *globals) *cobra.Command {
	var start, end string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show journal entries for a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), g, func(a *app) error {
				owner, err := a.ownerRef(g)
				if err != nil {
					return err
				}
				today := a.today()
				first, last := ledger.MonthRange(today.Year(), int(today.Month()))
				from, err := parseDate(start, first)
				if err != nil {
					return err
				}
				to, err := parseDate(end, last)
				if err != nil {
					return err
				}

				j, err := a.aggregator().Journal(cmd.Context(), owner, from, to)
				if err != nil {
					return err
				}
				if limit == 0 {
					limit = a.cfg.Report.JournalLimit
				}
				fmt.Fprint(cmd.OutOrStdout(), report.FormatJournal(j, limit))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first date, YYYY-MM-DD (default: start of month)")
	cmd.Flags().StringVar(&end, "end", "", "last date, YYYY-MM-DD (default: end of month)")
	cmd.Flags().IntVar(&limit, "limit", 0, "entries to show (default: report.journal_limit)")

	return cmd
}

func newJournalDeleteCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a journal entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), g, func(a *app) error {
				owner, err := a.ownerRef(g)
				if err != nil {
					return err
				}
				ok, err := a.builder().Delete(cmd.Context(), args[0], owner)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("entry %s not found", args[0])
				}
				a.record(fmt.Sprintf("journal: delete %s", args[0]))
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newJournalImportCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Build entries from draft files in import/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), g, func(a *app) error {
				owner, err := a.ownerRef(g)
				if err != nil {
					return err
				}
				im := importer.New(importer.DefaultRegistry(), a.builder(), a.logger)
				res, err := im.Run(cmd.Context(), a.root, owner)
				if err != nil {
					return err
				}

				if len(res.Files) > 0 {
					a.record(fmt.Sprintf("journal: import %d entries", len(res.Created)))
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %d entries from %d files\n", len(res.Created), len(res.Files))
				for _, f := range res.Failures {
					if f.Row > 0 {
						fmt.Fprintf(out, "  %s row %d: %v\n", filepath.Base(f.File), f.Row, f.Err)
					} else {
						fmt.Fprintf(out, "  %s: %v\n", filepath.Base(f.File), f.Err)
					}
				}
				return nil
			})
		},
	}
}
