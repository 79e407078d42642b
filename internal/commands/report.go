package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/keiri-dev/keiri/internal/ledger"
	"github.com/keiri-dev/keiri/internal/report"
)

func parseDate(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

// period holds the --year/--month flags. Zero means the current one.
type period struct {
	year  int
	month int
}

func (p *period) register(cmd *cobra.Command, withMonth bool) {
	cmd.Flags().IntVar(&p.year, "year", 0, "year (default: current)")
	if withMonth {
		cmd.Flags().IntVar(&p.month, "month", 0, "month 1-12 (default: current)")
	}
}

func (p period) resolve(today time.Time) (int, int, error) {
	year, month := p.year, p.month
	if year == 0 {
		year = today.Year()
	}
	if month == 0 {
		month = int(today.Month())
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month %d", month)
	}
	return year, month, nil
}

// renderFunc produces a report body for one owner.
type renderFunc func(ctx context.Context, a *app, owner string, args []string) (string, error)

func reportCommand(g *globals, use, short string, render renderFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), g, func(a *app) error {
				owner, err := a.ownerRef(g)
				if err != nil {
					return err
				}
				text, err := render(cmd.Context(), a, owner, args)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}
}

func newReportCommand(g *globals) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Books and statements",
	}

	var asOf string
	tb := reportCommand(g, "trial-balance", "Trial balance as of a date", func(ctx context.Context, a *app, owner string, _ []string) (string, error) {
		d, err := parseDate(asOf, a.today())
		if err != nil {
			return "", err
		}
		t, err := a.aggregator().TrialBalance(ctx, owner, d)
		if err != nil {
			return "", err
		}
		return report.FormatTrialBalance(t), nil
	})
	tb.Flags().StringVar(&asOf, "as-of", "", "date, YYYY-MM-DD (default: today)")

	var cbPeriod period
	cb := reportCommand(g, "cash-book", "Monthly cash book", func(ctx context.Context, a *app, owner string, _ []string) (string, error) {
		y, m, err := cbPeriod.resolve(a.today())
		if err != nil {
			return "", err
		}
		book, err := a.aggregator().CashBook(ctx, owner, y, m)
		if err != nil {
			return "", err
		}
		return report.FormatCashBook(book), nil
	})
	cbPeriod.register(cb, true)

	var glStart, glEnd string
	gl := reportCommand(g, "ledger <account>", "General ledger for one account", func(ctx context.Context, a *app, owner string, args []string) (string, error) {
		today := a.today()
		first, _ := ledger.MonthRange(today.Year(), int(today.Month()))
		from, err := parseDate(glStart, first)
		if err != nil {
			return "", err
		}
		to, err := parseDate(glEnd, today)
		if err != nil {
			return "", err
		}
		l, err := a.aggregator().GeneralLedger(ctx, owner, args[0], from, to)
		if err != nil {
			return "", err
		}
		return report.FormatGeneralLedger(l), nil
	})
	gl.Args = cobra.ExactArgs(1)
	gl.Flags().StringVar(&glStart, "start", "", "first date, YYYY-MM-DD (default: start of month)")
	gl.Flags().StringVar(&glEnd, "end", "", "last date, YYYY-MM-DD (default: today)")

	var exPeriod period
	ex := reportCommand(g, "expenses", "Monthly expense summary", func(ctx context.Context, a *app, owner string, _ []string) (string, error) {
		y, m, err := exPeriod.resolve(a.today())
		if err != nil {
			return "", err
		}
		s, err := a.aggregator().ExpenseSummary(ctx, owner, y, m)
		if err != nil {
			return "", err
		}
		return report.FormatExpenseSummary(s), nil
	})
	exPeriod.register(ex, true)

	var plPeriod period
	pl := reportCommand(g, "profit-loss", "Monthly profit and loss", func(ctx context.Context, a *app, owner string, _ []string) (string, error) {
		y, m, err := plPeriod.resolve(a.today())
		if err != nil {
			return "", err
		}
		p, err := a.composer().ProfitAndLoss(ctx, owner, y, m)
		if err != nil {
			return "", err
		}
		return report.FormatProfitAndLoss(p), nil
	})
	plPeriod.register(pl, true)

	var bsAsOf string
	bs := reportCommand(g, "balance-sheet", "Balance sheet as of a date", func(ctx context.Context, a *app, owner string, _ []string) (string, error) {
		d, err := parseDate(bsAsOf, a.today())
		if err != nil {
			return "", err
		}
		b, err := a.composer().BalanceSheet(ctx, owner, d)
		if err != nil {
			return "", err
		}
		return report.FormatBalanceSheet(b), nil
	})
	bs.Flags().StringVar(&bsAsOf, "as-of", "", "date, YYYY-MM-DD (default: today)")

	mid := reportCommand(g, "mid-month", "Mid-month progress report", func(ctx context.Context, a *app, owner string, _ []string) (string, error) {
		return a.composer().MidMonth(ctx, owner)
	})

	var mePeriod period
	me := reportCommand(g, "month-end", "Month-end closing report", func(ctx context.Context, a *app, owner string, _ []string) (string, error) {
		y, m, err := mePeriod.resolve(a.today())
		if err != nil {
			return "", err
		}
		return a.composer().MonthEnd(ctx, owner, y, m)
	})
	mePeriod.register(me, true)

	var qPeriod period
	var quarter int
	qr := reportCommand(g, "quarterly", "Quarterly report with an annualised tax estimate", func(ctx context.Context, a *app, owner string, _ []string) (string, error) {
		y, m, err := qPeriod.resolve(a.today())
		if err != nil {
			return "", err
		}
		q := quarter
		if q == 0 {
			q = (m-1)/3 + 1
		}
		return a.composer().Quarterly(ctx, owner, y, q)
	})
	qPeriod.register(qr, false)
	qr.Flags().IntVar(&quarter, "quarter", 0, "quarter 1-4 (default: current)")

	var anPeriod period
	an := reportCommand(g, "annual", "Annual report with a tax estimate", func(ctx context.Context, a *app, owner string, _ []string) (string, error) {
		y, _, err := anPeriod.resolve(a.today())
		if err != nil {
			return "", err
		}
		return a.composer().Annual(ctx, owner, y)
	})
	anPeriod.register(an, false)

	reportCmd.AddCommand(tb, cb, gl, ex, pl, bs, mid, me, qr, an)
	return reportCmd
}
