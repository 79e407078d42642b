// Package report composes profit-and-loss and balance-sheet statements from
// ledger totals and renders them, and the periodic summaries, as plain text.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/keiri-dev/keiri/internal/ledger"
	"github.com/keiri-dev/keiri/internal/model"
	"github.com/keiri-dev/keiri/internal/tax"
)

// Composer builds statements on top of an Aggregator.
type Composer struct {
	agg    *ledger.Aggregator
	owners OwnerGetter
	calc   tax.Calculator
	loc    *time.Location
	now    func() time.Time
}

// OwnerGetter looks up an owner's filing profile.
type OwnerGetter interface {
	GetOwner(ctx context.Context, ref string) (model.Owner, error)
}

// Option configures a Composer.
type Option func(*Composer)

// WithLocation sets the calendar used for "today" in the mid-month report.
func WithLocation(loc *time.Location) Option {
	return func(c *Composer) { c.loc = loc }
}

// WithOwners makes the tax estimates follow each owner's e-filing and
// double-entry flags. Without it both are assumed.
func WithOwners(g OwnerGetter) Option {
	return func(c *Composer) { c.owners = g }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

func NewComposer(agg *ledger.Aggregator, opts ...Option) *Composer {
	c := &Composer{agg: agg, loc: time.Local, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ExpenseLine is a non-zero expense on the P&L.
type ExpenseLine struct {
	Account string          `json:"account"`
	Amount  decimal.Decimal `json:"amount"`
}

// ProfitAndLoss is a one-month income statement. ProfitMargin is a
// percentage rounded to two places.
type ProfitAndLoss struct {
	NoData          bool            `json:"no_data,omitempty"`
	Period          string          `json:"period"`
	Start           time.Time       `json:"start"`
	End             time.Time       `json:"end"`
	Sales           decimal.Decimal `json:"sales"`
	CostOfSales     decimal.Decimal `json:"cost_of_sales"`
	GrossProfit     decimal.Decimal `json:"gross_profit"`
	Expenses        []ExpenseLine   `json:"expenses"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	OperatingProfit decimal.Decimal `json:"operating_profit"`
	ProfitMargin    float64         `json:"profit_margin"`
}

var hundred = decimal.NewFromInt(100)

func (c *Composer) ProfitAndLoss(ctx context.Context, owner string, year, month int) (ProfitAndLoss, error) {
	start, end := ledger.MonthRange(year, month)
	pl := ProfitAndLoss{Period: fmt.Sprintf("%04d-%02d", year, month), Start: start, End: end}

	totals, err := c.agg.Totals(ctx, owner, start, end)
	if err != nil {
		return pl, err
	}
	if totals.NoData {
		pl.NoData = true
		return pl, nil
	}

	d := c.agg.Accounts()
	pl.Sales = totals.CreditOf(d.Revenue)
	pl.CostOfSales = totals.DebitOf(d.CostOfSales)
	for _, acct := range d.ProfitLossExpenses {
		amt := totals.DebitOf(acct)
		if amt.IsPositive() {
			pl.Expenses = append(pl.Expenses, ExpenseLine{Account: acct, Amount: amt})
			pl.TotalExpenses = pl.TotalExpenses.Add(amt)
		}
	}
	pl.GrossProfit = pl.Sales.Sub(pl.CostOfSales)
	pl.OperatingProfit = pl.GrossProfit.Sub(pl.TotalExpenses)
	if pl.Sales.IsPositive() {
		pl.ProfitMargin = pl.OperatingProfit.Div(pl.Sales).Mul(hundred).Round(2).InexactFloat64()
	}
	return pl, nil
}

// Balance is one account line on the balance sheet.
type Balance struct {
	Account string          `json:"account"`
	Amount  decimal.Decimal `json:"amount"`
}

// BalanceSheet groups non-zero balances as of a date.
type BalanceSheet struct {
	NoData                     bool            `json:"no_data,omitempty"`
	AsOf                       time.Time       `json:"as_of"`
	Assets                     []Balance       `json:"assets"`
	TotalAssets                decimal.Decimal `json:"total_assets"`
	Liabilities                []Balance       `json:"liabilities"`
	TotalLiabilities           decimal.Decimal `json:"total_liabilities"`
	Capital                    []Balance       `json:"capital"`
	TotalCapital               decimal.Decimal `json:"total_capital"`
	TotalLiabilitiesAndCapital decimal.Decimal `json:"total_liabilities_and_capital"`
}

// BalanceSheet nets assets and owner drawings debit-minus-credit, and other
// liabilities and capital credit-minus-debit. Owner drawings reduce the
// capital total.
func (c *Composer) BalanceSheet(ctx context.Context, owner string, asOf time.Time) (BalanceSheet, error) {
	bs := BalanceSheet{AsOf: asOf}
	totals, err := c.agg.Totals(ctx, owner, time.Time{}, asOf)
	if err != nil {
		return bs, err
	}
	if totals.NoData {
		bs.NoData = true
		return bs, nil
	}

	debitNet := func(a string) decimal.Decimal { return totals.DebitOf(a).Sub(totals.CreditOf(a)) }
	creditNet := func(a string) decimal.Decimal { return totals.CreditOf(a).Sub(totals.DebitOf(a)) }

	d := c.agg.Accounts()
	for _, a := range d.Assets {
		if b := debitNet(a); !b.IsZero() {
			bs.Assets = append(bs.Assets, Balance{a, b})
			bs.TotalAssets = bs.TotalAssets.Add(b)
		}
	}
	for _, a := range d.Liabilities {
		if b := creditNet(a); !b.IsZero() {
			bs.Liabilities = append(bs.Liabilities, Balance{a, b})
			bs.TotalLiabilities = bs.TotalLiabilities.Add(b)
		}
	}
	for _, a := range d.Capital {
		if a == d.OwnerDrawings {
			if b := debitNet(a); !b.IsZero() {
				bs.Capital = append(bs.Capital, Balance{a, b})
				bs.TotalCapital = bs.TotalCapital.Sub(b)
			}
			continue
		}
		if b := creditNet(a); !b.IsZero() {
			bs.Capital = append(bs.Capital, Balance{a, b})
			bs.TotalCapital = bs.TotalCapital.Add(b)
		}
	}
	bs.TotalLiabilitiesAndCapital = bs.TotalLiabilities.Add(bs.TotalCapital)
	return bs, nil
}
