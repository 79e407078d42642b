// Package ledger folds an owner's journal into trial balances, cash books,
// general ledgers and expense summaries. Every result is recomputed from the
// store on each call.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/keiri-dev/keiri/internal/accounts"
	"github.com/keiri-dev/keiri/internal/model"
	"github.com/keiri-dev/keiri/internal/store"
)

// Aggregator reads through a store.Query. It holds no mutable state.
type Aggregator struct {
	q        store.Query
	accounts accounts.Designation
	logger   *slog.Logger
}

// NewAggregator returns an Aggregator. A nil logger means slog.Default().
func NewAggregator(q store.Query, d accounts.Designation, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{q: q, accounts: d.WithDefaults(), logger: logger}
}

// Accounts returns the designation the aggregator keys on.
func (a *Aggregator) Accounts() accounts.Designation { return a.accounts }

// MonthRange returns the first and last day of a calendar month.
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// entries returns nil, false when the owner is unknown.
func (a *Aggregator) entries(ctx context.Context, owner string, f store.Filter) ([]model.Entry, bool, error) {
	ok, err := a.q.FindOwner(ctx, owner)
	if err != nil {
		return nil, false, fmt.Errorf("finding owner: %w", err)
	}
	if !ok {
		a.logger.Debug("no data for owner", "owner", owner)
		return nil, false, nil
	}
	es, err := a.q.TransactionsFor(ctx, owner, f)
	if err != nil {
		return nil, false, fmt.Errorf("querying transactions: %w", err)
	}
	return es, true, nil
}

// Journal is the owner's entries in a date range.
type Journal struct {
	NoData  bool          `json:"no_data,omitempty"`
	Start   time.Time     `json:"start"`
	End     time.Time     `json:"end"`
	Entries []model.Entry `json:"entries"`
}

func (a *Aggregator) Journal(ctx context.Context, owner string, start, end time.Time) (Journal, error) {
	j := Journal{Start: start, End: end}
	es, ok, err := a.entries(ctx, owner, store.Filter{Start: start, End: end})
	if err != nil {
		return j, err
	}
	j.NoData = !ok
	j.Entries = es
	return j, nil
}

// Totals holds per-account debit and credit sums over a range.
type Totals struct {
	NoData bool
	Debit  map[string]decimal.Decimal
	Credit map[string]decimal.Decimal
}

// DebitOf returns the debit sum for account, zero when absent.
func (t Totals) DebitOf(account string) decimal.Decimal { return t.Debit[account] }

// CreditOf returns the credit sum for account, zero when absent.
func (t Totals) CreditOf(account string) decimal.Decimal { return t.Credit[account] }

// Totals sums every debit and credit leg in [start, end]. A zero start is
// unbounded.
func (a *Aggregator) Totals(ctx context.Context, owner string, start, end time.Time) (Totals, error) {
	t := Totals{
		Debit:  make(map[string]decimal.Decimal),
		Credit: make(map[string]decimal.Decimal),
	}
	es, ok, err := a.entries(ctx, owner, store.Filter{Start: start, End: end})
	if err != nil {
		return t, err
	}
	t.NoData = !ok
	for _, e := range es {
		t.Debit[e.DebitAccount] = t.Debit[e.DebitAccount].Add(e.DebitAmount)
		t.Credit[e.CreditAccount] = t.Credit[e.CreditAccount].Add(e.CreditAmount)
	}
	return t, nil
}

// TrialBalanceRow is one account line. At most one of the balances is
// non-zero.
type TrialBalanceRow struct {
	Account       string          `json:"account"`
	DebitTotal    decimal.Decimal `json:"debit_total"`
	CreditTotal   decimal.Decimal `json:"credit_total"`
	DebitBalance  decimal.Decimal `json:"debit_balance"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
}

// TrialBalance lists every account touched up to AsOf, sorted by name.
type TrialBalance struct {
	NoData bool              `json:"no_data,omitempty"`
	AsOf   time.Time         `json:"as_of"`
	Rows   []TrialBalanceRow `json:"rows"`
	Total  TrialBalanceRow   `json:"total"`
}

// TotalLabel is the account name of the synthetic total row.
const TotalLabel = "【合計】"

// TrialBalance computes balances up to and including asOf. Debit and credit
// totals that disagree produce an IntegrityError.
func (a *Aggregator) TrialBalance(ctx context.Context, owner string, asOf time.Time) (TrialBalance, error) {
	tb := TrialBalance{AsOf: asOf, Total: TrialBalanceRow{Account: TotalLabel}}
	totals, err := a.Totals(ctx, owner, time.Time{}, asOf)
	if err != nil {
		return tb, err
	}
	if totals.NoData {
		tb.NoData = true
		return tb, nil
	}

	names := make(map[string]struct{}, len(totals.Debit)+len(totals.Credit))
	for n := range totals.Debit {
		names[n] = struct{}{}
	}
	for n := range totals.Credit {
		names[n] = struct{}{}
	}

	for n := range names {
		row := TrialBalanceRow{
			Account:     n,
			DebitTotal:  totals.DebitOf(n),
			CreditTotal: totals.CreditOf(n),
		}
		net := row.DebitTotal.Sub(row.CreditTotal)
		switch net.Sign() {
		case 1:
			row.DebitBalance = net
		case -1:
			row.CreditBalance = net.Neg()
		}
		tb.Rows = append(tb.Rows, row)

		tb.Total.DebitTotal = tb.Total.DebitTotal.Add(row.DebitTotal)
		tb.Total.CreditTotal = tb.Total.CreditTotal.Add(row.CreditTotal)
		tb.Total.DebitBalance = tb.Total.DebitBalance.Add(row.DebitBalance)
		tb.Total.CreditBalance = tb.Total.CreditBalance.Add(row.CreditBalance)
	}
	sort.Slice(tb.Rows, func(i, j int) bool { return tb.Rows[i].Account < tb.Rows[j].Account })

	if !tb.Total.DebitTotal.Equal(tb.Total.CreditTotal) {
		ierr := &IntegrityError{
			Owner:       owner,
			AsOf:        asOf,
			DebitTotal:  tb.Total.DebitTotal,
			CreditTotal: tb.Total.CreditTotal,
		}
		a.logger.Error("trial balance does not close",
			"owner", owner,
			"as_of", asOf.Format(time.DateOnly),
			"debit_total", ierr.DebitTotal.String(),
			"credit_total", ierr.CreditTotal.String(),
		)
		return tb, ierr
	}
	return tb, nil
}

// LedgerLine is one posting against a single account.
type LedgerLine struct {
	EntryID     string          `json:"entry_id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Counterpart string          `json:"counterpart"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// GeneralLedger is the running balance of one account over a range. There
// is no opening balance carried in from earlier periods.
type GeneralLedger struct {
	NoData  bool         `json:"no_data,omitempty"`
	Account string       `json:"account"`
	Start   time.Time    `json:"start"`
	End     time.Time    `json:"end"`
	Lines   []LedgerLine `json:"lines"`
}

func (a *Aggregator) GeneralLedger(ctx context.Context, owner, account string, start, end time.Time) (GeneralLedger, error) {
	gl := GeneralLedger{Account: account, Start: start, End: end}
	es, ok, err := a.entries(ctx, owner, store.Filter{Start: start, End: end, Account: account})
	if err != nil {
		return gl, err
	}
	gl.NoData = !ok
	gl.Lines = runningBalance(es, account)
	return gl, nil
}

// runningBalance posts each entry against account in order. A debit to
// account increases the balance, a credit decreases it.
func runningBalance(es []model.Entry, account string) []LedgerLine {
	var (
		lines   []LedgerLine
		balance decimal.Decimal
	)
	for _, e := range es {
		l := LedgerLine{EntryID: e.ID, Date: e.Date, Description: e.Description}
		if e.DebitAccount == account {
			l.Debit = e.DebitAmount
			l.Counterpart = e.CreditAccount
			balance = balance.Add(e.DebitAmount)
		} else {
			l.Credit = e.CreditAmount
			l.Counterpart = e.DebitAccount
			balance = balance.Sub(e.CreditAmount)
		}
		l.Balance = balance
		lines = append(lines, l)
	}
	return lines
}

// CashBookLine is one cash movement. Receipt is money in, Payment money out.
type CashBookLine struct {
	EntryID     string          `json:"entry_id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Counterpart string          `json:"counterpart"`
	Receipt     decimal.Decimal `json:"receipt"`
	Payment     decimal.Decimal `json:"payment"`
	Balance     decimal.Decimal `json:"balance"`
}

// CashBook lists the month's cash movements starting from a zero balance.
type CashBook struct {
	NoData  bool           `json:"no_data,omitempty"`
	Account string         `json:"account"`
	Year    int            `json:"year"`
	Month   int            `json:"month"`
	Lines   []CashBookLine `json:"lines"`
}

func (a *Aggregator) CashBook(ctx context.Context, owner string, year, month int) (CashBook, error) {
	cash := a.accounts.Cash
	start, end := MonthRange(year, month)
	cb := CashBook{Account: cash, Year: year, Month: month}
	es, ok, err := a.entries(ctx, owner, store.Filter{Start: start, End: end, Account: cash})
	if err != nil {
		return cb, err
	}
	cb.NoData = !ok
	for _, l := range runningBalance(es, cash) {
		cb.Lines = append(cb.Lines, CashBookLine{
			EntryID:     l.EntryID,
			Date:        l.Date,
			Description: l.Description,
			Counterpart: l.Counterpart,
			Receipt:     l.Debit,
			Payment:     l.Credit,
			Balance:     l.Balance,
		})
	}
	return cb, nil
}

// ExpenseItem is the month's debit total for one expense account.
type ExpenseItem struct {
	Account string          `json:"account"`
	Amount  decimal.Decimal `json:"amount"`
}

// ExpenseSummary always lists every designated expense account, in order,
// including those with no activity.
type ExpenseSummary struct {
	NoData bool            `json:"no_data,omitempty"`
	Year   int             `json:"year"`
	Month  int             `json:"month"`
	Items  []ExpenseItem   `json:"items"`
	Total  decimal.Decimal `json:"total"`
}

func (a *Aggregator) ExpenseSummary(ctx context.Context, owner string, year, month int) (ExpenseSummary, error) {
	start, end := MonthRange(year, month)
	s := ExpenseSummary{Year: year, Month: month}
	totals, err := a.Totals(ctx, owner, start, end)
	if err != nil {
		return s, err
	}
	if totals.NoData {
		s.NoData = true
		return s, nil
	}
	for _, acct := range a.accounts.ExpenseSummary {
		amt := totals.DebitOf(acct)
		s.Items = append(s.Items, ExpenseItem{Account: acct, Amount: amt})
		s.Total = s.Total.Add(amt)
	}
	return s, nil
}
