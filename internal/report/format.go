package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/keiri-dev/keiri/internal/ledger"
)

// DefaultJournalLimit is the number of entries FormatJournal prints.
const DefaultJournalLimit = 10

var printer = message.NewPrinter(language.Japanese)

// Yen formats d rounded to whole yen with thousands separators.
func Yen(d decimal.Decimal) string {
	return printer.Sprintf("%d円", d.Round(0).IntPart())
}

func date(t time.Time) string { return t.Format(time.DateOnly) }

// FormatJournal renders at most limit entries; limit <= 0 uses
// DefaultJournalLimit.
func FormatJournal(j ledger.Journal, limit int) string {
	if j.NoData {
		return NoDataText
	}
	if len(j.Entries) == 0 {
		return "取引データがありません。"
	}
	if limit <= 0 {
		limit = DefaultJournalLimit
	}

	var b strings.Builder
	b.WriteString("【仕訳帳】\n\n")
	for i, e := range j.Entries {
		if i == limit {
			break
		}
		fmt.Fprintf(&b, "%s\n", date(e.Date))
		fmt.Fprintf(&b, "  %s %s\n", e.DebitAccount, Yen(e.DebitAmount))
		fmt.Fprintf(&b, "  　/ %s %s\n", e.CreditAccount, Yen(e.CreditAmount))
		fmt.Fprintf(&b, "  摘要: %s\n\n", e.Description)
	}
	if n := len(j.Entries) - limit; n > 0 {
		fmt.Fprintf(&b, "...他%d件\n", n)
	}
	return b.String()
}

// FormatTrialBalance lists accounts with a non-zero balance.
func FormatTrialBalance(tb ledger.TrialBalance) string {
	if tb.NoData {
		return NoDataText
	}
	if len(tb.Rows) == 0 {
		return "データがありません。"
	}

	var b strings.Builder
	b.WriteString("【残高試算表】\n\n")
	b.WriteString("科目 | 借方 | 貸方\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	for _, r := range tb.Rows {
		if r.DebitBalance.IsZero() && r.CreditBalance.IsZero() {
			continue
		}
		fmt.Fprintf(&b, "%s: 借方 %s / 貸方 %s\n", r.Account, Yen(r.DebitBalance), Yen(r.CreditBalance))
	}
	fmt.Fprintf(&b, "%s: 借方 %s / 貸方 %s\n", tb.Total.Account, Yen(tb.Total.DebitBalance), Yen(tb.Total.CreditBalance))
	return b.String()
}

// FormatCashBook renders the month's cash movements.
func FormatCashBook(cb ledger.CashBook) string {
	if cb.NoData {
		return NoDataText
	}
	if len(cb.Lines) == 0 {
		return "取引データがありません。"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "【現金出納帳 %04d-%02d】\n\n", cb.Year, cb.Month)
	for _, l := range cb.Lines {
		fmt.Fprintf(&b, "%s %s (%s) 収入 %s / 支出 %s / 残高 %s\n",
			date(l.Date), l.Description, l.Counterpart, Yen(l.Receipt), Yen(l.Payment), Yen(l.Balance))
	}
	return b.String()
}

// FormatGeneralLedger renders one account's postings.
func FormatGeneralLedger(gl ledger.GeneralLedger) string {
	if gl.NoData {
		return NoDataText
	}
	if len(gl.Lines) == 0 {
		return "取引データがありません。"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "【総勘定元帳 %s】\n\n", gl.Account)
	for _, l := range gl.Lines {
		fmt.Fprintf(&b, "%s %s (%s) 借方 %s / 貸方 %s / 残高 %s\n",
			date(l.Date), l.Description, l.Counterpart, Yen(l.Debit), Yen(l.Credit), Yen(l.Balance))
	}
	return b.String()
}

// FormatExpenseSummary lists every expense account and the total.
func FormatExpenseSummary(s ledger.ExpenseSummary) string {
	if s.NoData {
		return NoDataText
	}
	var b strings.Builder
	fmt.Fprintf(&b, "【経費集計 %04d-%02d】\n\n", s.Year, s.Month)
	for _, it := range s.Items {
		fmt.Fprintf(&b, "%s: %s\n", it.Account, Yen(it.Amount))
	}
	fmt.Fprintf(&b, "合計: %s\n", Yen(s.Total))
	return b.String()
}

// FormatProfitAndLoss renders a monthly income statement.
func FormatProfitAndLoss(pl ProfitAndLoss) string {
	if pl.NoData {
		return NoDataText
	}
	var b strings.Builder
	fmt.Fprintf(&b, "【損益計算書 %s】\n\n", pl.Period)
	fmt.Fprintf(&b, "売上高: %s\n", Yen(pl.Sales))
	fmt.Fprintf(&b, "売上原価: %s\n", Yen(pl.CostOfSales))
	fmt.Fprintf(&b, "売上総利益: %s\n\n", Yen(pl.GrossProfit))
	b.WriteString("経費:\n")
	for _, e := range pl.Expenses {
		fmt.Fprintf(&b, "  %s: %s\n", e.Account, Yen(e.Amount))
	}
	fmt.Fprintf(&b, "経費合計: %s\n\n", Yen(pl.TotalExpenses))
	fmt.Fprintf(&b, "営業利益: %s\n", Yen(pl.OperatingProfit))
	fmt.Fprintf(&b, "利益率: %s\n", margin(pl.ProfitMargin))
	return b.String()
}

// FormatBalanceSheet renders the three groups and their totals.
func FormatBalanceSheet(bs BalanceSheet) string {
	if bs.NoData {
		return NoDataText
	}
	var b strings.Builder
	fmt.Fprintf(&b, "【貸借対照表 %s】\n\n", date(bs.AsOf))

	group := func(title string, rows []Balance, total decimal.Decimal) {
		fmt.Fprintf(&b, "■ %s\n", title)
		for _, r := range rows {
			fmt.Fprintf(&b, "  %s: %s\n", r.Account, Yen(r.Amount))
		}
		fmt.Fprintf(&b, "%s合計: %s\n\n", title, Yen(total))
	}
	group("資産", bs.Assets, bs.TotalAssets)
	group("負債", bs.Liabilities, bs.TotalLiabilities)
	group("資本", bs.Capital, bs.TotalCapital)
	fmt.Fprintf(&b, "負債・資本合計: %s\n", Yen(bs.TotalLiabilitiesAndCapital))
	return b.String()
}
