package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/keiri-dev/keiri/internal/store"
	"github.com/keiri-dev/keiri/internal/tax"
)

// NoDataText is returned by the text reports for an unknown owner.
const NoDataText = "ユーザーが見つかりません"

// ErrInvalidQuarter is returned for a quarter outside 1-4.
var ErrInvalidQuarter = errors.New("無効な四半期です")

const (
	rule       = "━━━━━━━━━━━━━━━━━━"
	annualised = 4
)

func section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "━━━━━━ %s ━━━━━━\n\n", title)
}

func margin(m float64) string {
	return fmt.Sprintf("%.1f%%", m)
}

// MidMonth summarises the current month so far, with the three largest
// expenses.
func (c *Composer) MidMonth(ctx context.Context, owner string) (string, error) {
	today := c.now().In(c.loc)
	pl, err := c.ProfitAndLoss(ctx, owner, today.Year(), int(today.Month()))
	if err != nil {
		return "", err
	}
	if pl.NoData {
		return NoDataText, nil
	}

	top := sortedExpenses(pl.Expenses)
	if len(top) > 3 {
		top = top[:3]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "【月中レポート %s】\n\n", today.Format("2006年01月02日"))
	b.WriteString("■ 売上状況\n")
	fmt.Fprintf(&b, "確定売上: %s\n\n", Yen(pl.Sales))
	b.WriteString("■ 経費状況\n")
	fmt.Fprintf(&b, "今月累計: %s\n", Yen(pl.TotalExpenses))
	b.WriteString("主な経費:\n")
	for _, e := range top {
		fmt.Fprintf(&b, "  ・%s: %s\n", e.Account, Yen(e.Amount))
	}
	b.WriteString("\n■ 収支\n")
	fmt.Fprintf(&b, "売上総利益: %s\n", Yen(pl.GrossProfit))
	fmt.Fprintf(&b, "営業利益: %s\n", Yen(pl.OperatingProfit))
	fmt.Fprintf(&b, "利益率: %s\n\n", margin(pl.ProfitMargin))
	b.WriteString("※月末までの見込みに注意して経営判断を行ってください\n")
	return b.String(), nil
}

// MonthEnd is the closing summary for a month, expenses largest first.
func (c *Composer) MonthEnd(ctx context.Context, owner string, year, month int) (string, error) {
	pl, err := c.ProfitAndLoss(ctx, owner, year, month)
	if err != nil {
		return "", err
	}
	if pl.NoData {
		return NoDataText, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "【月次決算レポート %s】\n\n", pl.Period)

	section(&b, "損益サマリー")
	fmt.Fprintf(&b, "売上高: %s\n", Yen(pl.Sales))
	fmt.Fprintf(&b, "売上原価: %s\n", Yen(pl.CostOfSales))
	fmt.Fprintf(&b, "売上総利益: %s\n\n", Yen(pl.GrossProfit))

	section(&b, "経費内訳")
	expenses := sortedExpenses(pl.Expenses)
	if len(expenses) == 0 {
		b.WriteString("  なし\n")
	}
	for _, e := range expenses {
		fmt.Fprintf(&b, "  %s: %s\n", e.Account, Yen(e.Amount))
	}
	fmt.Fprintf(&b, "\n経費合計: %s\n\n", Yen(pl.TotalExpenses))

	section(&b, "利益")
	fmt.Fprintf(&b, "営業利益: %s\n", Yen(pl.OperatingProfit))
	fmt.Fprintf(&b, "利益率: %s\n\n", margin(pl.ProfitMargin))
	b.WriteString(rule + "\n")
	return b.String(), nil
}

type monthFigures struct {
	month    int
	sales    decimal.Decimal
	cost     decimal.Decimal
	expenses decimal.Decimal
	profit   decimal.Decimal
}

// months runs the P&L for each month and sums the results. ok is false when
// the owner is unknown.
func (c *Composer) months(ctx context.Context, owner string, year int, months []int) ([]monthFigures, monthFigures, bool, error) {
	var (
		rows  []monthFigures
		total monthFigures
	)
	for _, m := range months {
		pl, err := c.ProfitAndLoss(ctx, owner, year, m)
		if err != nil {
			return nil, total, false, err
		}
		if pl.NoData {
			return nil, total, false, nil
		}
		row := monthFigures{
			month:    m,
			sales:    pl.Sales,
			cost:     pl.CostOfSales,
			expenses: pl.TotalExpenses,
			profit:   pl.OperatingProfit,
		}
		rows = append(rows, row)
		total.sales = total.sales.Add(row.sales)
		total.cost = total.cost.Add(row.cost)
		total.expenses = total.expenses.Add(row.expenses)
		total.profit = total.profit.Add(row.profit)
	}
	return rows, total, true, nil
}

// filing returns the flags that pick the blue-return cap. Both are assumed
// when no owner profile is available.
func (c *Composer) filing(ctx context.Context, owner string) (eFiling, doubleEntry bool, err error) {
	if c.owners == nil {
		return true, true, nil
	}
	o, err := c.owners.GetOwner(ctx, owner)
	if errors.Is(err, store.ErrNotFound) {
		return true, true, nil
	}
	if err != nil {
		return false, false, err
	}
	return o.EFiling, o.DoubleEntry, nil
}

func writeEstimate(b *strings.Builder, est tax.AnnualEstimate) {
	fmt.Fprintf(b, "所得税: %s\n", Yen(est.IncomeTax))
	fmt.Fprintf(b, "住民税: %s\n", Yen(est.ResidentTax))
	fmt.Fprintf(b, "事業税: %s\n", Yen(est.BusinessTax))
	fmt.Fprintf(b, "合計: %s\n\n", Yen(est.GrandTotal))
}

// Quarterly summarises quarter q (1-4) with a month-by-month trend and a
// tax estimate on the quarter's figures annualised.
func (c *Composer) Quarterly(ctx context.Context, owner string, year, quarter int) (string, error) {
	if quarter < 1 || quarter > 4 {
		return "", ErrInvalidQuarter
	}
	first := (quarter-1)*3 + 1
	rows, total, ok, err := c.months(ctx, owner, year, []int{first, first + 1, first + 2})
	if err != nil {
		return "", err
	}
	if !ok {
		return NoDataText, nil
	}

	eFiling, doubleEntry, err := c.filing(ctx, owner)
	if err != nil {
		return "", err
	}
	n := decimal.NewFromInt(annualised)
	est := c.calc.EstimateAnnualTax(total.sales.Mul(n), total.cost.Add(total.expenses).Mul(n), eFiling, doubleEntry)

	var b strings.Builder
	fmt.Fprintf(&b, "【第%d四半期レポート %d年】\n\n", quarter, year)

	section(&b, "四半期サマリー")
	fmt.Fprintf(&b, "売上高合計: %s\n", Yen(total.sales))
	fmt.Fprintf(&b, "経費合計: %s\n", Yen(total.cost.Add(total.expenses)))
	fmt.Fprintf(&b, "四半期利益: %s\n\n", Yen(total.profit))

	section(&b, "月別推移")
	for _, r := range rows {
		fmt.Fprintf(&b, "  %d-%02d: 売上 %s / 利益 %s\n", year, r.month, Yen(r.sales), Yen(r.profit))
	}
	b.WriteString("\n")

	section(&b, "税金概算（年換算）")
	writeEstimate(&b, est)
	b.WriteString(rule + "\n")
	return b.String(), nil
}

// Annual is the year-end summary with a tax estimate.
func (c *Composer) Annual(ctx context.Context, owner string, year int) (string, error) {
	_, total, ok, err := c.months(ctx, owner, year, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})
	if err != nil {
		return "", err
	}
	if !ok {
		return NoDataText, nil
	}

	eFiling, doubleEntry, err := c.filing(ctx, owner)
	if err != nil {
		return "", err
	}
	costs := total.cost.Add(total.expenses)
	est := c.calc.EstimateAnnualTax(total.sales, costs, eFiling, doubleEntry)

	var b strings.Builder
	fmt.Fprintf(&b, "【年次決算レポート %d年】\n\n", year)

	section(&b, "年間損益サマリー")
	fmt.Fprintf(&b, "売上高: %s\n", Yen(total.sales))
	fmt.Fprintf(&b, "売上原価: %s\n", Yen(total.cost))
	fmt.Fprintf(&b, "経費: %s\n", Yen(total.expenses))
	fmt.Fprintf(&b, "事業所得: %s\n\n", Yen(total.sales.Sub(costs)))

	section(&b, "税金概算")
	writeEstimate(&b, est)
	b.WriteString("※確定申告時に正確な税額を計算してください\n\n")
	b.WriteString(rule + "\n")
	return b.String(), nil
}

// sortedExpenses returns a copy ordered by amount, largest first.
func sortedExpenses(es []ExpenseLine) []ExpenseLine {
	out := append([]ExpenseLine(nil), es...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount.GreaterThan(out[j].Amount) })
	return out
}
