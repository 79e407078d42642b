package report

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keiri-dev/keiri/internal/accounts"
	"github.com/keiri-dev/keiri/internal/ledger"
	"github.com/keiri-dev/keiri/internal/model"
	"github.com/keiri-dev/keiri/internal/store/memory"
)

const owner = "U1"

func day(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}

var january = []struct {
	date          time.Time
	debit, credit string
	amount        string
}{
	{day(1, 1), "現金", "元入金", "1000000"},
	{day(1, 2), "普通預金", "現金", "500000"},
	{day(1, 3), "現金", "短期借入金", "100000"},
	{day(1, 5), "現金", "売上高", "200000"},
	{day(1, 6), "仕入高", "現金", "50000"},
	{day(1, 10), "地代家賃", "普通預金", "60000"},
	{day(1, 12), "通信費", "現金", "8000"},
	{day(1, 15), "消耗品費", "現金", "2000"},
	{day(1, 18), "雑費", "現金", "333"},
	{day(1, 20), "事業主貸", "現金", "30000"},
}

func newComposer(t *testing.T, opts ...Option) (*Composer, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.AddOwner(ctx, model.Owner{Ref: owner}))
	for _, sd := range january {
		_, err := s.CreateEntry(ctx, model.Entry{
			Owner:         owner,
			Date:          sd.date,
			DebitAccount:  sd.debit,
			DebitAmount:   dec(sd.amount),
			CreditAccount: sd.credit,
			CreditAmount:  dec(sd.amount),
		})
		require.NoError(t, err)
	}
	agg := ledger.NewAggregator(s, accounts.DefaultDesignation(), nil)
	return NewComposer(agg, append([]Option{WithOwners(s)}, opts...)...), s
}

func TestProfitAndLoss(t *testing.T) {
	c, _ := newComposer(t)

	pl, err := c.ProfitAndLoss(context.Background(), owner, 2025, 1)
	require.NoError(t, err)
	assert.Equal(t, "2025-01", pl.Period)
	assert.Equal(t, day(1, 31), pl.End)
	assertDec(t, "200000", pl.Sales)
	assertDec(t, "50000", pl.CostOfSales)
	assertDec(t, "150000", pl.GrossProfit)
	assertDec(t, "70333", pl.TotalExpenses)
	assertDec(t, "79667", pl.OperatingProfit)
	assert.Equal(t, 39.83, pl.ProfitMargin, "rounded, not truncated")

	var names []string
	for _, e := range pl.Expenses {
		names = append(names, e.Account)
	}
	assert.Equal(t, []string{"消耗品費", "通信費", "地代家賃", "雑費"}, names, "fixed order, zero accounts omitted")
}

func TestProfitAndLossNoSales(t *testing.T) {
	c, _ := newComposer(t)

	pl, err := c.ProfitAndLoss(context.Background(), owner, 2025, 2)
	require.NoError(t, err)
	assert.False(t, pl.NoData)
	assert.True(t, pl.Sales.IsZero())
	assert.Zero(t, pl.ProfitMargin)
	assert.Empty(t, pl.Expenses)
}

func TestBalanceSheet(t *testing.T) {
	c, _ := newComposer(t)

	bs, err := c.BalanceSheet(context.Background(), owner, day(1, 31))
	require.NoError(t, err)

	require.Len(t, bs.Assets, 2)
	assert.Equal(t, "現金", bs.Assets[0].Account)
	assertDec(t, "709667", bs.Assets[0].Amount)
	assertDec(t, "440000", bs.Assets[1].Amount)
	assertDec(t, "1149667", bs.TotalAssets)

	require.Len(t, bs.Liabilities, 1)
	assertDec(t, "100000", bs.TotalLiabilities)

	require.Len(t, bs.Capital, 2)
	assert.Equal(t, "事業主貸", bs.Capital[1].Account)
	assertDec(t, "30000", bs.Capital[1].Amount)
	assertDec(t, "970000", bs.TotalCapital, "drawings reduce capital")
	assertDec(t, "1070000", bs.TotalLiabilitiesAndCapital)

	// The gap is the period's profit, not yet closed to capital.
	assertDec(t, "79667", bs.TotalAssets.Sub(bs.TotalLiabilitiesAndCapital))
}

func TestBalanceSheetAsOfExcludesLater(t *testing.T) {
	c, _ := newComposer(t)

	bs, err := c.BalanceSheet(context.Background(), owner, day(1, 1))
	require.NoError(t, err)
	require.Len(t, bs.Assets, 1)
	assertDec(t, "1000000", bs.TotalAssets)
	assert.Empty(t, bs.Liabilities)
}

func TestUnknownOwner(t *testing.T) {
	c, _ := newComposer(t)
	ctx := context.Background()

	pl, err := c.ProfitAndLoss(ctx, "ghost", 2025, 1)
	require.NoError(t, err)
	assert.True(t, pl.NoData)
	assert.Equal(t, NoDataText, FormatProfitAndLoss(pl))

	bs, err := c.BalanceSheet(ctx, "ghost", day(1, 31))
	require.NoError(t, err)
	assert.True(t, bs.NoData)

	for name, fn := range map[string]func() (string, error){
		"mid-month": func() (string, error) { return c.MidMonth(ctx, "ghost") },
		"month-end": func() (string, error) { return c.MonthEnd(ctx, "ghost", 2025, 1) },
		"quarterly": func() (string, error) { return c.Quarterly(ctx, "ghost", 2025, 1) },
		"annual":    func() (string, error) { return c.Annual(ctx, "ghost", 2025) },
	} {
		text, err := fn()
		require.NoError(t, err, name)
		assert.Equal(t, NoDataText, text, name)
	}
}

func TestMidMonth(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	// 2025-01-14 20:00 UTC is already the 15th in Tokyo.
	clock := func() time.Time { return time.Date(2025, 1, 14, 20, 0, 0, 0, time.UTC) }
	c, _ := newComposer(t, WithLocation(jst), WithClock(clock))

	text, err := c.MidMonth(context.Background(), owner)
	require.NoError(t, err)
	assert.Contains(t, text, "【月中レポート 2025年01月15日】")
	assert.Contains(t, text, "確定売上: 200,000円")
	assert.Contains(t, text, "今月累計: 70,333円")
	assert.Contains(t, text, "  ・地代家賃: 60,000円\n  ・通信費: 8,000円\n  ・消耗品費: 2,000円\n")
	assert.NotContains(t, text, "雑費", "only the top three")
	assert.Contains(t, text, "利益率: 39.8%")
}

func TestMonthEnd(t *testing.T) {
	c, _ := newComposer(t)

	text, err := c.MonthEnd(context.Background(), owner, 2025, 1)
	require.NoError(t, err)
	assert.Contains(t, text, "【月次決算レポート 2025-01】")
	assert.Contains(t, text, "━━━━━━ 損益サマリー ━━━━━━")
	assert.Contains(t, text, "売上原価: 50,000円")
	assert.Less(t, strings.Index(text, "地代家賃"), strings.Index(text, "雑費"), "largest first")
	assert.Contains(t, text, "経費合計: 70,333円")
	assert.Contains(t, text, "営業利益: 79,667円")

	text, err = c.MonthEnd(context.Background(), owner, 2025, 3)
	require.NoError(t, err)
	assert.Contains(t, text, "  なし\n")
}

func TestQuarterly(t *testing.T) {
	c, _ := newComposer(t)

	text, err := c.Quarterly(context.Background(), owner, 2025, 1)
	require.NoError(t, err)
	assert.Contains(t, text, "【第1四半期レポート 2025年】")
	assert.Contains(t, text, "売上高合計: 200,000円")
	assert.Contains(t, text, "経費合計: 120,333円")
	assert.Contains(t, text, "四半期利益: 79,667円")
	assert.Contains(t, text, "  2025-01: 売上 200,000円 / 利益 79,667円")
	assert.Contains(t, text, "  2025-03: 売上 0円 / 利益 0円")
	assert.Contains(t, text, "税金概算")

	_, err = c.Quarterly(context.Background(), owner, 2025, 5)
	assert.ErrorIs(t, err, ErrInvalidQuarter)
	assert.Equal(t, "無効な四半期です", err.Error())
}

func TestAnnual(t *testing.T) {
	c, s := newComposer(t)
	ctx := context.Background()

	// A large December sale so the estimate has something to tax.
	_, err := s.CreateEntry(ctx, model.Entry{
		Owner: owner, Date: day(12, 20),
		DebitAccount: "売掛金", DebitAmount: dec("10000000"),
		CreditAccount: "売上高", CreditAmount: dec("10000000"),
	})
	require.NoError(t, err)

	text, err := c.Annual(ctx, owner, 2025)
	require.NoError(t, err)
	assert.Contains(t, text, "【年次決算レポート 2025年】")
	assert.Contains(t, text, "売上高: 10,200,000円")
	assert.Contains(t, text, "事業所得: 10,079,667円")

	// The owner has neither e-filing nor double-entry books.
	est := c.calc.EstimateAnnualTax(dec("10200000"), dec("120333"), false, false)
	assertDec(t, "580000", est.TotalDeductions)
	assertDec(t, "1632466", est.IncomeTax)
	assert.Contains(t, text, "所得税: 1,632,466円")
	assert.Contains(t, text, "合計: "+Yen(est.GrandTotal))

	// With no owner profile both flags are assumed.
	assumed, err := NewComposer(c.agg).Annual(ctx, owner, 2025)
	require.NoError(t, err)
	assert.Contains(t, assumed, "所得税: 1,452,293円")
}

func TestAnnual_EFilingOwner(t *testing.T) {
	c, s := newComposer(t)
	ctx := context.Background()

	require.NoError(t, s.AddOwner(ctx, model.Owner{Ref: "U2", BlueReturn: true, EFiling: true, DoubleEntry: true}))
	_, err := s.CreateEntry(ctx, model.Entry{
		Owner: "U2", Date: day(12, 20),
		DebitAccount: "売掛金", DebitAmount: dec("10200000"),
		CreditAccount: "売上高", CreditAmount: dec("10200000"),
	})
	require.NoError(t, err)

	text, err := c.Annual(ctx, "U2", 2025)
	require.NoError(t, err)
	est := c.calc.EstimateAnnualTax(dec("10200000"), decimal.Zero, true, true)
	assertDec(t, "650000", est.Deductions.BlueReturn)
	assert.Contains(t, text, "所得税: "+Yen(est.IncomeTax))
	assert.Contains(t, text, "合計: "+Yen(est.GrandTotal))
}

func TestQuarterly_FollowsOwnerFlags(t *testing.T) {
	c, s := newComposer(t)
	ctx := context.Background()
	_, err := s.CreateEntry(ctx, model.Entry{
		Owner: owner, Date: day(2, 10),
		DebitAccount: "売掛金", DebitAmount: dec("3000000"),
		CreditAccount: "売上高", CreditAmount: dec("3000000"),
	})
	require.NoError(t, err)

	withProfile, err := c.Quarterly(ctx, owner, 2025, 1)
	require.NoError(t, err)
	assumed, err := NewComposer(c.agg).Quarterly(ctx, owner, 2025, 1)
	require.NoError(t, err)

	// quarter profit 3,079,667 annualised
	simple := c.calc.EstimateAnnualTax(dec("12800000"), dec("481332"), false, false)
	full := c.calc.EstimateAnnualTax(dec("12800000"), dec("481332"), true, true)
	assert.Contains(t, withProfile, "合計: "+Yen(simple.GrandTotal))
	assert.Contains(t, assumed, "合計: "+Yen(full.GrandTotal))
	assert.NotEqual(t, withProfile, assumed)
}

func TestYen(t *testing.T) {
	assert.Equal(t, "0円", Yen(decimal.Zero))
	assert.Equal(t, "1,234,567円", Yen(dec("1234567")))
	assert.Equal(t, "1,000円", Yen(dec("999.5")))
}

func TestFormatJournal(t *testing.T) {
	_, s := newComposer(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := s.CreateEntry(ctx, model.Entry{
			Owner: owner, Date: day(1, 31), Description: fmt.Sprintf("追加%d", i),
			DebitAccount: "雑費", DebitAmount: dec("100"),
			CreditAccount: "現金", CreditAmount: dec("100"),
		})
		require.NoError(t, err)
	}

	agg := ledger.NewAggregator(s, accounts.DefaultDesignation(), nil)
	j, err := agg.Journal(ctx, owner, day(1, 1), day(1, 31))
	require.NoError(t, err)
	require.Len(t, j.Entries, 12)

	text := FormatJournal(j, 0)
	assert.True(t, strings.HasPrefix(text, "【仕訳帳】"))
	assert.Contains(t, text, "2025-01-01\n  現金 1,000,000円\n  　/ 元入金 1,000,000円\n")
	assert.NotContains(t, text, "追加")
	assert.True(t, strings.HasSuffix(text, "...他2件\n"))

	text = FormatJournal(j, 20)
	assert.Contains(t, text, "追加1")
	assert.NotContains(t, text, "...他")

	assert.Equal(t, "取引データがありません。", FormatJournal(ledger.Journal{}, 10))
}

func TestFormatTrialBalance(t *testing.T) {
	_, s := newComposer(t)
	agg := ledger.NewAggregator(s, accounts.DefaultDesignation(), nil)

	tb, err := agg.TrialBalance(context.Background(), owner, day(1, 31))
	require.NoError(t, err)

	text := FormatTrialBalance(tb)
	assert.Contains(t, text, "現金: 借方 709,667円 / 貸方 0円")
	assert.Contains(t, text, "売上高: 借方 0円 / 貸方 200,000円")
	assert.Contains(t, text, ledger.TotalLabel)

	assert.Equal(t, "データがありません。", FormatTrialBalance(ledger.TrialBalance{}))
	assert.Equal(t, NoDataText, FormatTrialBalance(ledger.TrialBalance{NoData: true}))
}

func TestFormatStatements(t *testing.T) {
	c, _ := newComposer(t)
	ctx := context.Background()

	pl, err := c.ProfitAndLoss(ctx, owner, 2025, 1)
	require.NoError(t, err)
	text := FormatProfitAndLoss(pl)
	assert.Contains(t, text, "【損益計算書 2025-01】")
	assert.Contains(t, text, "  雑費: 333円")
	assert.Contains(t, text, "利益率: 39.8%")

	bs, err := c.BalanceSheet(ctx, owner, day(1, 31))
	require.NoError(t, err)
	text = FormatBalanceSheet(bs)
	assert.Contains(t, text, "資産合計: 1,149,667円")
	assert.Contains(t, text, "資本合計: 970,000円")
	assert.Contains(t, text, "負債・資本合計: 1,070,000円")
}
