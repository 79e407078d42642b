package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keiri-dev/keiri/internal/model"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	assert.Len(t, c.All(), 39)

	acct, ok := c.Get("現金")
	require.True(t, ok)
	assert.Equal(t, "100", acct.Code)
	assert.Equal(t, model.AccountTypeAsset, acct.Type)

	acct, ok = c.ByCode("750")
	require.True(t, ok)
	assert.Equal(t, "新聞図書費", acct.Name)
	assert.Equal(t, model.TaxClassTaxed8, acct.TaxDefault)

	assert.True(t, c.Exists(Sales))
	assert.False(t, c.Exists("不明な科目"))
}

func TestTaxDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, model.TaxClassExempt, c.TaxDefault("地代家賃"))
	assert.Equal(t, model.TaxClassOutOfScope, c.TaxDefault("現金"))
	assert.Equal(t, model.TaxClassTaxed10, c.TaxDefault("unknown"))
}

func TestByTypeAndCategory(t *testing.T) {
	c := Default()

	assert.Len(t, c.ByType(model.AccountTypeAsset), 11)
	assert.Len(t, c.ByType(model.AccountTypeLiability), 6)
	assert.Len(t, c.ByType(model.AccountTypeEquity), 3)
	assert.Len(t, c.ByType(model.AccountTypeRevenue), 3)
	assert.Len(t, c.ByType(model.AccountTypeExpense), 16)

	cogs := c.ByCategory("売上原価")
	require.Len(t, cogs, 1)
	assert.Equal(t, Purchases, cogs[0].Name)
}

func TestFixedListsAreInCatalog(t *testing.T) {
	c := Default()
	lists := [][]string{
		ExpenseSummaryAccounts(),
		ProfitLossExpenseAccounts(),
		BalanceSheetAssets(),
		BalanceSheetLiabilities(),
		BalanceSheetCapital(),
	}
	for _, list := range lists {
		for _, name := range list {
			assert.True(t, c.Exists(name), name)
		}
	}
	assert.Len(t, ExpenseSummaryAccounts(), 13)
	assert.Len(t, ProfitLossExpenseAccounts(), 15)
}

func TestInactiveAccountDoesNotExist(t *testing.T) {
	c := NewCatalog([]model.Account{{Code: "999", Name: "旧科目", Type: model.AccountTypeExpense}})
	_, ok := c.Get("旧科目")
	assert.True(t, ok)
	assert.False(t, c.Exists("旧科目"))
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Default().Save(dir))

	_, err := os.Stat(filepath.Join(dir, "accounts", "chart-of-accounts.csv"))
	require.NoError(t, err)

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default().All(), loaded.All())
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestDesignationWithDefaults(t *testing.T) {
	d := Designation{Cash: "小口現金"}.WithDefaults()
	assert.Equal(t, "小口現金", d.Cash)
	assert.Equal(t, Sales, d.Revenue)
	assert.Len(t, d.ExpenseSummary, 13)
	assert.Len(t, d.ProfitLossExpenses, 15)
	assert.Equal(t, DefaultDesignation().Capital, d.Capital)
}
