package accounts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keiri-dev/keiri/internal/model"
)

func TestBudgetColumn(t *testing.T) {
	accts := []model.Account{
		{Code: "660", Name: "旅費交通費", Type: model.AccountTypeExpense, Category: "販管費", TaxDefault: model.TaxClassTaxed10, BudgetAnnual: decimal.NewFromInt(300000), SortOrder: 1, Active: true},
		{Code: "100", Name: "現金", Type: model.AccountTypeAsset, Category: "流動資産", TaxDefault: model.TaxClassOutOfScope, SortOrder: 2, Active: true},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAccounts(&buf, accts))
	assert.Contains(t, buf.String(), "660,旅費交通費,expense,販管費,課税10%,300000,1,true")
	assert.Contains(t, buf.String(), "100,現金,asset,流動資産,不課税,,2,true")

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].BudgetAnnual.Equal(decimal.NewFromInt(300000)))
	assert.True(t, got[1].BudgetAnnual.IsZero())
}

func TestJapaneseTypeLabelAccepted(t *testing.T) {
	in := "code,name,type,category,tax_default,budget_annual,sort_order,active\n" +
		"400,元入金,資本,資本,不課税,,1,\n"
	got, err := ReadAccounts(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.AccountTypeEquity, got[0].Type)
	assert.True(t, got[0].Active, "blank active defaults to true")
}

func TestUnmarshalAccountErrors(t *testing.T) {
	tests := []struct {
		name string
		rec  []string
	}{
		{"short row", []string{"100", "現金"}},
		{"bad type", []string{"100", "現金", "cash", "", "", "", "1", "true"}},
		{"bad tax", []string{"100", "現金", "asset", "", "vat", "", "1", "true"}},
		{"bad budget", []string{"100", "現金", "asset", "", "", "abc", "1", "true"}},
		{"bad order", []string{"100", "現金", "asset", "", "", "", "x", "true"}},
		{"bad active", []string{"100", "現金", "asset", "", "", "", "1", "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalAccount(tt.rec)
			assert.Error(t, err)
		})
	}
}
