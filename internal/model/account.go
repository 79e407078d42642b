package model

import "github.com/shopspring/decimal"

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

var accountTypeLabels = map[AccountType]string{
	AccountTypeAsset:     "資産",
	AccountTypeLiability: "負債",
	AccountTypeEquity:    "資本",
	AccountTypeRevenue:   "収益",
	AccountTypeExpense:   "費用",
}

// Label returns the Japanese display label for the account type.
func (t AccountType) Label() string {
	if l, ok := accountTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// ParseAccountType accepts either the English key or the Japanese label.
func ParseAccountType(s string) (AccountType, bool) {
	for t, label := range accountTypeLabels {
		if s == string(t) || s == label {
			return t, true
		}
	}
	return "", false
}

// Account is a row in the chart of accounts.
type Account struct {
	Code         string
	Name         string
	Type         AccountType
	Category     string
	TaxDefault   TaxClass
	BudgetAnnual decimal.Decimal // zero = no budget
	SortOrder    int
	Active       bool
}
