package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxClass is the consumption-tax classification of an entry.
type TaxClass string

const (
	TaxClassTaxed10    TaxClass = "課税10%"
	TaxClassTaxed8     TaxClass = "課税8%"
	TaxClassExempt     TaxClass = "非課税"
	TaxClassOutOfScope TaxClass = "不課税"
)

var taxClassAliases = map[string]TaxClass{
	"taxed-10":     TaxClassTaxed10,
	"taxed-10%":    TaxClassTaxed10,
	"taxed-8":      TaxClassTaxed8,
	"taxed-8%":     TaxClassTaxed8,
	"exempt":       TaxClassExempt,
	"out-of-scope": TaxClassOutOfScope,
}

// ParseTaxClass accepts the Japanese label or its ASCII alias.
// An empty string resolves to TaxClassTaxed10.
func ParseTaxClass(s string) (TaxClass, bool) {
	switch TaxClass(s) {
	case "":
		return TaxClassTaxed10, true
	case TaxClassTaxed10, TaxClassTaxed8, TaxClassExempt, TaxClassOutOfScope:
		return TaxClass(s), true
	}
	if c, ok := taxClassAliases[s]; ok {
		return c, true
	}
	return "", false
}

// Entry is a validated single-rate journal entry: one debit leg and one
// credit leg of equal amount.
type Entry struct {
	ID            string          `json:"id"`
	Owner         string          `json:"owner"`
	Date          time.Time       `json:"date"`
	DebitAccount  string          `json:"debit_account"`
	DebitAmount   decimal.Decimal `json:"debit_amount"`
	CreditAccount string          `json:"credit_account"`
	CreditAmount  decimal.Decimal `json:"credit_amount"`
	Description   string          `json:"description,omitempty"`
	TaxClass      TaxClass        `json:"tax_class,omitempty"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Client        string          `json:"client,omitempty"`
	Project       string          `json:"project,omitempty"`
	Source        string          `json:"source,omitempty"`  // channel the draft arrived through
	Receipt       string          `json:"receipt,omitempty"` // attached receipt reference
	CreatedAt     time.Time       `json:"created_at"`
}

// Touches reports whether either leg of the entry posts to account.
func (e Entry) Touches(account string) bool {
	return e.DebitAccount == account || e.CreditAccount == account
}
