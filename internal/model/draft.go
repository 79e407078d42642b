package model

import "github.com/shopspring/decimal"

// TransactionType is the extractor's guess at the kind of movement.
type TransactionType string

const (
	TransactionExpense  TransactionType = "expense"
	TransactionIncome   TransactionType = "income"
	TransactionTransfer TransactionType = "transfer"
)

// Draft is a candidate transaction payload produced upstream of the engine.
// Only Amount, DebitAccount and CreditAccount are mandatory.
type Draft struct {
	TransactionType       TransactionType     `json:"transaction_type,omitempty"`
	Date                  string              `json:"date,omitempty"`
	Amount                decimal.NullDecimal `json:"amount"`
	DebitAccount          string              `json:"debit_account"`
	CreditAccount         string              `json:"credit_account"`
	Description           string              `json:"description,omitempty"`
	Client                string              `json:"client,omitempty"`
	Project               string              `json:"project,omitempty"`
	TaxType               string              `json:"tax_type,omitempty"`
	Confidence            decimal.Decimal     `json:"confidence"`
	ClarificationNeeded   bool                `json:"clarification_needed,omitempty"`
	ClarificationQuestion string              `json:"clarification_question,omitempty"`
	Source                string              `json:"source,omitempty"`
	Receipt               string              `json:"receipt,omitempty"`
}
