package journal

import (
	"fmt"
	"strings"

	"github.com/keiri-dev/keiri/internal/model"
)

// ViolationCode tags a single failed check.
type ViolationCode string

const (
	CodeImbalance      ViolationCode = "imbalance"
	CodeNonPositive    ViolationCode = "non_positive_amount"
	CodeMissingAccount ViolationCode = "missing_account"
	CodeUnknownAccount ViolationCode = "unknown_account"
	CodeInvalidDate    ViolationCode = "invalid_date"
	CodeInvalidTax     ViolationCode = "invalid_tax_class"
	CodeMissingOwner   ViolationCode = "missing_owner"
	CodeClarification  ViolationCode = "clarification_needed"
)

// Violation describes one failed check on an entry.
type Violation struct {
	Code    ViolationCode
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Code, v.Message)
}

// AccountChecker tests whether an account name exists in the chart of accounts.
type AccountChecker interface {
	Exists(name string) bool
}

// Validate runs every entry check and returns all violations. An empty
// result means the entry is valid.
func Validate(e model.Entry) []Violation {
	var vs []Violation

	if !e.DebitAmount.Equal(e.CreditAmount) {
		vs = append(vs, Violation{
			Code:    CodeImbalance,
			Message: fmt.Sprintf("debit %s != credit %s", e.DebitAmount, e.CreditAmount),
		})
	}

	if !e.DebitAmount.IsPositive() || !e.CreditAmount.IsPositive() {
		vs = append(vs, Violation{
			Code:    CodeNonPositive,
			Message: "amount must be greater than zero",
		})
	}

	var missing []string
	if strings.TrimSpace(e.DebitAccount) == "" {
		missing = append(missing, "debit")
	}
	if strings.TrimSpace(e.CreditAccount) == "" {
		missing = append(missing, "credit")
	}
	if len(missing) > 0 {
		vs = append(vs, Violation{
			Code:    CodeMissingAccount,
			Message: fmt.Sprintf("%s account is required", strings.Join(missing, " and ")),
		})
	}

	return vs
}

// CheckAccounts reports entry accounts that are absent from the chart.
// Blank names are left to Validate.
func CheckAccounts(e model.Entry, accounts AccountChecker) []Violation {
	var vs []Violation
	for _, name := range []string{e.DebitAccount, e.CreditAccount} {
		if strings.TrimSpace(name) == "" || accounts.Exists(name) {
			continue
		}
		vs = append(vs, Violation{
			Code:    CodeUnknownAccount,
			Message: fmt.Sprintf("unknown account %q", name),
		})
	}
	return vs
}
