package journal

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keiri-dev/keiri/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func entry(debit, credit string, debitAmt, creditAmt string) model.Entry {
	return model.Entry{
		Date:          date(2025, 1, 15),
		DebitAccount:  debit,
		DebitAmount:   dec(debitAmt),
		CreditAccount: credit,
		CreditAmount:  dec(creditAmt),
	}
}

func codes(vs []Violation) []ViolationCode {
	var out []ViolationCode
	for _, v := range vs {
		out = append(out, v.Code)
	}
	return out
}

func TestValidate_Valid(t *testing.T) {
	assert.Empty(t, Validate(entry("旅費交通費", "現金", "1500", "1500")))
}

func TestValidate_Imbalance(t *testing.T) {
	vs := Validate(entry("旅費交通費", "現金", "1000", "500"))
	require.Len(t, vs, 1)
	assert.Equal(t, CodeImbalance, vs[0].Code)
	assert.Contains(t, vs[0].Message, "1000")
}

func TestValidate_NonPositive(t *testing.T) {
	for _, amt := range []string{"0", "-100"} {
		vs := Validate(entry("旅費交通費", "現金", amt, amt))
		assert.Equal(t, []ViolationCode{CodeNonPositive}, codes(vs), amt)
	}
}

func TestValidate_MissingAccount(t *testing.T) {
	vs := Validate(entry("", "  ", "1000", "1000"))
	require.Len(t, vs, 1)
	assert.Equal(t, CodeMissingAccount, vs[0].Code)
	assert.Contains(t, vs[0].Message, "debit and credit")
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	vs := Validate(model.Entry{DebitAmount: dec("1000"), CreditAmount: dec("-5")})
	assert.ElementsMatch(t, []ViolationCode{CodeImbalance, CodeNonPositive, CodeMissingAccount}, codes(vs))
}

// Every generated entry that passes must be balanced and positive, and
// every unbalanced or non-positive one must be rejected.
func TestValidate_BalanceProperty(t *testing.T) {
	amounts := []string{"-1000", "-0.01", "0", "0.01", "1", "999.99", "1000", "123456789"}
	for _, da := range amounts {
		for _, ca := range amounts {
			e := entry("消耗品費", "現金", da, ca)
			vs := Validate(e)
			valid := e.DebitAmount.Equal(e.CreditAmount) && e.DebitAmount.IsPositive()
			assert.Equal(t, valid, len(vs) == 0, "debit %s credit %s", da, ca)
		}
	}
}

type chart map[string]bool

func (c chart) Exists(name string) bool { return c[name] }

func TestCheckAccounts(t *testing.T) {
	c := chart{"現金": true, "売上高": true}

	assert.Empty(t, CheckAccounts(entry("現金", "売上高", "1", "1"), c))

	vs := CheckAccounts(entry("謎の科目", "売上高", "1", "1"), c)
	require.Len(t, vs, 1)
	assert.Equal(t, CodeUnknownAccount, vs[0].Code)

	assert.Empty(t, CheckAccounts(entry("", "売上高", "1", "1"), c), "blank names are Validate's job")
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Violations: []Violation{
		{Code: CodeImbalance, Message: "x"},
		{Code: CodeMissingAccount, Message: "y"},
	}}
	assert.Equal(t, "validation failed: imbalance: x; missing_account: y", err.Error())
	assert.True(t, err.Has(CodeImbalance))
	assert.False(t, err.Has(CodeNonPositive))
}
