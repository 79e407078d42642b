package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// IntegrityError reports a trial balance whose debit and credit totals
// disagree. It means an unbalanced entry reached the store.
type IntegrityError struct {
	Owner       string
	AsOf        time.Time
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity: trial balance for %s as of %s does not close: debit %s, credit %s",
		e.Owner, e.AsOf.Format(time.DateOnly), e.DebitTotal, e.CreditTotal)
}
