package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/keiri-dev/keiri/internal/model"
)

const (
	numFields   = 8
	colCode     = 0
	colName     = 1
	colType     = 2
	colCategory = 3
	colTax      = 4
	colBudget   = 5
	colOrder    = 6
	colActive   = 7
)

var header = []string{"code", "name", "type", "category", "tax_default", "budget_annual", "sort_order", "active"}

// ReadAccounts reads chart-of-accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes chart-of-accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colCode] = acct.Code
	row[colName] = acct.Name
	row[colType] = string(acct.Type)
	row[colCategory] = acct.Category
	row[colTax] = string(acct.TaxDefault)
	if !acct.BudgetAnnual.IsZero() {
		row[colBudget] = acct.BudgetAnnual.String()
	}
	row[colOrder] = strconv.Itoa(acct.SortOrder)
	row[colActive] = strconv.FormatBool(acct.Active)
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	typ, ok := model.ParseAccountType(record[colType])
	if !ok {
		return model.Account{}, fmt.Errorf("unknown account type %q", record[colType])
	}

	tax, ok := model.ParseTaxClass(record[colTax])
	if !ok {
		return model.Account{}, fmt.Errorf("unknown tax class %q", record[colTax])
	}

	var budget decimal.Decimal
	if record[colBudget] != "" {
		var err error
		budget, err = decimal.NewFromString(record[colBudget])
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing budget_annual %q: %w", record[colBudget], err)
		}
	}

	order, err := strconv.Atoi(record[colOrder])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing sort_order %q: %w", record[colOrder], err)
	}

	active := true
	if record[colActive] != "" {
		active, err = strconv.ParseBool(record[colActive])
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing active %q: %w", record[colActive], err)
		}
	}

	return model.Account{
		Code:         record[colCode],
		Name:         record[colName],
		Type:         typ,
		Category:     record[colCategory],
		TaxDefault:   tax,
		BudgetAnnual: budget,
		SortOrder:    order,
		Active:       active,
	}, nil
}
