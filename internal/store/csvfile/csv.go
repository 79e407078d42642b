package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/keiri-dev/keiri/internal/model"
)

// Header is the CSV header for journal.csv.
const Header = "entry_id,date,debit_account,debit_amount,credit_account,credit_amount,description,tax_class,tax_amount,client,project,source,receipt,created_at"

const (
	numFields     = 14
	dateFormat    = "2006-01-02"
	colEntryID    = 0
	colDate       = 1
	colDebitAcct  = 2
	colDebitAmt   = 3
	colCreditAcct = 4
	colCreditAmt  = 5
	colDesc       = 6
	colTaxClass   = 7
	colTaxAmt     = 8
	colClient     = 9
	colProject    = 10
	colSource     = 11
	colReceipt    = 12
	colCreatedAt  = 13
)

// ReadEntries reads all entries from a journal.csv reader.
func ReadEntries(r io.Reader) ([]model.Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var entries []model.Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteEntries writes entries to a journal.csv writer (including header).
func WriteEntries(w io.Writer, entries []model.Entry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// AppendEntries appends entries to an existing journal.csv writer (no header).
func AppendEntries(w io.Writer, entries []model.Entry) error {
	cw := csv.NewWriter(w)

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalEntry converts an Entry to a CSV row. The owner is implied by the
// file's location and is not written.
func MarshalEntry(e model.Entry) []string {
	row := make([]string, numFields)
	row[colEntryID] = e.ID
	row[colDate] = e.Date.Format(dateFormat)
	row[colDebitAcct] = e.DebitAccount
	row[colDebitAmt] = e.DebitAmount.String()
	row[colCreditAcct] = e.CreditAccount
	row[colCreditAmt] = e.CreditAmount.String()
	row[colDesc] = e.Description
	row[colTaxClass] = string(e.TaxClass)
	row[colTaxAmt] = e.TaxAmount.String()
	row[colClient] = e.Client
	row[colProject] = e.Project
	row[colSource] = e.Source
	row[colReceipt] = e.Receipt
	if !e.CreatedAt.IsZero() {
		row[colCreatedAt] = e.CreatedAt.UTC().Format(time.RFC3339)
	}
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (model.Entry, error) {
	if len(record) != numFields {
		return model.Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Entry{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amounts := make([]decimal.Decimal, 3)
	for i, col := range []int{colDebitAmt, colCreditAmt, colTaxAmt} {
		if record[col] == "" {
			continue
		}
		amounts[i], err = decimal.NewFromString(record[col])
		if err != nil {
			return model.Entry{}, fmt.Errorf("parsing amount %q: %w", record[col], err)
		}
	}

	var created time.Time
	if record[colCreatedAt] != "" {
		created, err = time.Parse(time.RFC3339, record[colCreatedAt])
		if err != nil {
			return model.Entry{}, fmt.Errorf("parsing created_at %q: %w", record[colCreatedAt], err)
		}
	}

	return model.Entry{
		ID:            record[colEntryID],
		Date:          date,
		DebitAccount:  record[colDebitAcct],
		DebitAmount:   amounts[0],
		CreditAccount: record[colCreditAcct],
		CreditAmount:  amounts[1],
		Description:   record[colDesc],
		TaxClass:      model.TaxClass(record[colTaxClass]),
		TaxAmount:     amounts[2],
		Client:        record[colClient],
		Project:       record[colProject],
		Source:        record[colSource],
		Receipt:       record[colReceipt],
		CreatedAt:     created,
	}, nil
}
