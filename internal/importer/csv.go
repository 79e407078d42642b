package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/keiri-dev/keiri/internal/model"
)

// CSVParser reads drafts from a CSV whose header names draft fields, e.g.
//
//	date,amount,debit_account,credit_account,description,tax_type
//
// Columns may appear in any order; unknown columns are ignored.
type CSVParser struct{}

func (p *CSVParser) Format() string { return "csv" }

func (p *CSVParser) Parse(r io.Reader) ([]model.Draft, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading draft CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"amount", "debit_account", "credit_account"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var drafts []model.Draft
	for i, rec := range records[1:] {
		d, err := parseCSVRow(cols, rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func parseCSVRow(cols map[string]int, rec []string) (model.Draft, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	d := model.Draft{
		TransactionType:       model.TransactionType(get("transaction_type")),
		Date:                  get("date"),
		DebitAccount:          get("debit_account"),
		CreditAccount:         get("credit_account"),
		Description:           get("description"),
		Client:                get("client"),
		Project:               get("project"),
		TaxType:               get("tax_type"),
		ClarificationQuestion: get("clarification_question"),
		Source:                get("source"),
		Receipt:               get("receipt"),
	}

	if s := strings.ReplaceAll(get("amount"), ",", ""); s != "" {
		amt, err := decimal.NewFromString(s)
		if err != nil {
			return d, fmt.Errorf("parsing amount %q: %w", s, err)
		}
		d.Amount = decimal.NewNullDecimal(amt)
	}
	if s := get("confidence"); s != "" {
		c, err := decimal.NewFromString(s)
		if err != nil {
			return d, fmt.Errorf("parsing confidence %q: %w", s, err)
		}
		d.Confidence = c
	}
	if s := get("clarification_needed"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return d, fmt.Errorf("parsing clarification_needed %q: %w", s, err)
		}
		d.ClarificationNeeded = b
	}
	return d, nil
}
