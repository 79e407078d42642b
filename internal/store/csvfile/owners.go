package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/keiri-dev/keiri/internal/model"
)

var ownerHeader = []string{"ref", "name", "business_type", "tax_method", "blue_return", "e_filing", "double_entry", "fiscal_year_end"}

const ownerFields = 8

func readOwners(path string) ([]model.Owner, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening owners: %w", err)
	}
	defer f.Close()
	return decodeOwners(f)
}

func decodeOwners(r io.Reader) ([]model.Owner, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = ownerFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading owners CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	owners := make([]model.Owner, 0, len(records)-1)
	for i, rec := range records[1:] {
		bt, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing business_type %q: %w", i+2, rec[2], err)
		}
		flags := make([]bool, 3)
		for j := range flags {
			flags[j], err = strconv.ParseBool(rec[4+j])
			if err != nil {
				return nil, fmt.Errorf("row %d: parsing %s %q: %w", i+2, ownerHeader[4+j], rec[4+j], err)
			}
		}
		owners = append(owners, model.Owner{
			Ref:           rec[0],
			Name:          rec[1],
			BusinessType:  bt,
			TaxMethod:     model.TaxMethod(rec[3]),
			BlueReturn:    flags[0],
			EFiling:       flags[1],
			DoubleEntry:   flags[2],
			FiscalYearEnd: rec[7],
		})
	}
	return owners, nil
}

func writeOwners(path string, owners []model.Owner) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating owners file: %w", err)
	}

	cw := csv.NewWriter(f)
	_ = cw.Write(ownerHeader)
	for _, o := range owners {
		_ = cw.Write([]string{
			o.Ref,
			o.Name,
			strconv.Itoa(o.BusinessType),
			string(o.TaxMethod),
			strconv.FormatBool(o.BlueReturn),
			strconv.FormatBool(o.EFiling),
			strconv.FormatBool(o.DoubleEntry),
			o.FiscalYearEnd,
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return fmt.Errorf("writing owners: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing owners file: %w", err)
	}
	return os.Rename(tmp, path)
}
