package model

// TaxMethod selects the consumption-tax regime.
type TaxMethod string

const (
	TaxMethodPrinciple  TaxMethod = "principle"
	TaxMethodSimplified TaxMethod = "simplified"
)

// ParseTaxMethod accepts "principle"/"simplified" or the Japanese
// 原則課税/簡易課税. Anything else is reported as not ok.
func ParseTaxMethod(s string) (TaxMethod, bool) {
	switch s {
	case "", string(TaxMethodPrinciple), "原則課税":
		return TaxMethodPrinciple, true
	case string(TaxMethodSimplified), "簡易課税":
		return TaxMethodSimplified, true
	}
	return "", false
}

// Owner is the bookkeeping subject. Ref is opaque to the engine.
type Owner struct {
	Ref           string    `json:"ref"`
	Name          string    `json:"name,omitempty"`
	BusinessType  int       `json:"business_type"` // simplified-tax category 1..6
	TaxMethod     TaxMethod `json:"tax_method"`
	BlueReturn    bool      `json:"blue_return"`
	EFiling       bool      `json:"e_filing"`
	DoubleEntry   bool      `json:"double_entry"`
	FiscalYearEnd string    `json:"fiscal_year_end,omitempty"` // "MM-DD"
}
