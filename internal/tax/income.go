// Package tax computes Japanese income tax, consumption tax, depreciation
// and deductions for a sole proprietor. Every function is pure.
package tax

import "github.com/shopspring/decimal"

// Calculator is stateless; the zero value is ready to use.
type Calculator struct{}

// Bracket is one row of the progressive income tax table.
type Bracket struct {
	Threshold   decimal.Decimal // inclusive upper bound
	Rate        decimal.Decimal
	Subtraction decimal.Decimal
}

// IncomeTaxBrackets is ordered ascending by threshold.
var IncomeTaxBrackets = []Bracket{
	{dec("1950000"), dec("0.05"), dec("0")},
	{dec("3300000"), dec("0.10"), dec("97500")},
	{dec("6950000"), dec("0.20"), dec("427500")},
	{dec("9000000"), dec("0.23"), dec("636000")},
	{dec("18000000"), dec("0.33"), dec("1536000")},
	{dec("40000000"), dec("0.40"), dec("2796000")},
	{dec("999999999999"), dec("0.45"), dec("4796000")},
}

// ReconstructionRate is the special reconstruction surtax on income tax.
var ReconstructionRate = dec("0.021")

// IncomeTaxResult holds the outputs of IncomeTax in whole yen.
type IncomeTaxResult struct {
	TaxableIncome     decimal.Decimal `json:"taxable_income"`
	IncomeTax         decimal.Decimal `json:"income_tax"`
	ReconstructionTax decimal.Decimal `json:"reconstruction_tax"`
	TotalTax          decimal.Decimal `json:"total_tax"`
	TaxRate           decimal.Decimal `json:"tax_rate"`
}

// IncomeTax applies the first bracket whose threshold is >= taxableIncome.
// The surtax is computed on the untruncated base and both the surtax and
// the total are truncated toward zero.
func (Calculator) IncomeTax(taxableIncome decimal.Decimal) IncomeTaxResult {
	if !taxableIncome.IsPositive() {
		return IncomeTaxResult{
			TaxableIncome:     decimal.Zero,
			IncomeTax:         decimal.Zero,
			ReconstructionTax: decimal.Zero,
			TotalTax:          decimal.Zero,
			TaxRate:           decimal.Zero,
		}
	}

	bracket := IncomeTaxBrackets[len(IncomeTaxBrackets)-1]
	for _, b := range IncomeTaxBrackets {
		if taxableIncome.LessThanOrEqual(b.Threshold) {
			bracket = b
			break
		}
	}

	base := taxableIncome.Mul(bracket.Rate).Sub(bracket.Subtraction)
	if base.IsNegative() {
		base = decimal.Zero
	}
	surtax := base.Mul(ReconstructionRate).Truncate(0)

	return IncomeTaxResult{
		TaxableIncome:     taxableIncome,
		IncomeTax:         base.Truncate(0),
		ReconstructionTax: surtax,
		TotalTax:          base.Add(surtax).Truncate(0),
		TaxRate:           bracket.Rate,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
