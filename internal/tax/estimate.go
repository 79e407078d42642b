package tax

import "github.com/shopspring/decimal"

var (
	residentTaxRate      = dec("0.10")
	businessTaxRate      = dec("0.05")
	businessTaxAllowance = dec("2900000")
)

// AnnualEstimate is the rough yearly tax burden derived from sales and expenses.
type AnnualEstimate struct {
	Sales           decimal.Decimal `json:"sales"`
	Expenses        decimal.Decimal `json:"expenses"`
	BusinessIncome  decimal.Decimal `json:"business_income"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TaxableIncome   decimal.Decimal `json:"taxable_income"`
	IncomeTax       decimal.Decimal `json:"income_tax"`
	ResidentTax     decimal.Decimal `json:"resident_tax"`
	BusinessTax     decimal.Decimal `json:"business_tax"`
	GrandTotal      decimal.Decimal `json:"grand_total"`

	Deductions Deductions      `json:"deductions"`
	Income     IncomeTaxResult `json:"income_tax_detail"`
}

// EstimateAnnualTax runs the deduction and income tax pipeline over a
// year's sales and expenses. The filing flags pick the blue-return cap.
// IncomeTax is the total including surtax.
func (c Calculator) EstimateAnnualTax(sales, expenses decimal.Decimal, hasEFiling, hasDoubleEntry bool) AnnualEstimate {
	income := sales.Sub(expenses)

	in := NewDeductionInputs(income)
	in.HasEFiling = hasEFiling
	in.HasDoubleEntry = hasDoubleEntry
	deductions := c.AllDeductions(in)

	taxable := decimal.Max(decimal.Zero, income.Sub(deductions.Total))
	it := c.IncomeTax(taxable)
	resident := taxable.Mul(residentTaxRate)

	business := decimal.Zero
	if over := income.Sub(businessTaxAllowance); over.IsPositive() {
		business = over.Mul(businessTaxRate)
	}

	return AnnualEstimate{
		Sales:           sales,
		Expenses:        expenses,
		BusinessIncome:  income,
		TotalDeductions: deductions.Total,
		TaxableIncome:   taxable,
		IncomeTax:       it.TotalTax,
		ResidentTax:     resident,
		BusinessTax:     business,
		GrandTotal:      it.TotalTax.Add(resident).Add(business),
		Deductions:      deductions,
		Income:          it,
	}
}
