package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateAnnualTax_WithProfit(t *testing.T) {
	est := Calculator{}.EstimateAnnualTax(d("10000000"), d("5000000"), true, true)

	assertDec(t, "10000000", est.Sales)
	assertDec(t, "5000000", est.Expenses)
	assertDec(t, "5000000", est.BusinessIncome)
	assertDec(t, "1130000", est.TotalDeductions)
	assertDec(t, "3870000", est.TaxableIncome)
	assertDec(t, "353776", est.IncomeTax)
	assertDec(t, "387000", est.ResidentTax)
	assertDec(t, "105000", est.BusinessTax)
	assertDec(t, "845776", est.GrandTotal)
	assertDec(t, "346500", est.Income.IncomeTax)
}

func TestEstimateAnnualTax_NoBusinessTaxUnderAllowance(t *testing.T) {
	est := Calculator{}.EstimateAnnualTax(d("4000000"), d("2000000"), true, true)
	assert.True(t, est.BusinessTax.IsZero())
}

func TestEstimateAnnualTax_BusinessTax(t *testing.T) {
	est := Calculator{}.EstimateAnnualTax(d("10000000"), d("3000000"), true, true)
	assertDec(t, "205000", est.BusinessTax)
}

func TestEstimateAnnualTax_Loss(t *testing.T) {
	est := Calculator{}.EstimateAnnualTax(d("1000000"), d("3000000"), false, true)
	assertDec(t, "-2000000", est.BusinessIncome)
	assert.True(t, est.TaxableIncome.IsZero())
	assert.True(t, est.IncomeTax.IsZero())
	assert.True(t, est.ResidentTax.IsZero())
	assert.True(t, est.GrandTotal.IsZero())
}

func TestEstimateAnnualTax_EFilingLowersTax(t *testing.T) {
	with := Calculator{}.EstimateAnnualTax(d("8000000"), d("2000000"), true, true)
	without := Calculator{}.EstimateAnnualTax(d("8000000"), d("2000000"), false, true)
	assert.True(t, with.GrandTotal.LessThan(without.GrandTotal))
	assertDec(t, "100000", with.TotalDeductions.Sub(without.TotalDeductions))
}

func TestEstimateAnnualTax_SimpleBookkeepingCap(t *testing.T) {
	full := Calculator{}.EstimateAnnualTax(d("8000000"), d("2000000"), true, true)
	simple := Calculator{}.EstimateAnnualTax(d("8000000"), d("2000000"), false, false)
	assertDec(t, "100000", simple.Deductions.BlueReturn)
	assertDec(t, "550000", full.TotalDeductions.Sub(simple.TotalDeductions))
	assert.True(t, simple.GrandTotal.GreaterThan(full.GrandTotal))
}

func TestEstimateAnnualTax_LossYearMedicalDeduction(t *testing.T) {
	est := Calculator{}.EstimateAnnualTax(d("1000000"), d("2000000"), false, true)
	assertDec(t, "50000", est.Deductions.Medical)
	assert.True(t, est.TaxableIncome.IsZero())
}
