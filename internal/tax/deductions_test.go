package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasicDeduction(t *testing.T) {
	tests := []struct {
		income string
		want   string
	}{
		{"0", "480000"},
		{"24000000", "480000"},
		{"24000001", "320000"},
		{"24500000", "320000"},
		{"24500001", "160000"},
		{"25000000", "160000"},
		{"25000001", "0"},
	}
	for _, tt := range tests {
		assertDec(t, tt.want, Calculator{}.BasicDeduction(d(tt.income)), tt.income)
	}
}

func TestBlueReturnDeduction(t *testing.T) {
	c := Calculator{}
	tests := []struct {
		name        string
		income      string
		eFiling     bool
		doubleEntry bool
		want        string
	}{
		{"full tier", "5000000", true, true, "650000"},
		{"double entry only", "5000000", false, true, "550000"},
		{"simple bookkeeping", "5000000", false, false, "100000"},
		{"e-filing without double entry", "5000000", true, false, "100000"},
		{"income below full cap", "300000", true, true, "300000"},
		{"income below standard cap", "549999", false, true, "549999"},
		{"income below simple cap", "50000", false, false, "50000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDec(t, tt.want, c.BlueReturnDeduction(d(tt.income), tt.eFiling, tt.doubleEntry))
		})
	}
}

func TestAllDeductions_LifeInsuranceCapped(t *testing.T) {
	for _, life := range []string{"120000", "500000", "99999999"} {
		in := NewDeductionInputs(d("5000000"))
		in.LifeInsurance = d(life)
		got := Calculator{}.AllDeductions(in)
		assert.True(t, got.LifeInsurance.LessThanOrEqual(d("120000")))
		assertDec(t, "120000", got.LifeInsurance)
	}
}

func TestAllDeductions_Breakdown(t *testing.T) {
	in := DeductionInputs{
		TotalIncome:     d("5000000"),
		SocialInsurance: d("400000"),
		MutualAid:       d("840000"),
		LifeInsurance:   d("80000"),
		MedicalExpenses: d("250000"),
		HasEFiling:      true,
		HasDoubleEntry:  true,
	}
	got := Calculator{}.AllDeductions(in)

	assertDec(t, "480000", got.Basic)
	assertDec(t, "650000", got.BlueReturn)
	assertDec(t, "400000", got.SocialInsurance)
	assertDec(t, "840000", got.MutualAid)
	assertDec(t, "80000", got.LifeInsurance)
	assertDec(t, "150000", got.Medical)
	assertDec(t, "2600000", got.Total)
}

func TestMedicalDeduction(t *testing.T) {
	c := Calculator{}
	// low income: floor is 5% of income
	assertDec(t, "70000", c.MedicalDeduction(d("100000"), d("600000")))
	// below the floor
	assertDec(t, "0", c.MedicalDeduction(d("90000"), d("5000000")))
	// capped
	assertDec(t, "2000000", c.MedicalDeduction(d("5000000"), d("5000000")))
}

func TestAllDeductions_MedicalInLossYear(t *testing.T) {
	c := Calculator{}
	in := NewDeductionInputs(d("-1000000"))
	got := c.AllDeductions(in)
	assertDec(t, "50000", got.Medical)
	assertDec(t, c.MedicalDeduction(d("0"), in.TotalIncome).String(), got.Medical)
	assertDec(t, got.Basic.Add(got.BlueReturn).Add(got.Medical).String(), got.Total)
}

func TestNewDeductionInputsDefaults(t *testing.T) {
	in := NewDeductionInputs(d("1000000"))
	assert.True(t, in.HasDoubleEntry)
	assert.False(t, in.HasEFiling)
	got := Calculator{}.AllDeductions(in)
	assertDec(t, "550000", got.BlueReturn)
	assertDec(t, "1030000", got.Total)
}
