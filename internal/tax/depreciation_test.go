package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDepreciation_StraightLine(t *testing.T) {
	res := Calculator{}.Depreciation(d("1000000"), 5, StraightLine, 12, DefaultSalvageRate)
	assertDec(t, "180000", res.AnnualDepreciation)
	assertDec(t, "180000", res.Depreciation)
	assert.Equal(t, 12, res.MonthsUsed)
	assert.Equal(t, 5, res.UsefulLife)

	half := Calculator{}.Depreciation(d("1000000"), 5, StraightLine, 6, DefaultSalvageRate)
	assertDec(t, "180000", half.AnnualDepreciation)
	assertDec(t, "90000", half.Depreciation)
}

func TestDepreciation_DecliningBalance(t *testing.T) {
	res := Calculator{}.Depreciation(d("1000000"), 5, DecliningBalance, 12, DefaultSalvageRate)
	assertDec(t, "400000", res.AnnualDepreciation)
	assertDec(t, "400000", res.Depreciation)

	partial := Calculator{}.Depreciation(d("1000000"), 5, DecliningBalance, 3, DefaultSalvageRate)
	assertDec(t, "100000", partial.Depreciation)
}

func TestDepreciation_Truncates(t *testing.T) {
	// 900,000 / 7 = 128,571.43; x 5/12 = 53,571.43
	res := Calculator{}.Depreciation(d("1000000"), 7, StraightLine, 5, DefaultSalvageRate)
	assertDec(t, "128571", res.AnnualDepreciation)
	assertDec(t, "53571", res.Depreciation)
}

func TestDepreciation_UnknownMethodIsZero(t *testing.T) {
	res := Calculator{}.Depreciation(d("1000000"), 5, "sum-of-years", 12, DefaultSalvageRate)
	assert.True(t, res.AnnualDepreciation.IsZero())
	assert.True(t, res.Depreciation.IsZero())
	assertDec(t, "1000000", res.AcquisitionCost)
}

func TestDepreciation_ZeroLife(t *testing.T) {
	res := Calculator{}.Depreciation(d("1000000"), 0, StraightLine, 12, DefaultSalvageRate)
	assert.True(t, res.Depreciation.IsZero())
}

func TestParseDepreciationMethod(t *testing.T) {
	assert.Equal(t, StraightLine, ParseDepreciationMethod("定額法"))
	assert.Equal(t, DecliningBalance, ParseDepreciationMethod("定率法"))
	assert.Equal(t, DecliningBalance, ParseDepreciationMethod("declining-balance"))
	assert.Equal(t, DepreciationMethod("other"), ParseDepreciationMethod("other"))
}
