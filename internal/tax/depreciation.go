package tax

import "github.com/shopspring/decimal"

// DepreciationMethod names a depreciation method.
type DepreciationMethod string

const (
	StraightLine     DepreciationMethod = "straight-line"
	DecliningBalance DepreciationMethod = "declining-balance"
)

const (
	straightLineJA     = "定額法"
	decliningBalanceJA = "定率法"
)

// DefaultSalvageRate is the residual value ratio for straight-line.
var DefaultSalvageRate = dec("0.10")

var twelve = decimal.NewFromInt(12)

// DepreciationResult holds the outputs of Depreciation in whole yen.
type DepreciationResult struct {
	AcquisitionCost    decimal.Decimal    `json:"acquisition_cost"`
	UsefulLife         int                `json:"useful_life"`
	Method             DepreciationMethod `json:"method"`
	AnnualDepreciation decimal.Decimal    `json:"annual_depreciation"`
	Depreciation       decimal.Decimal    `json:"depreciation"`
	MonthsUsed         int                `json:"months_used"`
}

// ParseDepreciationMethod accepts the ASCII name or 定額法/定率法.
func ParseDepreciationMethod(s string) DepreciationMethod {
	switch s {
	case straightLineJA:
		return StraightLine
	case decliningBalanceJA:
		return DecliningBalance
	}
	return DepreciationMethod(s)
}

// Depreciation computes the annual charge and its monthsUsed/12 proration.
// Declining-balance uses the 200% rate 2/usefulLife on the full cost.
// Unknown methods and non-positive useful lives yield zero.
func (Calculator) Depreciation(cost decimal.Decimal, usefulLife int, method DepreciationMethod, monthsUsed int, salvageRate decimal.Decimal) DepreciationResult {
	res := DepreciationResult{
		AcquisitionCost:    cost,
		UsefulLife:         usefulLife,
		Method:             method,
		AnnualDepreciation: decimal.Zero,
		Depreciation:       decimal.Zero,
		MonthsUsed:         monthsUsed,
	}
	if usefulLife <= 0 {
		return res
	}
	life := decimal.NewFromInt(int64(usefulLife))

	var annual decimal.Decimal
	switch method {
	case StraightLine:
		annual = cost.Sub(cost.Mul(salvageRate)).Div(life)
	case DecliningBalance:
		annual = cost.Mul(decimal.NewFromInt(2).Div(life))
	default:
		return res
	}

	prorated := annual.Mul(decimal.NewFromInt(int64(monthsUsed))).Div(twelve)
	res.AnnualDepreciation = annual.Truncate(0)
	res.Depreciation = prorated.Truncate(0)
	return res
}
