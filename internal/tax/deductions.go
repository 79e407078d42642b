package tax

import "github.com/shopspring/decimal"

var (
	blueReturnFull     = dec("650000")
	blueReturnStandard = dec("550000")
	blueReturnSimple   = dec("100000")

	lifeInsuranceCap = dec("120000")
	medicalFloorCap  = dec("100000")
	medicalFloorRate = dec("0.05")
	medicalCap       = dec("2000000")
)

type basicTier struct {
	upTo      decimal.Decimal
	deduction decimal.Decimal
}

var basicDeductionTiers = []basicTier{
	{dec("24000000"), dec("480000")},
	{dec("24500000"), dec("320000")},
	{dec("25000000"), dec("160000")},
}

// DeductionInputs carries the optional amounts for AllDeductions. Zero
// values mean "not claimed".
type DeductionInputs struct {
	TotalIncome     decimal.Decimal
	SocialInsurance decimal.Decimal
	MutualAid       decimal.Decimal
	LifeInsurance   decimal.Decimal
	MedicalExpenses decimal.Decimal
	HasEFiling      bool
	HasDoubleEntry  bool
}

// NewDeductionInputs returns inputs with double-entry bookkeeping assumed.
func NewDeductionInputs(totalIncome decimal.Decimal) DeductionInputs {
	return DeductionInputs{TotalIncome: totalIncome, HasDoubleEntry: true}
}

// Deductions is the itemised breakdown returned by AllDeductions.
type Deductions struct {
	Basic           decimal.Decimal `json:"basic"`
	BlueReturn      decimal.Decimal `json:"blue_return"`
	SocialInsurance decimal.Decimal `json:"social_insurance"`
	MutualAid       decimal.Decimal `json:"small_business_mutual_aid"`
	LifeInsurance   decimal.Decimal `json:"life_insurance"`
	Medical         decimal.Decimal `json:"medical"`
	Total           decimal.Decimal `json:"total"`
}

// BasicDeduction looks up the basic deduction by total income.
func (Calculator) BasicDeduction(totalIncome decimal.Decimal) decimal.Decimal {
	for _, t := range basicDeductionTiers {
		if totalIncome.LessThanOrEqual(t.upTo) {
			return t.deduction
		}
	}
	return decimal.Zero
}

// BlueReturnDeduction caps income at 650k (double-entry with e-filing),
// 550k (double-entry only) or 100k.
func (Calculator) BlueReturnDeduction(income decimal.Decimal, hasEFiling, hasDoubleEntry bool) decimal.Decimal {
	limit := blueReturnSimple
	switch {
	case hasDoubleEntry && hasEFiling:
		limit = blueReturnFull
	case hasDoubleEntry:
		limit = blueReturnStandard
	}
	return decimal.Min(income, limit)
}

// MedicalDeduction is the excess over min(100k, 5% of income), capped at 2M.
func (Calculator) MedicalDeduction(medical, totalIncome decimal.Decimal) decimal.Decimal {
	floor := decimal.Min(medicalFloorCap, totalIncome.Mul(medicalFloorRate))
	excess := decimal.Max(decimal.Zero, medical.Sub(floor))
	return decimal.Min(excess, medicalCap)
}

// AllDeductions returns every deduction with its total.
func (c Calculator) AllDeductions(in DeductionInputs) Deductions {
	d := Deductions{
		Basic:           c.BasicDeduction(in.TotalIncome),
		BlueReturn:      c.BlueReturnDeduction(in.TotalIncome, in.HasEFiling, in.HasDoubleEntry),
		SocialInsurance: in.SocialInsurance,
		MutualAid:       in.MutualAid,
		LifeInsurance:   decimal.Min(in.LifeInsurance, lifeInsuranceCap),
		Medical:         c.MedicalDeduction(in.MedicalExpenses, in.TotalIncome),
	}
	d.Total = d.Basic.Add(d.BlueReturn).Add(d.SocialInsurance).Add(d.MutualAid).Add(d.LifeInsurance).Add(d.Medical)
	return d
}
