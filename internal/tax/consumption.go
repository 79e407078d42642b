package tax

import (
	"github.com/shopspring/decimal"

	"github.com/keiri-dev/keiri/internal/model"
)

// DeemedPurchaseRates maps simplified-tax business categories to their
// deemed purchase rate.
var DeemedPurchaseRates = map[int]decimal.Decimal{
	1: dec("0.90"), // wholesale
	2: dec("0.80"), // retail
	3: dec("0.70"), // manufacturing
	4: dec("0.60"), // other
	5: dec("0.50"), // services
	6: dec("0.40"), // real estate
}

// DefaultBusinessType is used when an owner has no category on file.
const DefaultBusinessType = 5

var fallbackDeemedRate = dec("0.50")

// ConsumptionTaxResult holds the outputs of ConsumptionTax.
type ConsumptionTaxResult struct {
	SalesTax    decimal.Decimal `json:"sales_tax"`
	PurchaseTax decimal.Decimal `json:"purchase_tax"`
	PayableTax  decimal.Decimal `json:"payable_tax"`
	Method      model.TaxMethod `json:"method"`
	IsRefund    bool            `json:"is_refund"`
}

// DeemedRate returns the deemed purchase rate for a category. Unknown
// categories fall back to the services rate of 50%.
func DeemedRate(businessType int) decimal.Decimal {
	if r, ok := DeemedPurchaseRates[businessType]; ok {
		return r
	}
	return fallbackDeemedRate
}

// ConsumptionTax computes the payable amount under the principle method
// (sales tax minus purchase tax) or, for any other method, the simplified
// method using the deemed purchase rate. The payable is truncated toward
// zero; a negative payable is a refund.
func (Calculator) ConsumptionTax(salesTax, purchaseTax decimal.Decimal, method model.TaxMethod, businessType int) ConsumptionTaxResult {
	var payable decimal.Decimal
	if method == model.TaxMethodPrinciple {
		payable = salesTax.Sub(purchaseTax)
	} else {
		payable = salesTax.Sub(salesTax.Mul(DeemedRate(businessType)))
	}

	return ConsumptionTaxResult{
		SalesTax:    salesTax,
		PurchaseTax: purchaseTax,
		PayableTax:  payable.Truncate(0),
		Method:      method,
		IsRefund:    payable.IsNegative(),
	}
}
