package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/keiri-dev/keiri/internal/model"
	"github.com/keiri-dev/keiri/internal/tax"
)

// IncomeTaxRequest is the body of POST /tax/income.
type IncomeTaxRequest struct {
	TaxableIncome decimal.Decimal `json:"taxable_income"`
}

// ConsumptionTaxRequest is the body of POST /tax/consumption.
type ConsumptionTaxRequest struct {
	SalesTax     decimal.Decimal `json:"sales_tax"`
	PurchaseTax  decimal.Decimal `json:"purchase_tax"`
	Method       string          `json:"method"`
	BusinessType int             `json:"business_type"`
}

// DepreciationRequest is the body of POST /tax/depreciation.
type DepreciationRequest struct {
	AcquisitionCost decimal.Decimal     `json:"acquisition_cost"`
	UsefulLife      int                 `json:"useful_life"`
	Method          string              `json:"method"`
	MonthsUsed      *int                `json:"months_used"`
	SalvageRate     decimal.NullDecimal `json:"salvage_rate"`
}

// DeductionsRequest is the body of POST /tax/deductions.
type DeductionsRequest struct {
	TotalIncome     decimal.Decimal `json:"total_income"`
	SocialInsurance decimal.Decimal `json:"social_insurance"`
	MutualAid       decimal.Decimal `json:"small_business_mutual_aid"`
	LifeInsurance   decimal.Decimal `json:"life_insurance"`
	MedicalExpenses decimal.Decimal `json:"medical_expenses"`
	EFiling         bool            `json:"e_filing"`
	DoubleEntry     *bool           `json:"double_entry"`
}

// EstimateRequest is the body of POST /tax/estimate.
type EstimateRequest struct {
	Sales       decimal.Decimal `json:"sales"`
	Expenses    decimal.Decimal `json:"expenses"`
	EFiling     bool            `json:"e_filing"`
	DoubleEntry *bool           `json:"double_entry"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse request body")
		return false
	}
	return true
}

// IncomeTax handles POST /tax/income.
func (s *Server) IncomeTax(w http.ResponseWriter, r *http.Request) {
	var req IncomeTaxRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.calc.IncomeTax(req.TaxableIncome))
}

// ConsumptionTax handles POST /tax/consumption.
func (s *Server) ConsumptionTax(w http.ResponseWriter, r *http.Request) {
	var req ConsumptionTaxRequest
	if !decodeBody(w, r, &req) {
		return
	}
	method, ok := model.ParseTaxMethod(req.Method)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Invalid method")
		return
	}
	if req.BusinessType == 0 {
		req.BusinessType = tax.DefaultBusinessType
	}
	writeJSON(w, http.StatusOK, s.calc.ConsumptionTax(req.SalesTax, req.PurchaseTax, method, req.BusinessType))
}

// Depreciation handles POST /tax/depreciation. months_used defaults to a
// full year and the method to straight-line.
func (s *Server) Depreciation(w http.ResponseWriter, r *http.Request) {
	var req DepreciationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	months := 12
	if req.MonthsUsed != nil {
		months = *req.MonthsUsed
	}
	method := tax.StraightLine
	if req.Method != "" {
		method = tax.ParseDepreciationMethod(req.Method)
	}
	salvage := tax.DefaultSalvageRate
	if req.SalvageRate.Valid {
		salvage = req.SalvageRate.Decimal
	}
	writeJSON(w, http.StatusOK, s.calc.Depreciation(req.AcquisitionCost, req.UsefulLife, method, months, salvage))
}

// Deductions handles POST /tax/deductions.
func (s *Server) Deductions(w http.ResponseWriter, r *http.Request) {
	var req DeductionsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	in := tax.NewDeductionInputs(req.TotalIncome)
	in.SocialInsurance = req.SocialInsurance
	in.MutualAid = req.MutualAid
	in.LifeInsurance = req.LifeInsurance
	in.MedicalExpenses = req.MedicalExpenses
	in.HasEFiling = req.EFiling
	if req.DoubleEntry != nil {
		in.HasDoubleEntry = *req.DoubleEntry
	}
	writeJSON(w, http.StatusOK, s.calc.AllDeductions(in))
}

// Estimate handles POST /tax/estimate.
func (s *Server) Estimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	doubleEntry := req.DoubleEntry == nil || *req.DoubleEntry
	writeJSON(w, http.StatusOK, s.calc.EstimateAnnualTax(req.Sales, req.Expenses, req.EFiling, doubleEntry))
}
