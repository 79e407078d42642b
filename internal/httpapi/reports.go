package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keiri-dev/keiri/internal/ledger"
	"github.com/keiri-dev/keiri/internal/report"
)

// TrialBalance handles GET /owners/{owner}/reports/trial-balance?as_of=.
func (s *Server) TrialBalance(w http.ResponseWriter, r *http.Request) {
	asOf, ok := dateParam(r, "as_of", s.today())
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Invalid as_of")
		return
	}
	tb, err := s.ledger.TrialBalance(r.Context(), chi.URLParam(r, "owner"), asOf)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if tb.NoData {
		writeOwnerNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, tb)
}

// CashBook handles GET /owners/{owner}/reports/cash-book?year=&month=.
func (s *Server) CashBook(w http.ResponseWriter, r *http.Request) {
	year, month, ok := s.yearMonth(w, r)
	if !ok {
		return
	}
	cb, err := s.ledger.CashBook(r.Context(), chi.URLParam(r, "owner"), year, month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if cb.NoData {
		writeOwnerNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, cb)
}

// GeneralLedger handles GET /owners/{owner}/reports/ledger?account=&start=&end=.
func (s *Server) GeneralLedger(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	if account == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing account")
		return
	}
	today := s.today()
	first, _ := ledger.MonthRange(today.Year(), int(today.Month()))
	start, ok := dateParam(r, "start", first)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Invalid start")
		return
	}
	end, ok := dateParam(r, "end", today)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Invalid end")
		return
	}
	gl, err := s.ledger.GeneralLedger(r.Context(), chi.URLParam(r, "owner"), account, start, end)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if gl.NoData {
		writeOwnerNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, gl)
}

// ExpenseSummary handles GET /owners/{owner}/reports/expenses?year=&month=.
func (s *Server) ExpenseSummary(w http.ResponseWriter, r *http.Request) {
	year, month, ok := s.yearMonth(w, r)
	if !ok {
		return
	}
	es, err := s.ledger.ExpenseSummary(r.Context(), chi.URLParam(r, "owner"), year, month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if es.NoData {
		writeOwnerNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, es)
}

// ProfitAndLoss handles GET /owners/{owner}/reports/profit-loss?year=&month=.
func (s *Server) ProfitAndLoss(w http.ResponseWriter, r *http.Request) {
	year, month, ok := s.yearMonth(w, r)
	if !ok {
		return
	}
	pl, err := s.composer.ProfitAndLoss(r.Context(), chi.URLParam(r, "owner"), year, month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if pl.NoData {
		writeOwnerNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, pl)
}

// BalanceSheet handles GET /owners/{owner}/reports/balance-sheet?as_of=.
func (s *Server) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	asOf, ok := dateParam(r, "as_of", s.today())
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Invalid as_of")
		return
	}
	bs, err := s.composer.BalanceSheet(r.Context(), chi.URLParam(r, "owner"), asOf)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if bs.NoData {
		writeOwnerNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

// The periodic reports are rendered text, including the no-data notice.

// MidMonth handles GET /owners/{owner}/reports/mid-month.
func (s *Server) MidMonth(w http.ResponseWriter, r *http.Request) {
	text, err := s.composer.MidMonth(r.Context(), chi.URLParam(r, "owner"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeText(w, text)
}

// MonthEnd handles GET /owners/{owner}/reports/month-end?year=&month=.
func (s *Server) MonthEnd(w http.ResponseWriter, r *http.Request) {
	year, month, ok := s.yearMonth(w, r)
	if !ok {
		return
	}
	text, err := s.composer.MonthEnd(r.Context(), chi.URLParam(r, "owner"), year, month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeText(w, text)
}

// Quarterly handles GET /owners/{owner}/reports/quarterly?year=&quarter=.
func (s *Server) Quarterly(w http.ResponseWriter, r *http.Request) {
	year, ok := intParam(r, "year", s.today().Year())
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Invalid year")
		return
	}
	quarter, ok := intParam(r, "quarter", (int(s.today().Month())-1)/3+1)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Invalid quarter")
		return
	}
	text, err := s.composer.Quarterly(r.Context(), chi.URLParam(r, "owner"), year, quarter)
	if errors.Is(err, report.ErrInvalidQuarter) {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeText(w, text)
}

// Annual handles GET /owners/{owner}/reports/annual?year=.
func (s *Server) Annual(w http.ResponseWriter, r *http.Request) {
	year, ok := intParam(r, "year", s.today().Year())
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Invalid year")
		return
	}
	text, err := s.composer.Annual(r.Context(), chi.URLParam(r, "owner"), year)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeText(w, text)
}
