// Package httpapi exposes the engine over HTTP: journal entry intake,
// statements and the tax calculators.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/keiri-dev/keiri/internal/journal"
	"github.com/keiri-dev/keiri/internal/ledger"
	"github.com/keiri-dev/keiri/internal/report"
	"github.com/keiri-dev/keiri/internal/store"
	"github.com/keiri-dev/keiri/internal/tax"
)

// Deps are the components the handlers call into.
type Deps struct {
	Store    store.Store
	Builder  *journal.Builder
	Ledger   *ledger.Aggregator
	Composer *report.Composer
	Location *time.Location
	Logger   *slog.Logger
	Now      func() time.Time
}

// Server holds the handlers.
type Server struct {
	store    store.Store
	builder  *journal.Builder
	ledger   *ledger.Aggregator
	composer *report.Composer
	calc     tax.Calculator
	loc      *time.Location
	logger   *slog.Logger
	now      func() time.Time
}

func New(d Deps) *Server {
	s := &Server{
		store:    d.Store,
		builder:  d.Builder,
		ledger:   d.Ledger,
		composer: d.Composer,
		loc:      d.Location,
		logger:   d.Logger,
		now:      d.Now,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/owners", func(r chi.Router) {
		r.Get("/", s.ListOwners)
		r.Post("/", s.AddOwner)

		r.Route("/{owner}", func(r chi.Router) {
			r.Get("/", s.GetOwner)

			r.Route("/entries", func(r chi.Router) {
				r.Get("/", s.ListEntries)
				r.Post("/", s.CreateEntry)
				r.Delete("/{id}", s.DeleteEntry)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/trial-balance", s.TrialBalance)
				r.Get("/cash-book", s.CashBook)
				r.Get("/ledger", s.GeneralLedger)
				r.Get("/expenses", s.ExpenseSummary)
				r.Get("/profit-loss", s.ProfitAndLoss)
				r.Get("/balance-sheet", s.BalanceSheet)
				r.Get("/mid-month", s.MidMonth)
				r.Get("/month-end", s.MonthEnd)
				r.Get("/quarterly", s.Quarterly)
				r.Get("/annual", s.Annual)
			})
		})
	})

	r.Route("/tax", func(r chi.Router) {
		r.Post("/income", s.IncomeTax)
		r.Post("/consumption", s.ConsumptionTax)
		r.Post("/depreciation", s.Depreciation)
		r.Post("/deductions", s.Deductions)
		r.Post("/estimate", s.Estimate)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// today is the current calendar date in the server's timezone.
func (s *Server) today() time.Time {
	return store.Date(s.now().In(s.loc))
}

// dateParam parses a YYYY-MM-DD query parameter, falling back to def.
func dateParam(r *http.Request, name string, def time.Time) (time.Time, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, true
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func intParam(r *http.Request, name string, def int) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// yearMonth reads year and month, defaulting to the current month.
func (s *Server) yearMonth(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	today := s.today()
	year, ok := intParam(r, "year", today.Year())
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Invalid year")
		return 0, 0, false
	}
	month, ok := intParam(r, "month", int(today.Month()))
	if !ok || month < 1 || month > 12 {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Invalid month")
		return 0, 0, false
	}
	return year, month, true
}
