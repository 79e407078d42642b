package journal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/keiri-dev/keiri/internal/model"
	"github.com/keiri-dev/keiri/internal/store"
)

// Writer is the part of the store the builder writes through.
type Writer interface {
	CreateEntry(ctx context.Context, e model.Entry) (string, error)
	DeleteEntry(ctx context.Context, id, owner string) (bool, error)
}

var dateLayouts = []string{"2006-01-02", "2006/01/02"}

type taxRatio struct {
	num, den decimal.Decimal
}

var inclusiveTaxRatios = map[model.TaxClass]taxRatio{
	model.TaxClassTaxed10: {decimal.NewFromInt(10), decimal.NewFromInt(110)},
	model.TaxClassTaxed8:  {decimal.NewFromInt(8), decimal.NewFromInt(108)},
}

// Builder turns draft payloads into validated, stored entries.
type Builder struct {
	w        Writer
	accounts AccountChecker
	loc      *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithAccounts rejects entries whose accounts are not in the chart.
func WithAccounts(a AccountChecker) Option {
	return func(b *Builder) { b.accounts = a }
}

// WithLocation sets the calendar used to resolve "today".
func WithLocation(loc *time.Location) Option {
	return func(b *Builder) { b.loc = loc }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a Builder writing through w.
func NewBuilder(w Writer, opts ...Option) *Builder {
	b := &Builder{
		w:      w,
		loc:    time.Local,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// TaxAmount extracts the consumption tax contained in a tax-inclusive
// amount, rounded half-up to the sen (two places) as it is stored.
// Classes other than taxed-10 and taxed-8 carry no tax.
func TaxAmount(amount decimal.Decimal, class model.TaxClass) decimal.Decimal {
	r, ok := inclusiveTaxRatios[class]
	if !ok {
		return decimal.Zero
	}
	return amount.Mul(r.num).Div(r.den).Round(2)
}

// Prepare resolves a draft into an entry and validates it without
// touching the store. On failure it returns a *ValidationError.
func (b *Builder) Prepare(d model.Draft, owner string) (model.Entry, error) {
	var vs []Violation

	if strings.TrimSpace(owner) == "" {
		vs = append(vs, Violation{Code: CodeMissingOwner, Message: "owner reference is required"})
	}
	if d.ClarificationNeeded {
		msg := d.ClarificationQuestion
		if msg == "" {
			msg = "draft needs clarification"
		}
		vs = append(vs, Violation{Code: CodeClarification, Message: msg})
	}

	date, err := b.resolveDate(d.Date)
	if err != nil {
		vs = append(vs, Violation{Code: CodeInvalidDate, Message: err.Error()})
	}

	class, ok := model.ParseTaxClass(d.TaxType)
	if !ok {
		vs = append(vs, Violation{Code: CodeInvalidTax, Message: fmt.Sprintf("unknown tax type %q", d.TaxType)})
	}

	amount := decimal.Zero
	if d.Amount.Valid {
		amount = d.Amount.Decimal
	}

	e := model.Entry{
		Owner:         owner,
		Date:          date,
		DebitAccount:  strings.TrimSpace(d.DebitAccount),
		DebitAmount:   amount,
		CreditAccount: strings.TrimSpace(d.CreditAccount),
		CreditAmount:  amount,
		Description:   d.Description,
		TaxClass:      class,
		TaxAmount:     TaxAmount(amount, class),
		Client:        d.Client,
		Project:       d.Project,
		Source:        d.Source,
		Receipt:       d.Receipt,
	}

	vs = append(vs, Validate(e)...)
	if b.accounts != nil {
		vs = append(vs, CheckAccounts(e, b.accounts)...)
	}
	if len(vs) > 0 {
		return model.Entry{}, &ValidationError{Violations: vs}
	}
	return e, nil
}

// Build prepares the draft and hands the entry to the store. Store
// failures come back as *StorageError wrapping the cause, so conflicts
// remain detectable with errors.Is(err, store.ErrConflict).
func (b *Builder) Build(ctx context.Context, d model.Draft, owner string) (model.Entry, error) {
	e, err := b.Prepare(d, owner)
	if err != nil {
		b.logger.Debug("draft rejected", "owner", owner, "error", err)
		return model.Entry{}, err
	}

	e.CreatedAt = b.now()
	id, err := b.w.CreateEntry(ctx, e)
	if err != nil {
		return model.Entry{}, &StorageError{Op: "create entry", Err: err}
	}
	e.ID = id

	b.logger.Info("journal entry created",
		"owner", owner,
		"id", id,
		"date", e.Date.Format("2006-01-02"),
		"debit", e.DebitAccount,
		"credit", e.CreditAccount,
		"amount", e.DebitAmount.String(),
	)
	return e, nil
}

// Delete hard-deletes an owner's entry and reports whether it existed.
func (b *Builder) Delete(ctx context.Context, id, owner string) (bool, error) {
	ok, err := b.w.DeleteEntry(ctx, id, owner)
	if err != nil {
		return false, &StorageError{Op: "delete entry", Err: err}
	}
	if ok {
		b.logger.Info("journal entry deleted", "owner", owner, "id", id)
	}
	return ok, nil
}

func (b *Builder) resolveDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return store.Date(b.now().In(b.loc)), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
