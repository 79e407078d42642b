package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keiri-dev/keiri/internal/model"
	"github.com/keiri-dev/keiri/internal/store"
)

type fakeWriter struct {
	created []model.Entry
	err     error
	deleted map[string]bool
}

func (f *fakeWriter) CreateEntry(_ context.Context, e model.Entry) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, e)
	return "e-1", nil
}

func (f *fakeWriter) DeleteEntry(_ context.Context, id, _ string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.deleted[id], nil
}

var jst = time.FixedZone("JST", 9*3600)

func fixedClock() time.Time {
	// 2025-03-31 20:00 UTC is already April 1st in Tokyo.
	return time.Date(2025, 3, 31, 20, 0, 0, 0, time.UTC)
}

func amount(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func TestBuild_Success(t *testing.T) {
	w := &fakeWriter{}
	b := NewBuilder(w, WithClock(fixedClock), WithLocation(jst))

	e, err := b.Build(context.Background(), model.Draft{
		Date:          "2025-01-15",
		Amount:        amount("1100"),
		DebitAccount:  "旅費交通費",
		CreditAccount: "現金",
		Description:   "タクシー",
		Client:        "A社",
		Project:       "PJ-1",
	}, "owner-1")
	require.NoError(t, err)

	assert.Equal(t, "e-1", e.ID)
	assert.Equal(t, "owner-1", e.Owner)
	assert.Equal(t, date(2025, 1, 15), e.Date)
	assert.Equal(t, model.TaxClassTaxed10, e.TaxClass)
	assert.True(t, e.TaxAmount.Equal(dec("100")))
	assert.True(t, e.DebitAmount.Equal(e.CreditAmount))
	assert.Equal(t, "A社", e.Client)
	assert.Equal(t, "PJ-1", e.Project)
	require.Len(t, w.created, 1)
	assert.Equal(t, fixedClock(), w.created[0].CreatedAt)
}

func TestBuild_DefaultsDateToLocalToday(t *testing.T) {
	b := NewBuilder(&fakeWriter{}, WithClock(fixedClock), WithLocation(jst))
	e, err := b.Prepare(model.Draft{Amount: amount("500"), DebitAccount: "雑費", CreditAccount: "現金"}, "o")
	require.NoError(t, err)
	assert.Equal(t, date(2025, 4, 1), e.Date)
}

func TestBuild_SlashDate(t *testing.T) {
	b := NewBuilder(&fakeWriter{})
	e, err := b.Prepare(model.Draft{Date: "2024/01/15", Amount: amount("500"), DebitAccount: "雑費", CreditAccount: "現金"}, "o")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 15), e.Date)
}

func TestTaxAmount(t *testing.T) {
	tests := []struct {
		amount string
		class  model.TaxClass
		want   string
	}{
		{"1100", model.TaxClassTaxed10, "100"},
		{"1000", model.TaxClassTaxed10, "90.91"},
		{"1080", model.TaxClassTaxed8, "80"},
		{"1000", model.TaxClassTaxed8, "74.07"},
		{"333", model.TaxClassTaxed10, "30.27"},
		{"1000", model.TaxClassExempt, "0"},
		{"1000", model.TaxClassOutOfScope, "0"},
	}
	for _, tt := range tests {
		got := TaxAmount(dec(tt.amount), tt.class)
		assert.True(t, got.Equal(dec(tt.want)), "%s %s: got %s", tt.amount, tt.class, got)
	}
}

func TestBuild_AliasTaxType(t *testing.T) {
	b := NewBuilder(&fakeWriter{})
	e, err := b.Prepare(model.Draft{Date: "2025-01-01", Amount: amount("2160"), DebitAccount: "新聞図書費", CreditAccount: "現金", TaxType: "taxed-8"}, "o")
	require.NoError(t, err)
	assert.Equal(t, model.TaxClassTaxed8, e.TaxClass)
	assert.True(t, e.TaxAmount.Equal(dec("160")))
}

func TestBuild_PercentAliasTaxType(t *testing.T) {
	b := NewBuilder(&fakeWriter{})
	e, err := b.Prepare(model.Draft{Date: "2025-01-01", Amount: amount("1100"), DebitAccount: "消耗品費", CreditAccount: "現金", TaxType: "taxed-10%"}, "o")
	require.NoError(t, err)
	assert.Equal(t, model.TaxClassTaxed10, e.TaxClass)
	assert.True(t, e.TaxAmount.Equal(dec("100")))
}

func TestBuild_CollectsAllViolations(t *testing.T) {
	w := &fakeWriter{}
	b := NewBuilder(w)

	_, err := b.Build(context.Background(), model.Draft{
		Date:    "15th of never",
		TaxType: "vat",
	}, "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	assert.ElementsMatch(t, []ViolationCode{
		CodeMissingOwner,
		CodeInvalidDate,
		CodeInvalidTax,
		CodeNonPositive,
		CodeMissingAccount,
	}, codes(verr.Violations))
	assert.Empty(t, w.created, "nothing is persisted on validation failure")
}

func TestBuild_ClarificationNeeded(t *testing.T) {
	b := NewBuilder(&fakeWriter{})
	_, err := b.Prepare(model.Draft{
		Date:                  "2025-01-01",
		Amount:                amount("1000"),
		DebitAccount:          "雑費",
		CreditAccount:         "現金",
		ClarificationNeeded:   true,
		ClarificationQuestion: "現金払いですか？",
	}, "o")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 1)
	assert.Equal(t, "現金払いですか？", verr.Violations[0].Message)
}

func TestBuild_UnknownAccountWithChart(t *testing.T) {
	b := NewBuilder(&fakeWriter{}, WithAccounts(chart{"現金": true}))
	_, err := b.Prepare(model.Draft{Date: "2025-01-01", Amount: amount("1000"), DebitAccount: "謎", CreditAccount: "現金"}, "o")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has(CodeUnknownAccount))
}

func TestBuild_StorageErrorWrapsConflict(t *testing.T) {
	w := &fakeWriter{err: store.ErrConflict}
	b := NewBuilder(w)

	_, err := b.Build(context.Background(), model.Draft{Date: "2025-01-01", Amount: amount("1000"), DebitAccount: "雑費", CreditAccount: "現金"}, "o")
	var serr *StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "create entry", serr.Op)
	assert.True(t, errors.Is(err, store.ErrConflict))
}

func TestDelete(t *testing.T) {
	w := &fakeWriter{deleted: map[string]bool{"e-9": true}}
	b := NewBuilder(w)

	ok, err := b.Delete(context.Background(), "e-9", "o")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.Delete(context.Background(), "missing", "o")
	require.NoError(t, err)
	assert.False(t, ok)

	w.err = errors.New("connection reset")
	_, err = b.Delete(context.Background(), "e-9", "o")
	var serr *StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "delete entry", serr.Op)
}
