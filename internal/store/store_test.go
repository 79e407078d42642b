package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/keiri-dev/keiri/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFilterMatch(t *testing.T) {
	e := model.Entry{Date: day(2025, 3, 15), DebitAccount: "旅費交通費", CreditAccount: "現金"}

	tests := []struct {
		name string
		f    Filter
		want bool
	}{
		{"empty filter", Filter{}, true},
		{"start inclusive", Filter{Start: day(2025, 3, 15)}, true},
		{"after start", Filter{Start: day(2025, 3, 16)}, false},
		{"end inclusive", Filter{End: day(2025, 3, 15)}, true},
		{"before end", Filter{End: day(2025, 3, 14)}, false},
		{"credit account", Filter{Account: "現金"}, true},
		{"debit account", Filter{Account: "旅費交通費"}, true},
		{"other account", Filter{Account: "売上高"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.Match(e))
		})
	}
}

func TestSortEntriesIsStable(t *testing.T) {
	entries := []model.Entry{
		{ID: "a", Date: day(2025, 1, 20)},
		{ID: "b", Date: day(2025, 1, 10)},
		{ID: "c", Date: day(2025, 1, 20)},
		{ID: "d", Date: day(2025, 1, 10)},
	}
	SortEntries(entries)

	var ids []string
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids)
}

func TestDate(t *testing.T) {
	jst := time.FixedZone("JST", 9*3600)
	got := Date(time.Date(2025, 4, 1, 23, 30, 0, 0, jst))
	assert.Equal(t, day(2025, 4, 1), got)
}

func TestValidateOwnerRef(t *testing.T) {
	for _, ref := range []string{"", ".", ".."} {
		assert.ErrorIs(t, ValidateOwnerRef(ref), ErrInvalidOwnerRef, "ref %q", ref)
	}
	for _, ref := range []string{"U123", "...", ".hidden", "a/b"} {
		assert.NoError(t, ValidateOwnerRef(ref), "ref %q", ref)
	}
}
