package csvfile

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keiri-dev/keiri/internal/model"
)

func TestReadEntries(t *testing.T) {
	input := Header + "\n" +
		"2025-01-001,2025-01-15,旅費交通費,1000,現金,1000,電車代,課税10%,90.91,,,,,2025-01-15T03:00:00Z\n" +
		"2025-01-002,2025-01-20,現金,55000,売上高,55000,\"請負, 1月分\",課税10%,5000,ACME,Web,line,r.jpg,\n"

	entries, err := ReadEntries(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	e := entries[0]
	assert.Equal(t, "2025-01-001", e.ID)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), e.Date)
	assert.True(t, decimal.NewFromInt(1000).Equal(e.DebitAmount))
	assert.Equal(t, model.TaxClassTaxed10, e.TaxClass)
	assert.True(t, decimal.RequireFromString("90.91").Equal(e.TaxAmount))
	assert.Equal(t, time.Date(2025, 1, 15, 3, 0, 0, 0, time.UTC), e.CreatedAt)

	e = entries[1]
	assert.Equal(t, "請負, 1月分", e.Description)
	assert.Equal(t, "ACME", e.Client)
	assert.Equal(t, "r.jpg", e.Receipt)
	assert.True(t, e.CreatedAt.IsZero())
}

func TestReadEntriesEmpty(t *testing.T) {
	entries, err := ReadEntries(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = ReadEntries(strings.NewReader(Header + "\n"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadEntriesBadRows(t *testing.T) {
	_, err := ReadEntries(strings.NewReader(Header + "\n2025-01-001,2025-01-15\n"))
	assert.Error(t, err)

	_, err = ReadEntries(strings.NewReader(Header + "\n2025-01-001,15/01/2025,a,1,b,1,,,,,,,,\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")

	_, err = ReadEntries(strings.NewReader(Header + "\n2025-01-001,2025-01-15,a,x,b,1,,,,,,,,\n"))
	assert.ErrorContains(t, err, "parsing amount")
}

func TestWriteThenAppend(t *testing.T) {
	e := model.Entry{
		ID:            "2025-03-001",
		Date:          time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		DebitAccount:  "消耗品費",
		DebitAmount:   decimal.NewFromInt(3300),
		CreditAccount: "現金",
		CreditAmount:  decimal.NewFromInt(3300),
		TaxClass:      model.TaxClassTaxed10,
		TaxAmount:     decimal.NewFromInt(300),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteEntries(&buf, []model.Entry{e}))
	e.ID = "2025-03-002"
	require.NoError(t, AppendEntries(&buf, []model.Entry{e}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, Header, lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "2025-03-002,2025-03-01,消耗品費,3300,"))

	got, err := ReadEntries(&buf)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
