package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatEntryID(t *testing.T) {
	tests := []struct {
		year, month, seq int
		want             string
	}{
		{2025, 1, 1, "2025-01-001"},
		{2025, 12, 99, "2025-12-099"},
		{2025, 1, 1234, "2025-01-1234"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatEntryID(tt.year, tt.month, tt.seq))
	}
}

func TestParseEntryID(t *testing.T) {
	y, m, s, err := ParseEntryID("2025-03-017")
	require.NoError(t, err)
	assert.Equal(t, 2025, y)
	assert.Equal(t, 3, m)
	assert.Equal(t, 17, s)

	for _, bad := range []string{"", "2025-03", "x-03-001", "2025-13-001", "2025-03-abc", "2025-03-000"} {
		_, _, _, err := ParseEntryID(bad)
		assert.Error(t, err, bad)
	}
}

func TestNextSeq(t *testing.T) {
	assert.Equal(t, 1, NextSeq(nil))
	assert.Equal(t, 4, NextSeq([]string{"2025-01-001", "2025-01-003", "junk"}))
}
