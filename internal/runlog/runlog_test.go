package runlog

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndRead(t *testing.T) {
	root := t.TempDir()
	ts := time.Date(2025, 1, 31, 9, 0, 0, 0, time.UTC)

	require.NoError(t, Append(root, []Record{
		{Timestamp: ts, RunID: "r1", Job: "month-end", Owner: "U1", Status: StatusOK},
		{Timestamp: ts, RunID: "r1", Job: "month-end", Owner: "U2", Status: StatusFailed, Details: "connection refused, retry later"},
	}))
	require.NoError(t, Append(root, []Record{
		{Timestamp: ts.Add(time.Hour), RunID: "r2", Job: "mid-month", Owner: "U1", Status: StatusSkipped},
	}))

	raw, err := os.ReadFile(Path(root))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(raw), Header), "header written once")

	recs, err := Read(root)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, ts, recs[0].Timestamp)
	assert.Equal(t, "connection refused, retry later", recs[1].Details)
	assert.Equal(t, StatusSkipped, recs[2].Status)

	assert.Len(t, ByRun(recs, "r1"), 2)
	assert.Empty(t, ByRun(recs, "nope"))
}

func TestReadMissing(t *testing.T) {
	recs, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, recs)
}

func TestReadBadTimestamp(t *testing.T) {
	_, err := decode(strings.NewReader(Header + "\nyesterday,r1,job,U1,ok,\n"))
	assert.ErrorContains(t, err, "row 2")
}
