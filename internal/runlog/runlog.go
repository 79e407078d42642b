// Package runlog records the outcome of each owner in a batch report run as
// rows in <root>/logs/run-log.csv.
package runlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Status is the per-owner outcome of a job.
type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Record is one row in the run log.
type Record struct {
	Timestamp time.Time
	RunID     string
	Job       string
	Owner     string
	Status    Status
	Details   string
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,run_id,job,owner,status,details"

const (
	numFields    = 6
	logDir       = "logs"
	logFile      = "run-log.csv"
	colTimestamp = 0
	colRunID     = 1
	colJob       = 2
	colOwner     = 3
	colStatus    = 4
	colDetails   = 5
)

// Path returns the log location under root.
func Path(root string) string {
	return filepath.Join(root, logDir, logFile)
}

func marshal(r Record) []string {
	row := make([]string, numFields)
	row[colTimestamp] = r.Timestamp.UTC().Format(time.RFC3339)
	row[colRunID] = r.RunID
	row[colJob] = r.Job
	row[colOwner] = r.Owner
	row[colStatus] = string(r.Status)
	row[colDetails] = r.Details
	return row
}

func unmarshal(rec []string) (Record, error) {
	ts, err := time.Parse(time.RFC3339, rec[colTimestamp])
	if err != nil {
		return Record{}, fmt.Errorf("parsing timestamp %q: %w", rec[colTimestamp], err)
	}
	return Record{
		Timestamp: ts,
		RunID:     rec[colRunID],
		Job:       rec[colJob],
		Owner:     rec[colOwner],
		Status:    Status(rec[colStatus]),
		Details:   rec[colDetails],
	}, nil
}

// Append writes records to the run log, creating the file and header if
// needed.
func Append(root string, records []Record) error {
	path := Path(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	_, statErr := os.Stat(path)
	needsHeader := errors.Is(statErr, fs.ErrNotExist)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, r := range records {
		if err := cw.Write(marshal(r)); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns every record, or nil when the log does not exist yet.
func Read(root string) ([]Record, error) {
	f, err := os.Open(Path(root))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()
	return decode(f)
}

func decode(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	out := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := unmarshal(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// ByRun filters records to one run.
func ByRun(records []Record, runID string) []Record {
	var out []Record
	for _, r := range records {
		if r.RunID == runID {
			out = append(out, r)
		}
	}
	return out
}
