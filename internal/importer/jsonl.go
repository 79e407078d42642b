package importer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/keiri-dev/keiri/internal/model"
)

// JSONLParser reads one draft payload object per line. Blank lines are
// skipped.
type JSONLParser struct{}

func (p *JSONLParser) Format() string { return "jsonl" }

func (p *JSONLParser) Parse(r io.Reader) ([]model.Draft, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		drafts []model.Draft
		line   int
	)
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		var d model.Draft
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		drafts = append(drafts, d)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading drafts: %w", err)
	}
	return drafts, nil
}
