// Package importer reads draft transaction files dropped into
// <root>/import/ and feeds each draft through the journal builder.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/keiri-dev/keiri/internal/model"
)

// Parser converts a draft file into Drafts.
type Parser interface {
	Parse(r io.Reader) ([]model.Draft, error)
	// Format is the file extension the parser handles, without the dot.
	Format() string
}

// Registry holds parsers keyed by file extension.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a file in the import directory.
type FileInfo struct {
	Name   string
	Path   string
	Size   int64
	Format string
}

func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with the csv and jsonl parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVParser{})
	r.Register(&JSONLParser{})
	return r
}

const (
	importDir    = "import"
	processedDir = "import/processed"
)

// Scan returns files in <root>/import/ that have a registered parser,
// sorted by name.
func (r *Registry) Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		format := strings.TrimPrefix(strings.ToLower(filepath.Ext(e.Name())), ".")
		if r.Get(format) == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name:   e.Name(),
			Path:   filepath.Join(dir, e.Name()),
			Size:   info.Size(),
			Format: format,
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// Builder is the journal builder the importer hands drafts to.
type Builder interface {
	Build(ctx context.Context, d model.Draft, owner string) (model.Entry, error)
}

// Failure is one draft that did not become an entry.
type Failure struct {
	File string
	Row  int
	Err  error
}

// Result summarises an import run.
type Result struct {
	Files    []string
	Created  []model.Entry
	Failures []Failure
}

// Importer builds every draft in the import directory for one owner.
type Importer struct {
	reg     *Registry
	builder Builder
	logger  *slog.Logger
}

func New(reg *Registry, b Builder, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{reg: reg, builder: b, logger: logger}
}

// Run parses each file and builds its drafts independently: one bad draft
// does not stop the others. A file that parses is moved to processed/
// even when some of its drafts fail; a file that cannot be parsed stays put.
func (im *Importer) Run(ctx context.Context, root, owner string) (Result, error) {
	var res Result
	files, err := im.reg.Scan(root)
	if err != nil {
		return res, err
	}

	for _, f := range files {
		drafts, err := im.parseFile(f)
		if err != nil {
			im.logger.Warn("skipping import file", "file", f.Name, "error", err)
			res.Failures = append(res.Failures, Failure{File: f.Name, Err: err})
			continue
		}

		for i, d := range drafts {
			if d.Source == "" {
				d.Source = "import:" + f.Name
			}
			e, err := im.builder.Build(ctx, d, owner)
			if err != nil {
				res.Failures = append(res.Failures, Failure{File: f.Name, Row: i + 1, Err: err})
				continue
			}
			res.Created = append(res.Created, e)
		}

		if err := MarkProcessed(root, f.Name); err != nil {
			return res, err
		}
		res.Files = append(res.Files, f.Name)
		im.logger.Info("imported drafts", "file", f.Name, "drafts", len(drafts))
	}
	return res, nil
}

func (im *Importer) parseFile(f FileInfo) ([]model.Draft, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer fh.Close()
	return im.reg.Get(f.Format).Parse(fh)
}
