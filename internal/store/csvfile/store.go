// Package csvfile stores each owner's journal as monthly CSV files:
//
//	<root>/owners.csv
//	<root>/ledgers/<owner>/YYYY/MM/journal.csv
//	<root>/ledgers/<owner>/YYYY/MM/last_seq
//
// Entry IDs are sequential per month ("2025-01-003"). last_seq holds the
// highest sequence issued once an entry in that month has been deleted, so
// a deleted ID is never handed out again.
package csvfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/keiri-dev/keiri/internal/id"
	"github.com/keiri-dev/keiri/internal/model"
	"github.com/keiri-dev/keiri/internal/store"
)

// Store is a file-backed store. Writes are serialised by a mutex, so a
// single process may share one Store across goroutines.
type Store struct {
	root string
	mu   sync.Mutex
}

var _ store.Store = (*Store)(nil)

// Open creates root if needed and returns a Store over it.
func Open(root string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, "ledgers"), 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}
	return &Store{root: root}, nil
}

// TransactionsFor reads every month file for the owner, oldest first.
func (s *Store) TransactionsFor(_ context.Context, owner string, f store.Filter) ([]model.Entry, error) {
	months, err := s.months(owner)
	if err != nil {
		return nil, err
	}

	var out []model.Entry
	for _, ym := range months {
		if !f.End.IsZero() && ym.first().After(f.End) {
			continue
		}
		if !f.Start.IsZero() && ym.first().AddDate(0, 1, 0).Before(f.Start) {
			continue
		}
		entries, err := s.readMonth(owner, ym.year, ym.month)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if f.Match(e) {
				out = append(out, e)
			}
		}
	}
	store.SortEntries(out)
	return out, nil
}

func (s *Store) FindOwner(ctx context.Context, owner string) (bool, error) {
	_, err := s.GetOwner(ctx, owner)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// CreateEntry appends the entry to its month file. A caller-supplied ID
// that already exists in that month is a conflict.
func (s *Store) CreateEntry(ctx context.Context, e model.Entry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.FindOwner(ctx, e.Owner)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("owner %q: %w", e.Owner, store.ErrNotFound)
	}

	year, month := e.Date.Year(), int(e.Date.Month())
	existing, err := s.readMonth(e.Owner, year, month)
	if err != nil {
		return "", err
	}

	ids := make([]string, len(existing))
	for i, x := range existing {
		ids[i] = x.ID
		if e.ID != "" && x.ID == e.ID {
			return "", fmt.Errorf("entry %s: %w", e.ID, store.ErrConflict)
		}
	}
	if e.ID == "" {
		last, err := s.readLastSeq(e.Owner, year, month)
		if err != nil {
			return "", err
		}
		e.ID = id.FormatEntryID(year, month, max(id.NextSeq(ids), last+1))
	}
	e.Date = store.Date(e.Date)

	path := s.monthPath(e.Owner, year, month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating journal dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return "", fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendEntries(f, []model.Entry{e}); err != nil {
		return "", fmt.Errorf("appending entry: %w", err)
	}
	return e.ID, nil
}

// DeleteEntry rewrites the entry's month file without it.
func (s *Store) DeleteEntry(_ context.Context, entryID, owner string) (bool, error) {
	year, month, _, err := id.ParseEntryID(entryID)
	if err != nil {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readMonth(owner, year, month)
	if err != nil {
		return false, err
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	high := id.NextSeq(ids) - 1

	kept := entries[:0]
	found := false
	for _, e := range entries {
		if e.ID == entryID {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return false, nil
	}
	if err := s.raiseLastSeq(owner, year, month, high); err != nil {
		return false, err
	}

	path := s.monthPath(owner, year, month)
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return false, fmt.Errorf("creating journal: %w", err)
	}
	if err := WriteEntries(f, kept); err != nil {
		f.Close()
		return false, fmt.Errorf("rewriting journal: %w", err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("closing journal: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return false, fmt.Errorf("replacing journal: %w", err)
	}
	return true, nil
}

func (s *Store) AddOwner(_ context.Context, o model.Owner) error {
	if err := store.ValidateOwnerRef(o.Ref); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	owners, err := readOwners(s.ownersPath())
	if err != nil {
		return err
	}
	for _, x := range owners {
		if x.Ref == o.Ref {
			return fmt.Errorf("owner %q: %w", o.Ref, store.ErrConflict)
		}
	}
	owners = append(owners, o)
	sort.Slice(owners, func(i, j int) bool { return owners[i].Ref < owners[j].Ref })
	return writeOwners(s.ownersPath(), owners)
}

func (s *Store) GetOwner(_ context.Context, ref string) (model.Owner, error) {
	owners, err := readOwners(s.ownersPath())
	if err != nil {
		return model.Owner{}, err
	}
	for _, o := range owners {
		if o.Ref == ref {
			return o, nil
		}
	}
	return model.Owner{}, fmt.Errorf("owner %q: %w", ref, store.ErrNotFound)
}

func (s *Store) Owners(_ context.Context) ([]model.Owner, error) {
	return readOwners(s.ownersPath())
}

func (s *Store) Close() error { return nil }

type yearMonth struct{ year, month int }

func (ym yearMonth) first() time.Time {
	return time.Date(ym.year, time.Month(ym.month), 1, 0, 0, 0, 0, time.UTC)
}

// months lists the owner's month directories in chronological order.
func (s *Store) months(owner string) ([]yearMonth, error) {
	dir := s.ownerDir(owner)
	years, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading ledger dir: %w", err)
	}

	var out []yearMonth
	for _, y := range years {
		year, err := strconv.Atoi(y.Name())
		if err != nil || !y.IsDir() {
			continue
		}
		ms, err := os.ReadDir(filepath.Join(dir, y.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading year dir: %w", err)
		}
		for _, m := range ms {
			month, err := strconv.Atoi(m.Name())
			if err != nil || !m.IsDir() {
				continue
			}
			out = append(out, yearMonth{year, month})
		}
	}
	return out, nil
}

func (s *Store) readMonth(owner string, year, month int) ([]model.Entry, error) {
	path := s.monthPath(owner, year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	entries, err := ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	for i := range entries {
		entries[i].Owner = owner
	}
	return entries, nil
}

func (s *Store) ownersPath() string {
	return filepath.Join(s.root, "owners.csv")
}

func (s *Store) ownerDir(owner string) string {
	return filepath.Join(s.root, "ledgers", url.PathEscape(owner))
}

func (s *Store) lastSeqPath(owner string, year, month int) string {
	return filepath.Join(filepath.Dir(s.monthPath(owner, year, month)), "last_seq")
}

// readLastSeq returns 0 when no entry in the month was ever deleted.
func (s *Store) readLastSeq(owner string, year, month int) (int, error) {
	b, err := os.ReadFile(s.lastSeqPath(owner, year, month))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading last_seq: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, fmt.Errorf("parsing last_seq: %w", err)
	}
	return n, nil
}

func (s *Store) raiseLastSeq(owner string, year, month, seq int) error {
	last, err := s.readLastSeq(owner, year, month)
	if err != nil || seq <= last {
		return err
	}
	if err := os.WriteFile(s.lastSeqPath(owner, year, month), []byte(strconv.Itoa(seq)+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing last_seq: %w", err)
	}
	return nil
}

func (s *Store) monthPath(owner string, year, month int) string {
	return filepath.Join(s.ownerDir(owner), fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "journal.csv")
}
