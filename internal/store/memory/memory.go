// Package memory is an in-process Store, used by tests and by the
// memory driver.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/keiri-dev/keiri/internal/model"
	"github.com/keiri-dev/keiri/internal/store"
)

// Store keeps owners and entries in memory. Entries are held in insertion
// order and copies are returned to callers.
type Store struct {
	mu      sync.RWMutex
	owners  map[string]model.Owner
	entries []model.Entry
	ids     map[string]struct{}
}

var _ store.Store = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{
		owners: make(map[string]model.Owner),
		ids:    make(map[string]struct{}),
	}
}

func (s *Store) TransactionsFor(_ context.Context, owner string, f store.Filter) ([]model.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Entry
	for _, e := range s.entries {
		if e.Owner == owner && f.Match(e) {
			out = append(out, e)
		}
	}
	store.SortEntries(out)
	return out, nil
}

func (s *Store) FindOwner(_ context.Context, owner string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.owners[owner]
	return ok, nil
}

// CreateEntry assigns a UUID unless e.ID is already set. A duplicate ID is
// a conflict.
func (s *Store) CreateEntry(_ context.Context, e model.Entry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.owners[e.Owner]; !ok {
		return "", fmt.Errorf("owner %q: %w", e.Owner, store.ErrNotFound)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if _, dup := s.ids[e.ID]; dup {
		return "", fmt.Errorf("entry %s: %w", e.ID, store.ErrConflict)
	}
	e.Date = store.Date(e.Date)
	s.ids[e.ID] = struct{}{}
	s.entries = append(s.entries, e)
	return e.ID, nil
}

func (s *Store) DeleteEntry(_ context.Context, id, owner string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.ID == id && e.Owner == owner {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			delete(s.ids, id)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) AddOwner(_ context.Context, o model.Owner) error {
	if err := store.ValidateOwnerRef(o.Ref); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.owners[o.Ref]; ok {
		return fmt.Errorf("owner %q: %w", o.Ref, store.ErrConflict)
	}
	s.owners[o.Ref] = o
	return nil
}

func (s *Store) GetOwner(_ context.Context, ref string) (model.Owner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.owners[ref]
	if !ok {
		return model.Owner{}, fmt.Errorf("owner %q: %w", ref, store.ErrNotFound)
	}
	return o, nil
}

// Owners returns all owners sorted by reference.
func (s *Store) Owners(_ context.Context) ([]model.Owner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Owner, 0, len(s.owners))
	for _, o := range s.owners {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ref < out[j].Ref })
	return out, nil
}

// Put appends an entry without any checks. Tests use it to seed data a
// validator would have rejected.
func (s *Store) Put(e model.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.ids[e.ID] = struct{}{}
	s.entries = append(s.entries, e)
}

func (s *Store) Close() error { return nil }
