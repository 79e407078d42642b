// Package store defines the transaction store consumed by the engine.
// Implementations live in the subpackages.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/keiri-dev/keiri/internal/model"
)

var (
	// ErrConflict is returned when a write collides with existing data.
	ErrConflict = errors.New("conflict")
	// ErrNotFound is returned when an owner or entry does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidOwnerRef is returned by AddOwner for a ref that cannot
	// name a ledger.
	ErrInvalidOwnerRef = errors.New("invalid owner ref")
)

// ValidateOwnerRef rejects the empty ref and the path segments "." and
// "..", which the file store would resolve outside the owner's directory.
func ValidateOwnerRef(ref string) error {
	switch ref {
	case "", ".", "..":
		return fmt.Errorf("%q: %w", ref, ErrInvalidOwnerRef)
	}
	return nil
}

// Filter narrows TransactionsFor. Zero values mean unbounded.
type Filter struct {
	Start   time.Time // inclusive
	End     time.Time // inclusive
	Account string    // matches either leg
}

// Match reports whether e passes the filter.
func (f Filter) Match(e model.Entry) bool {
	if !f.Start.IsZero() && e.Date.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && e.Date.After(f.End) {
		return false
	}
	if f.Account != "" && !e.Touches(f.Account) {
		return false
	}
	return true
}

// Query is the read side the aggregators depend on.
type Query interface {
	// TransactionsFor returns the owner's entries ascending by date, ties
	// in insertion order.
	TransactionsFor(ctx context.Context, owner string, f Filter) ([]model.Entry, error)
	FindOwner(ctx context.Context, owner string) (bool, error)
}

// Store is a durable transaction store.
type Store interface {
	Query
	// CreateEntry persists e and returns the assigned identifier.
	CreateEntry(ctx context.Context, e model.Entry) (string, error)
	// DeleteEntry hard-deletes an entry and reports whether it existed.
	DeleteEntry(ctx context.Context, id, owner string) (bool, error)
	AddOwner(ctx context.Context, o model.Owner) error
	GetOwner(ctx context.Context, ref string) (model.Owner, error)
	Owners(ctx context.Context) ([]model.Owner, error)
	Close() error
}

// Date truncates t to a calendar date at UTC midnight, the form every
// store keeps entry dates in.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SortEntries orders entries ascending by date, preserving the relative
// order of entries on the same date.
func SortEntries(entries []model.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
}
