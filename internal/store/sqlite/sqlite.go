// Package sqlite is a Store backed by a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/keiri-dev/keiri/internal/model"
	"github.com/keiri-dev/keiri/internal/store"
)

const dateFormat = "2006-01-02"

// Store wraps a *sql.DB opened with foreign keys and WAL enabled.
type Store struct {
	db   *sql.DB
	path string
}

var _ store.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// transaction runs fn in a transaction, rolling back on error.
func (s *Store) transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) TransactionsFor(ctx context.Context, owner string, f store.Filter) ([]model.Entry, error) {
	query, args := buildEntriesQuery(owner, f)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var out []model.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func buildEntriesQuery(owner string, f store.Filter) (string, []any) {
	var b strings.Builder
	b.WriteString(`SELECT id, owner, date, debit_account, debit_amount, credit_account, credit_amount,
	description, tax_class, tax_amount, client, project, source, receipt, created_at
	FROM entries WHERE owner = ?`)
	args := []any{owner}

	if !f.Start.IsZero() {
		b.WriteString(" AND date >= ?")
		args = append(args, f.Start.Format(dateFormat))
	}
	if !f.End.IsZero() {
		b.WriteString(" AND date <= ?")
		args = append(args, f.End.Format(dateFormat))
	}
	if f.Account != "" {
		b.WriteString(" AND (debit_account = ? OR credit_account = ?)")
		args = append(args, f.Account, f.Account)
	}
	b.WriteString(" ORDER BY date, seq")
	return b.String(), args
}

func scanEntry(rows *sql.Rows) (model.Entry, error) {
	var (
		e                       model.Entry
		date, created, taxClass string
		debit, credit, tax      string
	)
	err := rows.Scan(&e.ID, &e.Owner, &date, &e.DebitAccount, &debit, &e.CreditAccount, &credit,
		&e.Description, &taxClass, &tax, &e.Client, &e.Project, &e.Source, &e.Receipt, &created)
	if err != nil {
		return e, fmt.Errorf("scanning entry: %w", err)
	}

	if e.Date, err = time.Parse(dateFormat, date); err != nil {
		return e, fmt.Errorf("entry %s: parsing date: %w", e.ID, err)
	}
	if e.DebitAmount, err = decimal.NewFromString(debit); err != nil {
		return e, fmt.Errorf("entry %s: parsing debit amount: %w", e.ID, err)
	}
	if e.CreditAmount, err = decimal.NewFromString(credit); err != nil {
		return e, fmt.Errorf("entry %s: parsing credit amount: %w", e.ID, err)
	}
	if e.TaxAmount, err = decimal.NewFromString(tax); err != nil {
		return e, fmt.Errorf("entry %s: parsing tax amount: %w", e.ID, err)
	}
	if created != "" {
		if e.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return e, fmt.Errorf("entry %s: parsing created_at: %w", e.ID, err)
		}
	}
	e.TaxClass = model.TaxClass(taxClass)
	return e, nil
}

func (s *Store) FindOwner(ctx context.Context, owner string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM owners WHERE ref = ?`, owner).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("finding owner: %w", err)
	}
	return n > 0, nil
}

func (s *Store) CreateEntry(ctx context.Context, e model.Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	var created string
	if !e.CreatedAt.IsZero() {
		created = e.CreatedAt.UTC().Format(time.RFC3339)
	}

	err := s.transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO entries
			(id, owner, date, debit_account, debit_amount, credit_account, credit_amount,
			 description, tax_class, tax_amount, client, project, source, receipt, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Owner, e.Date.Format(dateFormat), e.DebitAccount, e.DebitAmount.String(),
			e.CreditAccount, e.CreditAmount.String(), e.Description, string(e.TaxClass),
			e.TaxAmount.String(), e.Client, e.Project, e.Source, e.Receipt, created)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("inserting entry: %w", mapError(err))
	}
	return e.ID, nil
}

func (s *Store) DeleteEntry(ctx context.Context, id, owner string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ? AND owner = ?`, id, owner)
	if err != nil {
		return false, fmt.Errorf("deleting entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting entry: %w", err)
	}
	return n > 0, nil
}

func (s *Store) AddOwner(ctx context.Context, o model.Owner) error {
	if err := store.ValidateOwnerRef(o.Ref); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO owners
		(ref, name, business_type, tax_method, blue_return, e_filing, double_entry, fiscal_year_end)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.Ref, o.Name, o.BusinessType, string(o.TaxMethod), o.BlueReturn, o.EFiling, o.DoubleEntry, o.FiscalYearEnd)
	if err != nil {
		return fmt.Errorf("inserting owner: %w", mapError(err))
	}
	return nil
}

const ownerColumns = `ref, name, business_type, tax_method, blue_return, e_filing, double_entry, fiscal_year_end`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOwner(r rowScanner) (model.Owner, error) {
	var (
		o      model.Owner
		method string
	)
	err := r.Scan(&o.Ref, &o.Name, &o.BusinessType, &method, &o.BlueReturn, &o.EFiling, &o.DoubleEntry, &o.FiscalYearEnd)
	o.TaxMethod = model.TaxMethod(method)
	return o, err
}

func (s *Store) GetOwner(ctx context.Context, ref string) (model.Owner, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+ownerColumns+` FROM owners WHERE ref = ?`, ref)
	o, err := scanOwner(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Owner{}, fmt.Errorf("owner %q: %w", ref, store.ErrNotFound)
	}
	if err != nil {
		return model.Owner{}, fmt.Errorf("reading owner: %w", err)
	}
	return o, nil
}

func (s *Store) Owners(ctx context.Context) ([]model.Owner, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+ownerColumns+` FROM owners ORDER BY ref`)
	if err != nil {
		return nil, fmt.Errorf("listing owners: %w", err)
	}
	defer rows.Close()

	var out []model.Owner
	for rows.Next() {
		o, err := scanOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning owner: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// mapError translates constraint failures into the store sentinels.
func mapError(err error) error {
	var se sqlite3.Error
	if !errors.As(err, &se) || se.Code != sqlite3.ErrConstraint {
		return err
	}
	switch se.ExtendedCode {
	case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
		return fmt.Errorf("%w: %v", store.ErrConflict, err)
	case sqlite3.ErrConstraintForeignKey:
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}
	return err
}
