// Package postgres is a Store backed by PostgreSQL through a pgx pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/keiri-dev/keiri/internal/model"
	"github.com/keiri-dev/keiri/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS owners (
	ref             TEXT PRIMARY KEY,
	name            TEXT NOT NULL DEFAULT '',
	business_type   INTEGER NOT NULL DEFAULT 5,
	tax_method      TEXT NOT NULL DEFAULT 'principle',
	blue_return     BOOLEAN NOT NULL DEFAULT FALSE,
	e_filing        BOOLEAN NOT NULL DEFAULT FALSE,
	double_entry    BOOLEAN NOT NULL DEFAULT TRUE,
	fiscal_year_end TEXT NOT NULL DEFAULT '12-31'
);

CREATE TABLE IF NOT EXISTS entries (
	seq            BIGSERIAL PRIMARY KEY,
	id             TEXT NOT NULL UNIQUE,
	owner          TEXT NOT NULL REFERENCES owners(ref),
	date           DATE NOT NULL,
	debit_account  TEXT NOT NULL,
	debit_amount   NUMERIC(15,2) NOT NULL,
	credit_account TEXT NOT NULL,
	credit_amount  NUMERIC(15,2) NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	tax_class      TEXT NOT NULL DEFAULT '',
	tax_amount     NUMERIC(15,2) NOT NULL DEFAULT 0,
	client         TEXT NOT NULL DEFAULT '',
	project        TEXT NOT NULL DEFAULT '',
	source         TEXT NOT NULL DEFAULT '',
	receipt        TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_entries_owner_date ON entries(owner, date);
`

// NewPool creates a connection pool and verifies it with a ping.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL cannot be empty")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config from URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// Store implements store.Store over a pool.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ store.Store = (*Store)(nil)

// Open connects to databaseURL and ensures the schema exists.
func Open(ctx context.Context, databaseURL string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pool, err := NewPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	logger.Info("connected to postgres")
	return &Store{pool: pool, logger: logger}, nil
}

func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
		s.logger.Info("postgres pool closed")
	}
	return nil
}

const entryColumns = `id, owner, date, debit_account, debit_amount::text, credit_account, credit_amount::text,
	description, tax_class, tax_amount::text, client, project, source, receipt, created_at`

func buildEntriesQuery(owner string, f store.Filter) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT " + entryColumns + " FROM entries WHERE owner = $1")
	args := []any{owner}

	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if !f.Start.IsZero() {
		b.WriteString(" AND date >= " + next(f.Start))
	}
	if !f.End.IsZero() {
		b.WriteString(" AND date <= " + next(f.End))
	}
	if f.Account != "" {
		p := next(f.Account)
		b.WriteString(" AND (debit_account = " + p + " OR credit_account = " + p + ")")
	}
	b.WriteString(" ORDER BY date, seq")
	return b.String(), args
}

func (s *Store) TransactionsFor(ctx context.Context, owner string, f store.Filter) ([]model.Entry, error) {
	query, args := buildEntriesQuery(owner, f)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var out []model.Entry
	for rows.Next() {
		var (
			e                  model.Entry
			debit, credit, tax string
			taxClass           string
			created            *time.Time
		)
		if err := rows.Scan(&e.ID, &e.Owner, &e.Date, &e.DebitAccount, &debit, &e.CreditAccount, &credit,
			&e.Description, &taxClass, &tax, &e.Client, &e.Project, &e.Source, &e.Receipt, &created); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.DebitAmount = decimal.RequireFromString(debit)
		e.CreditAmount = decimal.RequireFromString(credit)
		e.TaxAmount = decimal.RequireFromString(tax)
		e.TaxClass = model.TaxClass(taxClass)
		e.Date = store.Date(e.Date)
		if created != nil {
			e.CreatedAt = created.UTC()
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) FindOwner(ctx context.Context, owner string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM owners WHERE ref = $1)`, owner).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("finding owner: %w", err)
	}
	return exists, nil
}

func (s *Store) CreateEntry(ctx context.Context, e model.Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	var created *time.Time
	if !e.CreatedAt.IsZero() {
		created = &e.CreatedAt
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `INSERT INTO entries
		(id, owner, date, debit_account, debit_amount, credit_account, credit_amount,
		 description, tax_class, tax_amount, client, project, source, receipt, created_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7::numeric, $8, $9, $10::numeric, $11, $12, $13, $14, $15)`,
		e.ID, e.Owner, store.Date(e.Date), e.DebitAccount, e.DebitAmount.String(), e.CreditAccount,
		e.CreditAmount.String(), e.Description, string(e.TaxClass), e.TaxAmount.String(),
		e.Client, e.Project, e.Source, e.Receipt, created)
	if err != nil {
		return "", fmt.Errorf("inserting entry: %w", mapError(err))
	}
	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return e.ID, nil
}

func (s *Store) DeleteEntry(ctx context.Context, id, owner string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM entries WHERE id = $1 AND owner = $2`, id, owner)
	if err != nil {
		return false, fmt.Errorf("deleting entry: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) AddOwner(ctx context.Context, o model.Owner) error {
	if err := store.ValidateOwnerRef(o.Ref); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO owners
		(ref, name, business_type, tax_method, blue_return, e_filing, double_entry, fiscal_year_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.Ref, o.Name, o.BusinessType, string(o.TaxMethod), o.BlueReturn, o.EFiling, o.DoubleEntry, o.FiscalYearEnd)
	if err != nil {
		return fmt.Errorf("inserting owner: %w", mapError(err))
	}
	return nil
}

const ownerColumns = `ref, name, business_type, tax_method, blue_return, e_filing, double_entry, fiscal_year_end`

func scanOwner(row pgx.Row) (model.Owner, error) {
	var (
		o      model.Owner
		method string
	)
	err := row.Scan(&o.Ref, &o.Name, &o.BusinessType, &method, &o.BlueReturn, &o.EFiling, &o.DoubleEntry, &o.FiscalYearEnd)
	o.TaxMethod = model.TaxMethod(method)
	return o, err
}

func (s *Store) GetOwner(ctx context.Context, ref string) (model.Owner, error) {
	o, err := scanOwner(s.pool.QueryRow(ctx, `SELECT `+ownerColumns+` FROM owners WHERE ref = $1`, ref))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Owner{}, fmt.Errorf("owner %q: %w", ref, store.ErrNotFound)
	}
	if err != nil {
		return model.Owner{}, fmt.Errorf("reading owner: %w", err)
	}
	return o, nil
}

func (s *Store) Owners(ctx context.Context) ([]model.Owner, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+ownerColumns+` FROM owners ORDER BY ref`)
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

// mapError translates unique (23505) and foreign-key (23503) violations.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505":
		return fmt.Errorf("%w: %s", store.ErrConflict, pgErr.Detail)
	case "23503":
		return fmt.Errorf("%w: %s", store.ErrNotFound, pgErr.Detail)
	}
	return err
}
