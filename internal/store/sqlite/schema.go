package sqlite

// schema is applied on every Open; statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS owners (
	ref             TEXT PRIMARY KEY,
	name            TEXT NOT NULL DEFAULT '',
	business_type   INTEGER NOT NULL DEFAULT 5,
	tax_method      TEXT NOT NULL DEFAULT 'principle',
	blue_return     INTEGER NOT NULL DEFAULT 0,
	e_filing        INTEGER NOT NULL DEFAULT 0,
	double_entry    INTEGER NOT NULL DEFAULT 1,
	fiscal_year_end TEXT NOT NULL DEFAULT '12-31'
);

CREATE TABLE IF NOT EXISTS entries (
	seq            INTEGER PRIMARY KEY AUTOINCREMENT,
	id             TEXT NOT NULL UNIQUE,
	owner          TEXT NOT NULL REFERENCES owners(ref),
	date           TEXT NOT NULL,
	debit_account  TEXT NOT NULL,
	debit_amount   TEXT NOT NULL,
	credit_account TEXT NOT NULL,
	credit_amount  TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	tax_class      TEXT NOT NULL DEFAULT '',
	tax_amount     TEXT NOT NULL DEFAULT '0',
	client         TEXT NOT NULL DEFAULT '',
	project        TEXT NOT NULL DEFAULT '',
	source         TEXT NOT NULL DEFAULT '',
	receipt        TEXT NOT NULL DEFAULT '',
	created_at     TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_entries_owner_date ON entries(owner, date);
`
