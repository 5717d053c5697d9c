package store

// Dates are stored as "2006-01-02" text, timestamps as RFC 3339 text,
// and money as exact decimal text re-parsed on read.
const schema = `
CREATE TABLE IF NOT EXISTS bank_accounts (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	tenant_id     INTEGER NOT NULL,
	name          TEXT    NOT NULL,
	bank_name     TEXT    NOT NULL,
	balance       TEXT    NOT NULL DEFAULT '0',
	reconciled_at TEXT    NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS bank_transactions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	account_id  INTEGER NOT NULL REFERENCES bank_accounts(id),
	date        TEXT    NOT NULL,
	description TEXT    NOT NULL,
	reference   TEXT    NOT NULL DEFAULT '',
	amount      TEXT    NOT NULL,
	type        TEXT    NOT NULL,
	balance     TEXT    NOT NULL DEFAULT '',
	status      TEXT    NOT NULL DEFAULT 'pending',
	matched_at  TEXT    NOT NULL DEFAULT '',
	UNIQUE (account_id, date, amount, description)
);
CREATE INDEX IF NOT EXISTS idx_txn_account_date ON bank_transactions(account_id, date);

CREATE TABLE IF NOT EXISTS reconciliation_sessions (
	id                      INTEGER PRIMARY KEY AUTOINCREMENT,
	reference               TEXT    NOT NULL UNIQUE,
	account_id              INTEGER NOT NULL REFERENCES bank_accounts(id),
	actor                   TEXT    NOT NULL,
	period_start            TEXT    NOT NULL,
	period_end              TEXT    NOT NULL,
	bank_starting_balance   TEXT    NOT NULL,
	bank_ending_balance     TEXT    NOT NULL,
	system_starting_balance TEXT    NOT NULL,
	system_ending_balance   TEXT    NOT NULL,
	difference              TEXT    NOT NULL,
	status                  TEXT    NOT NULL DEFAULT 'pending',
	completed_at            TEXT    NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS match_records (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id     INTEGER NOT NULL REFERENCES reconciliation_sessions(id),
	transaction_id INTEGER NOT NULL UNIQUE REFERENCES bank_transactions(id),
	entity_kind    TEXT    NOT NULL,
	entity_id      INTEGER NOT NULL,
	amount         TEXT    NOT NULL,
	confidence     INTEGER NOT NULL,
	actor          TEXT    NOT NULL,
	matched_at     TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS invoices (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	tenant_id          INTEGER NOT NULL,
	number             TEXT    NOT NULL,
	customer_reference TEXT    NOT NULL DEFAULT '',
	amount             TEXT    NOT NULL,
	date               TEXT    NOT NULL,
	paid               INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS payments (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	tenant_id          INTEGER NOT NULL,
	customer_reference TEXT    NOT NULL DEFAULT '',
	amount             TEXT    NOT NULL,
	date               TEXT    NOT NULL,
	transaction_id     INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS expenses (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	tenant_id          INTEGER NOT NULL,
	supplier_reference TEXT    NOT NULL DEFAULT '',
	amount             TEXT    NOT NULL,
	date               TEXT    NOT NULL
);
`

func (s *Store) initSchema() error {
	_, err := s.db.Exec(schema)
	return err
}
