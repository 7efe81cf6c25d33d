package postgres

// Schema creates the tables the store reads and writes. Every statement is
// idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS customers (
	id          UUID PRIMARY KEY,
	owner_id    TEXT NOT NULL,
	name        TEXT NOT NULL,
	email       TEXT NOT NULL DEFAULT '',
	phone       TEXT NOT NULL DEFAULT '',
	street      TEXT NOT NULL DEFAULT '',
	city        TEXT NOT NULL DEFAULT '',
	state       TEXT NOT NULL DEFAULT '',
	zip         TEXT NOT NULL DEFAULT '',
	country     TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS customers_owner_name_idx ON customers (owner_id, name);

CREATE TABLE IF NOT EXISTS invoices (
	id              UUID PRIMARY KEY,
	owner_id        TEXT NOT NULL,
	invoice_number  TEXT NOT NULL,
	customer_id     UUID NOT NULL,
	date            TIMESTAMPTZ NOT NULL,
	due_date        TIMESTAMPTZ NOT NULL,
	items           JSONB NOT NULL DEFAULT '[]',
	total_amount    NUMERIC(14,2) NOT NULL,
	status          TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS invoices_owner_date_idx ON invoices (owner_id, date DESC);

CREATE TABLE IF NOT EXISTS expenses (
	id              UUID PRIMARY KEY,
	owner_id        TEXT NOT NULL,
	category        TEXT NOT NULL,
	description     TEXT NOT NULL,
	amount          NUMERIC(14,2) NOT NULL,
	date            TIMESTAMPTZ NOT NULL,
	payment_method  TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS expenses_owner_date_idx ON expenses (owner_id, date DESC);

CREATE TABLE IF NOT EXISTS products (
	id           UUID PRIMARY KEY,
	owner_id     TEXT NOT NULL,
	name         TEXT NOT NULL,
	category     TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	price        NUMERIC(14,2) NOT NULL,
	stock        INTEGER NOT NULL,
	min_stock    INTEGER NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS products_owner_name_idx ON products (owner_id, name);
`
