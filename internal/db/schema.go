package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    name          TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'manager', 'user')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS hubs (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    city       TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS stocks (
    id          TEXT PRIMARY KEY,
    hub_id      TEXT NOT NULL REFERENCES hubs(id),
    title       TEXT NOT NULL UNIQUE,
    maintenance INTEGER NOT NULL DEFAULT 0 CHECK (maintenance >= 0),
    available   INTEGER NOT NULL DEFAULT 0 CHECK (available >= 0),
    borrowed    INTEGER NOT NULL DEFAULT 0 CHECK (borrowed >= 0),
    total       INTEGER NOT NULL DEFAULT 0 CHECK (total >= 0),
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS items (
    id          TEXT PRIMARY KEY,
    serial_code INTEGER NOT NULL UNIQUE CHECK (serial_code > 0),
    stock_id    TEXT NOT NULL REFERENCES stocks(id),
    status      TEXT NOT NULL DEFAULT 'AVAILABLE'
                CHECK (status IN ('MAINTENANCE', 'AVAILABLE', 'UNAVAILABLE', 'LOST', 'DONATED')),
    image       BLOB,
    image_mime  TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS applicants (
    id                TEXT PRIMARY KEY,
    name              TEXT NOT NULL,
    national_id       TEXT NOT NULL,
    email             TEXT,
    phone             TEXT,
    address           TEXT,
    beneficiary_count INTEGER NOT NULL DEFAULT 0 CHECK (beneficiary_count >= 0),
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS dependents (
    id           TEXT PRIMARY KEY,
    applicant_id TEXT NOT NULL REFERENCES applicants(id),
    name         TEXT NOT NULL,
    national_id  TEXT NOT NULL,
    email        TEXT,
    phone        TEXT,
    address      TEXT,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS loans (
    id             TEXT PRIMARY KEY,
    applicant_id   TEXT NOT NULL REFERENCES applicants(id),
    responsible_id INTEGER NOT NULL REFERENCES users(id),
    item_id        TEXT NOT NULL REFERENCES items(id),
    reason         TEXT NOT NULL,
    return_date    DATETIME NOT NULL,
    is_active      INTEGER NOT NULL DEFAULT 1,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_stock ON items(stock_id);
CREATE INDEX IF NOT EXISTS idx_dependents_applicant ON dependents(applicant_id);
CREATE INDEX IF NOT EXISTS idx_loans_active ON loans(is_active, created_at);
`

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{}

// EnsureSchema creates all tables and indexes if they don't already exist,
// then applies pending migrations.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
