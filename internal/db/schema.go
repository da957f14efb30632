package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS police_stations (
    station_id      INTEGER PRIMARY KEY,
    station_name    TEXT NOT NULL UNIQUE,
    station_address TEXT NOT NULL DEFAULT '',
    contact_no      TEXT NOT NULL DEFAULT '',
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS accounts (
    account_id    INTEGER PRIMARY KEY,
    role          TEXT NOT NULL CHECK (role IN ('citizen', 'police', 'admin')),
    name          TEXT NOT NULL,
    email         TEXT NOT NULL,
    phone         TEXT NOT NULL DEFAULT '',
    address       TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    status        TEXT NOT NULL DEFAULT 'Active' CHECK (status IN ('Active', 'Inactive')),
    language      TEXT NOT NULL DEFAULT 'en' CHECK (language IN ('en', 'hi', 'gu')),
    badge_number  TEXT,
    station_id    INTEGER REFERENCES police_stations(station_id),
    police_rank   TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_role_email ON accounts(role, email);
CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_badge
    ON accounts(badge_number) WHERE badge_number IS NOT NULL;

CREATE TABLE IF NOT EXISTS categories (
    category_id   INTEGER PRIMARY KEY,
    category_name TEXT NOT NULL UNIQUE,
    description   TEXT NOT NULL DEFAULT '',
    status        TEXT NOT NULL DEFAULT 'Active' CHECK (status IN ('Active', 'Inactive')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS locations (
    location_id   INTEGER PRIMARY KEY,
    location_name TEXT NOT NULL UNIQUE,
    status        TEXT NOT NULL DEFAULT 'Active' CHECK (status IN ('Active', 'Inactive')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS lost_items (
    lost_item_id INTEGER PRIMARY KEY,
    user_id      INTEGER REFERENCES accounts(account_id),
    police_id    INTEGER REFERENCES accounts(account_id),
    category_id  INTEGER NOT NULL REFERENCES categories(category_id),
    location_id  INTEGER NOT NULL REFERENCES locations(location_id),
    item_name    TEXT NOT NULL,
    description  TEXT NOT NULL,
    lost_date    TEXT NOT NULL,
    image_path   TEXT,
    contact_info TEXT NOT NULL DEFAULT '',
    status       TEXT NOT NULL DEFAULT 'Pending'
                 CHECK (status IN ('Pending', 'Approved', 'Rejected', 'Returned', 'Resolved')),
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK ((user_id IS NULL) <> (police_id IS NULL))
);

CREATE TABLE IF NOT EXISTS found_items (
    found_item_id INTEGER PRIMARY KEY,
    user_id       INTEGER REFERENCES accounts(account_id),
    police_id     INTEGER REFERENCES accounts(account_id),
    category_id   INTEGER NOT NULL REFERENCES categories(category_id),
    location_id   INTEGER NOT NULL REFERENCES locations(location_id),
    item_name     TEXT NOT NULL,
    description   TEXT NOT NULL,
    found_date    TEXT NOT NULL,
    image_path    TEXT,
    contact_info  TEXT NOT NULL DEFAULT '',
    status        TEXT NOT NULL DEFAULT 'Pending'
                  CHECK (status IN ('Pending', 'Approved', 'Rejected', 'Returned', 'Resolved')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK ((user_id IS NULL) <> (police_id IS NULL))
);

CREATE TABLE IF NOT EXISTS item_claims (
    claim_id                     INTEGER PRIMARY KEY,
    found_item_id                INTEGER NOT NULL REFERENCES found_items(found_item_id),
    lost_item_id                 INTEGER REFERENCES lost_items(lost_item_id),
    user_id                      INTEGER NOT NULL REFERENCES accounts(account_id),
    claim_reason                 TEXT NOT NULL,
    proof_description            TEXT NOT NULL,
    status                       TEXT NOT NULL DEFAULT 'Pending'
                                 CHECK (status IN ('Pending', 'Approved', 'Rejected')),
    reviewed_by                  INTEGER REFERENCES accounts(account_id),
    reviewed_at                  DATETIME,
    notes                        TEXT NOT NULL DEFAULT '',
    collected                    BOOLEAN NOT NULL DEFAULT 0,
    collected_by                 INTEGER REFERENCES accounts(account_id),
    collected_at                 DATETIME,
    citizen_confirmed_collection BOOLEAN NOT NULL DEFAULT 0,
    citizen_confirmed_at         DATETIME,
    created_at                   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_item_claims_citizen_found
    ON item_claims(user_id, found_item_id);

CREATE TABLE IF NOT EXISTS matched_reports (
    match_id          INTEGER PRIMARY KEY,
    lost_item_id      INTEGER REFERENCES lost_items(lost_item_id),
    found_item_id     INTEGER NOT NULL REFERENCES found_items(found_item_id),
    matched_by_police INTEGER NOT NULL REFERENCES accounts(account_id),
    status            TEXT NOT NULL DEFAULT 'Matched' CHECK (status IN ('Matched', 'Resolved')),
    notes             TEXT NOT NULL DEFAULT '',
    matched_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_matched_reports_pair
    ON matched_reports(lost_item_id, found_item_id);

CREATE TABLE IF NOT EXISTS notifications (
    notification_id   INTEGER PRIMARY KEY,
    account_id        INTEGER NOT NULL REFERENCES accounts(account_id),
    title             TEXT NOT NULL,
    message           TEXT NOT NULL,
    notification_type TEXT NOT NULL DEFAULT 'System'
                      CHECK (notification_type IN ('System', 'Report', 'Claim', 'Match', 'Admin')),
    is_read           BOOLEAN NOT NULL DEFAULT 0,
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_notifications_account ON notifications(account_id, is_read);

CREATE TABLE IF NOT EXISTS activity_log (
    log_id      INTEGER PRIMARY KEY,
    account_id  INTEGER NOT NULL,
    role        TEXT NOT NULL,
    action      TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    ip_address  TEXT NOT NULL DEFAULT '',
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
