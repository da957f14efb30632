package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: seed default portal settings.
	`INSERT OR IGNORE INTO settings (key, value) VALUES ('site_name', 'Rajkot E Milaap')`,
	`INSERT OR IGNORE INTO settings (key, value) VALUES ('contact_email', 'contact@rajkotemilaap.com')`,
}

// Migrate ensures the schema and runs the migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
