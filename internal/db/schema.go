package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
//
// partial_nsn is indexed but not unique: uniqueness is checked by the
// store before insert, not enforced here.
const schema = `
CREATE TABLE IF NOT EXISTS equipment (
    id           TEXT PRIMARY KEY,
    lin          TEXT NOT NULL,
    nomenclature TEXT NOT NULL,
    partial_nsn  TEXT NOT NULL CHECK (length(partial_nsn) = 4),
    another_name TEXT NOT NULL DEFAULT '',
    size         TEXT NOT NULL DEFAULT '',
    image        TEXT,
    created_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equipment_partial_nsn ON equipment(partial_nsn);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
