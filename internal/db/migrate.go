package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are written in the subset of
// SQL shared by SQLite and Postgres and are safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ... ADD COLUMN is re-run on every start.
			if isDuplicateColumn(err) {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

func isDuplicateColumn(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate column name") ||
		(strings.Contains(msg, "column") && strings.Contains(msg, "already exists"))
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS deals (
		id            TEXT PRIMARY KEY,
		company_name  TEXT NOT NULL,
		country       TEXT NOT NULL DEFAULT '',
		sector        TEXT NOT NULL DEFAULT '',
		current_stage TEXT NOT NULL
		              CHECK(current_stage IN ('screening','due_diligence','investment_committee','monitoring','exited','rejected')),
		version       INTEGER NOT NULL CHECK(version > 0),
		payload       TEXT NOT NULL,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_deals_stage ON deals(current_stage)`,
	`CREATE INDEX IF NOT EXISTS idx_deals_updated ON deals(updated_at)`,

	`ALTER TABLE deals ADD COLUMN risk_category TEXT NOT NULL DEFAULT ''`,
	`CREATE INDEX IF NOT EXISTS idx_deals_risk ON deals(risk_category)`,

	// Lower-cased name, country and sector, one per line. The application
	// writes it on every save so case folding does not depend on the
	// database's LOWER(), which is ASCII-only in SQLite. The backfill is
	// corrected for non-ASCII names the next time a deal is saved.
	`ALTER TABLE deals ADD COLUMN search_text TEXT NOT NULL DEFAULT ''`,
	"UPDATE deals SET search_text = LOWER(company_name || '\n' || country || '\n' || sector) WHERE search_text = ''",
}
