package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres schema used by the shared coordinate cache.
func InitPostgresSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	query := `
	CREATE TABLE IF NOT EXISTS system_coordinates (
		name TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		x DOUBLE PRECISION NOT NULL,
		y DOUBLE PRECISION NOT NULL,
		z DOUBLE PRECISION NOT NULL
	);
	`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("init postgres schema: %w", err)
	}

	return nil
}
