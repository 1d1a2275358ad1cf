package db

import (
	"database/sql"
	"fmt"
	"time"
)

// OpenPostgres opens a pooled Postgres connection via the pgx stdlib driver.
func OpenPostgres(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openPostgres: open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openPostgres: verify connection: %w", err)
	}

	return db, nil
}

// OpenSqlite opens the embedded SQLite database used by the server process.
// SQLite serializes writers, so the pool is capped at a single connection.
func OpenSqlite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("openSqlite: open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openSqlite: verify database: %w", err)
	}

	return db, nil
}
