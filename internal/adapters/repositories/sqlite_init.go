package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"starroute-service/internal/adapters/csvio"
	"starroute-service/internal/domain"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createCoordinatesQuery := `
	CREATE TABLE IF NOT EXISTS system_coordinates (
		name TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		z REAL NOT NULL
	);
	`

	createHistoryQuery := `
	CREATE TABLE IF NOT EXISTS route_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		computed_at TEXT NOT NULL,
		optimized INTEGER NOT NULL,
		systems TEXT NOT NULL,
		total_distance_ly REAL NOT NULL,
		total_jumps INTEGER NOT NULL
	);
	`

	createHistoryIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_history_computed_at
	ON route_history(computed_at DESC, id DESC);
	`

	statements := []string{
		createCoordinatesQuery,
		createHistoryQuery,
		createHistoryIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate the coordinate cache with known systems from a CSV file
// (System Name, X, Y, Z). Missing file is not an error: the cache simply
// starts cold.
func SeedFromCSV(db *sql.DB, csvPath string) (int, error) {
	f, err := os.Open(csvPath)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("seed systems: open %q: %w", csvPath, err)
	}
	defer f.Close()

	return seedFromReader(db, f)
}

func seedFromReader(db *sql.DB, r io.Reader) (int, error) {
	points, err := csvio.ReadPoints(r)
	if err != nil {
		return 0, fmt.Errorf("seed systems: %w", err)
	}
	if len(points) == 0 {
		return 0, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("seed systems: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT OR REPLACE INTO system_coordinates (
		name,
		display_name,
		x,
		y,
		z
	)
	VALUES (?, ?, ?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("seed systems: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		key := domain.NormalizeName(p.Name)
		if _, err := stmt.Exec(key, p.Name, p.Coords.X, p.Coords.Y, p.Coords.Z); err != nil {
			return 0, fmt.Errorf("seed systems: insert %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed systems: commit tx: %w", err)
	}

	return len(points), nil
}
