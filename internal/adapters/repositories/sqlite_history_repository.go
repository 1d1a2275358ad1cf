package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"starroute-service/internal/domain"
)

// SQLite-backed implementation of the RouteHistoryRepository port.
// Entries are append-only; List returns them newest first.
type SqliteHistoryRepository struct{ DB *sql.DB }

func NewSqliteHistoryRepository(db *sql.DB) *SqliteHistoryRepository {
	return &SqliteHistoryRepository{DB: db}
}

// Append records a route snapshot.
func (s *SqliteHistoryRepository) Append(ctx context.Context, entry domain.RouteHistoryEntry) error {
	if s.DB == nil {
		return errors.New("history repository: DB is nil")
	}

	systemsJSON, err := json.Marshal(entry.Systems)
	if err != nil {
		return fmt.Errorf("append history: marshal systems: %w", err)
	}

	computedAt := entry.ComputedAt
	if computedAt.IsZero() {
		computedAt = time.Now().UTC()
	}

	query := `
	INSERT INTO route_history (
		computed_at,
		optimized,
		systems,
		total_distance_ly,
		total_jumps
	)
	VALUES (?, ?, ?, ?, ?);
	`
	_, err = s.DB.ExecContext(ctx, query,
		computedAt.UTC().Format(time.RFC3339Nano),
		boolToInt(entry.Optimized),
		string(systemsJSON),
		entry.TotalDistanceLy,
		entry.TotalJumps,
	)
	if err != nil {
		return fmt.Errorf("append history: insert: %w", err)
	}

	return nil
}

// List returns recorded entries newest first, at most limit (limit <= 0
// means no bound).
func (s *SqliteHistoryRepository) List(ctx context.Context, limit int) ([]domain.RouteHistoryEntry, error) {
	if s.DB == nil {
		return nil, errors.New("history repository: DB is nil")
	}

	query := `
	SELECT computed_at, optimized, systems, total_distance_ly, total_jumps
	FROM route_history
	ORDER BY computed_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	query += ";"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: query route_history: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.RouteHistoryEntry, 0, 16)
	for rows.Next() {
		var computedAt string
		var optimized int
		var systemsJSON string
		var entry domain.RouteHistoryEntry

		if err := rows.Scan(&computedAt, &optimized, &systemsJSON, &entry.TotalDistanceLy, &entry.TotalJumps); err != nil {
			return nil, fmt.Errorf("list history: scan row: %w", err)
		}

		ts, err := time.Parse(time.RFC3339Nano, computedAt)
		if err != nil {
			return nil, fmt.Errorf("list history: parse timestamp %q: %w", computedAt, err)
		}
		entry.ComputedAt = ts
		entry.Optimized = optimized != 0

		if err := json.Unmarshal([]byte(systemsJSON), &entry.Systems); err != nil {
			return nil, fmt.Errorf("list history: parse systems: %w", err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list history: row iteration: %w", err)
	}

	return entries, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
