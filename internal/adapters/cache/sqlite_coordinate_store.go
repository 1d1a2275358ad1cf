package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"starroute-service/internal/domain"
)

// SQLite backed store mapping normalized system names to coordinates.
// Name keys are expected to be normalized (domain.NormalizeName) by the
// caller; the system's display casing is kept alongside.
type SqliteCoordinateStore struct {
	DB *sql.DB
}

func NewSqliteCoordinateStore(db *sql.DB) *SqliteCoordinateStore {
	return &SqliteCoordinateStore{DB: db}
}

// Fetch the cached point for a single normalized name.
func (s *SqliteCoordinateStore) Get(ctx context.Context, name string) (domain.SystemPoint, bool, error) {
	if s.DB == nil {
		return domain.SystemPoint{}, false, errors.New("coordinate store: db is nil")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.SystemPoint{}, false, errors.New("get coordinate store: name must not be empty")
	}

	q := `
	SELECT display_name, x, y, z
	FROM system_coordinates
	WHERE name = ?;
	`

	var p domain.SystemPoint
	err := s.DB.QueryRowContext(ctx, q, name).Scan(&p.Name, &p.Coords.X, &p.Coords.Y, &p.Coords.Z)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SystemPoint{}, false, nil
	}
	if err != nil {
		return domain.SystemPoint{}, false, fmt.Errorf("get coordinate store: query system_coordinates: %w", err)
	}

	return p, true, nil
}

// Fetch cached points for the given normalized names.
func (s *SqliteCoordinateStore) GetMany(ctx context.Context, names []string) (map[string]domain.SystemPoint, error) {
	if s.DB == nil {
		return nil, errors.New("coordinate store: db is nil")
	}

	if len(names) == 0 {
		return map[string]domain.SystemPoint{}, nil
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(names))
	ph := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}

		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		uniq = append(uniq, n)
		ph = append(ph, "?")
	}

	if len(uniq) == 0 {
		return map[string]domain.SystemPoint{}, nil
	}

	placeholders := strings.Join(ph, ",")
	args := make([]any, 0, len(uniq))
	for _, n := range uniq {
		args = append(args, n)
	}

	// SQLite does not support binding slices directly in an IN (...) clause.
	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := fmt.Sprintf(`
	SELECT name, display_name, x, y, z
	FROM system_coordinates
	WHERE name IN (%s);
	`, placeholders)

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get coordinate store: query system_coordinates: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.SystemPoint, len(uniq))
	for rows.Next() {
		var key string
		var p domain.SystemPoint
		if err := rows.Scan(&key, &p.Name, &p.Coords.X, &p.Coords.Y, &p.Coords.Z); err != nil {
			return nil, fmt.Errorf("get coordinate store: scan rows: %w", err)
		}
		out[key] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get coordinate store: row iteration: %w", err)
	}

	return out, nil
}

// Store name -> point mappings.
func (s *SqliteCoordinateStore) Put(ctx context.Context, points map[string]domain.SystemPoint) error {
	if s.DB == nil {
		return errors.New("coordinate store: db is nil")
	}

	if len(points) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert coordinate store: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO system_coordinates (
		name,
		display_name,
		x,
		y,
		z
	)
	VALUES (?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("insert coordinate store: db prepare: %w", err)
	}
	defer stmt.Close()

	for name, p := range points {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("insert coordinate store: empty name key")
		}

		if _, err := stmt.ExecContext(ctx, name, p.Name, p.Coords.X, p.Coords.Y, p.Coords.Z); err != nil {
			return fmt.Errorf("insert coordinate store name=%q: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert coordinate store commit: %w", err)
	}

	return nil
}
