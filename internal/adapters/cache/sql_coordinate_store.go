package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"starroute-service/internal/domain"
	"starroute-service/internal/platform/obs"
)

// SQLCoordinateStore is a Postgres-backed store mapping normalized system
// names to coordinates.
type SQLCoordinateStore struct {
	DB *sql.DB
}

func NewSQLCoordinateStore(db *sql.DB) *SQLCoordinateStore {
	return &SQLCoordinateStore{DB: db}
}

// Fetch the cached point for a single normalized name.
func (s *SQLCoordinateStore) Get(ctx context.Context, name string) (domain.SystemPoint, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.SystemPoint{}, false, errors.New("get coordinate store: name must not be empty")
	}

	hits, err := s.GetMany(ctx, []string{name})
	if err != nil {
		return domain.SystemPoint{}, false, err
	}

	p, ok := hits[name]
	return p, ok, nil
}

// Fetch cached points for the given normalized names.
func (s *SQLCoordinateStore) GetMany(
	ctx context.Context,
	names []string,
) (_ map[string]domain.SystemPoint, err error) {
	defer obs.Time(ctx, "coordinate.store.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("coordinate store: db is nil")
	}

	if len(names) == 0 {
		return map[string]domain.SystemPoint{}, nil
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(names))
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
	}

	if len(uniq) == 0 {
		return map[string]domain.SystemPoint{}, nil
	}

	q := `
	SELECT name, display_name, x, y, z
	FROM system_coordinates
	WHERE name = ANY($1::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq)
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
func (s *SQLCoordinateStore) Put(ctx context.Context, points map[string]domain.SystemPoint) error {
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
	INSERT INTO system_coordinates (name, display_name, x, y, z)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (name) DO UPDATE
	SET display_name = EXCLUDED.display_name,
		x = EXCLUDED.x,
		y = EXCLUDED.y,
		z = EXCLUDED.z;
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
