package ports

import (
	"context"

	"starroute-service/internal/domain"
)

// Port: a persistent cache mapping normalized system names to coordinates.
// Keys are expected to be normalized (domain.NormalizeName) by the caller.
type CoordinateStore interface {
	// Get returns the cached point for one normalized name.
	Get(ctx context.Context, name string) (domain.SystemPoint, bool, error)
	// GetMany returns cached points keyed by normalized name; missing names
	// are simply absent from the result.
	GetMany(ctx context.Context, names []string) (map[string]domain.SystemPoint, error)
	// Put stores name -> point mappings keyed by normalized name.
	Put(ctx context.Context, points map[string]domain.SystemPoint) error
}
