package ports

import (
	"context"

	"starroute-service/internal/domain"
)

// Port: append-only storage of computed routes.
type RouteHistoryRepository interface {
	// Append records a route snapshot.
	Append(ctx context.Context, entry domain.RouteHistoryEntry) error
	// List returns recorded entries newest first, at most limit
	// (limit <= 0 means no bound).
	List(ctx context.Context, limit int) ([]domain.RouteHistoryEntry, error)
}
