package ports

import (
	"context"
	"errors"

	"starroute-service/internal/domain"
)

// ErrSystemNotFound reports that the external source does not know the
// system. Recoverable: the caller may prompt for a corrected name.
var ErrSystemNotFound = errors.New("system not found")

// ErrLookupFailed reports a transport-level failure (network error, timeout,
// malformed response). Recoverable via caller-driven retry.
var ErrLookupFailed = errors.New("coordinate lookup failed")

// Contract for resolving a system name to galactic coordinates through an
// external star-map service.
type CoordinateSource interface {
	// Lookup returns the system's canonical name and coordinates.
	// Fails with ErrSystemNotFound or ErrLookupFailed (possibly wrapped).
	Lookup(ctx context.Context, name string) (domain.SystemPoint, error)
}
