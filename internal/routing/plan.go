package routing

import (
	"context"
	"fmt"

	"starroute-service/internal/domain"
)

// CoordinateResolver is the slice of the resolver the planner needs.
type CoordinateResolver interface {
	ResolveAll(ctx context.Context, names []string) ([]domain.SystemPoint, error)
}

type PlanRequest struct {
	Systems []string
	// JumpRange, when non-nil, enables jump estimation and must be positive.
	JumpRange *float64
	// FixedStart pins the route to the first listed system.
	FixedStart bool
	// ExhaustiveStartLimit and MaxTwoOptSweeps override optimizer defaults
	// when > 0.
	ExhaustiveStartLimit int
	MaxTwoOptSweeps      int
}

// Plan holds both the route as entered and the optimized alternative.
type Plan struct {
	Entered   domain.Route
	Optimized domain.Route
}

// PlanRoute resolves system names to coordinates and computes the entered
// and optimized routes for them.
//
// Duplicate names (case-insensitive) collapse to their first occurrence.
// Resolution failures abort the whole plan; dropping an unresolved system
// and retrying is the caller's policy, as is recording the result.
func PlanRoute(ctx context.Context, req PlanRequest, resolver CoordinateResolver) (*Plan, error) {
	names := dedupeNames(req.Systems)
	if len(names) == 0 {
		return nil, fmt.Errorf("plan route: no systems supplied: %w", ErrInsufficientPoints)
	}

	points, err := resolver.ResolveAll(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("plan route: resolve systems: %w", err)
	}

	entered, err := InputOrderRoute(points, req.JumpRange)
	if err != nil {
		return nil, fmt.Errorf("plan route: entered route: %w", err)
	}

	optimized, err := Optimize(points, OptimizeOptions{
		FixedStart:           req.FixedStart,
		JumpRange:            req.JumpRange,
		ExhaustiveStartLimit: req.ExhaustiveStartLimit,
		MaxTwoOptSweeps:      req.MaxTwoOptSweeps,
	})
	if err != nil {
		return nil, fmt.Errorf("plan route: optimize: %w", err)
	}

	return &Plan{Entered: entered, Optimized: optimized}, nil
}

// dedupeNames drops blank and duplicate (case-insensitive) names, keeping
// first occurrences in order.
func dedupeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		key := domain.NormalizeName(name)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}
