package routing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"starroute-service/internal/domain"
	"starroute-service/internal/ports"
)

type stubResolver struct {
	points map[string]domain.SystemPoint
	calls  int
}

func (s *stubResolver) ResolveAll(ctx context.Context, names []string) ([]domain.SystemPoint, error) {
	s.calls++
	out := make([]domain.SystemPoint, 0, len(names))
	for _, n := range names {
		p, ok := s.points[domain.NormalizeName(n)]
		if !ok {
			return nil, fmt.Errorf("resolve %q: %w", n, ports.ErrSystemNotFound)
		}
		out = append(out, p)
	}
	return out, nil
}

func triangleResolver() *stubResolver {
	return &stubResolver{points: map[string]domain.SystemPoint{
		"sol":   {Name: "Sol"},
		"alpha": {Name: "Alpha", Coords: domain.Coordinates{X: 3}},
		"beta":  {Name: "Beta", Coords: domain.Coordinates{X: 3, Y: 4}},
	}}
}

func TestPlanRouteEnteredAndOptimized(t *testing.T) {
	resolver := triangleResolver()

	plan, err := PlanRoute(context.Background(), PlanRequest{
		Systems:    []string{"Sol", "Beta", "Alpha"},
		JumpRange:  jumpRange(3.5),
		FixedStart: true,
	}, resolver)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Entered order Sol->Beta->Alpha is 5+4=9; optimized is 7.
	if plan.Entered.TotalDistanceLy != 9 {
		t.Errorf("entered total = %v, want 9", plan.Entered.TotalDistanceLy)
	}
	if plan.Optimized.TotalDistanceLy != 7 {
		t.Errorf("optimized total = %v, want 7", plan.Optimized.TotalDistanceLy)
	}
	if plan.Optimized.TotalDistanceLy > plan.Entered.TotalDistanceLy {
		t.Error("optimized route worse than entered route")
	}
}

func TestPlanRouteDeduplicatesNames(t *testing.T) {
	resolver := triangleResolver()

	plan, err := PlanRoute(context.Background(), PlanRequest{
		Systems:    []string{"Sol", "sol ", "Alpha", "SOL"},
		FixedStart: true,
	}, resolver)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(plan.Optimized.Points); got != 2 {
		t.Fatalf("points = %d, want 2 after dedupe", got)
	}
}

func TestPlanRouteNoSystems(t *testing.T) {
	_, err := PlanRoute(context.Background(), PlanRequest{Systems: []string{"", "  "}}, triangleResolver())
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("err = %v, want ErrInsufficientPoints", err)
	}
}

func TestPlanRouteUnresolvedSystemAborts(t *testing.T) {
	_, err := PlanRoute(context.Background(), PlanRequest{
		Systems: []string{"Sol", "Nowhere"},
	}, triangleResolver())
	if !errors.Is(err, ports.ErrSystemNotFound) {
		t.Fatalf("err = %v, want ErrSystemNotFound", err)
	}
}

func TestPlanRouteSingleSystem(t *testing.T) {
	plan, err := PlanRoute(context.Background(), PlanRequest{
		Systems: []string{"Sol"},
	}, triangleResolver())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Optimized.TotalDistanceLy != 0 || len(plan.Optimized.Legs) != 0 {
		t.Fatalf("single-system plan = %+v, want zero-distance route with no legs", plan.Optimized)
	}
}
