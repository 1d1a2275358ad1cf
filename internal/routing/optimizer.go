package routing

import (
	"fmt"
	"math"

	"starroute-service/internal/domain"
)

const (
	// DefaultExhaustiveStartLimit bounds the "try every point as a start"
	// search when no fixed start is given. Above this size the first input
	// point is used, keeping start selection O(N) instead of O(N^2) full
	// nearest-neighbor runs.
	DefaultExhaustiveStartLimit = 12

	// DefaultTwoOptSweeps caps full improvement sweeps over the tour.
	// Each sweep only applies strictly improving reversals, so the pass
	// terminates early once the tour is 2-opt optimal.
	DefaultTwoOptSweeps = 25

	// Reversals must beat this margin to count as an improvement, so
	// floating-point noise cannot cycle the 2-opt pass.
	improvementEpsilon = 1e-9
)

// OptimizeOptions controls route construction.
type OptimizeOptions struct {
	// FixedStart pins the route to begin at the first input point.
	// Otherwise the optimizer chooses the best candidate start.
	FixedStart bool

	// JumpRange, when non-nil, enables per-leg jump estimation and must be
	// positive.
	JumpRange *float64

	// ExhaustiveStartLimit overrides DefaultExhaustiveStartLimit when > 0.
	ExhaustiveStartLimit int

	// MaxTwoOptSweeps overrides DefaultTwoOptSweeps when > 0.
	MaxTwoOptSweeps int
}

// Optimize produces a visiting order approximating the shortest path through
// all points: greedy nearest-neighbor construction followed by a 2-opt
// improvement pass. Stateless and deterministic: ties always break to the
// earliest-input-order candidate.
//
// Fails with ErrInsufficientPoints for an empty input and
// ErrInvalidJumpRange when a non-positive jump range is supplied.
func Optimize(points []domain.SystemPoint, opts OptimizeOptions) (domain.Route, error) {
	if len(points) == 0 {
		return domain.Route{}, fmt.Errorf("optimize: no points supplied: %w", ErrInsufficientPoints)
	}
	if err := validateJumpRange(opts.JumpRange); err != nil {
		return domain.Route{}, fmt.Errorf("optimize: %w", err)
	}

	if len(points) == 1 {
		return buildSingle(points[0]), nil
	}

	m, err := NewDistanceMatrix(points)
	if err != nil {
		return domain.Route{}, fmt.Errorf("optimize: %w", err)
	}

	startLimit := opts.ExhaustiveStartLimit
	if startLimit <= 0 {
		startLimit = DefaultExhaustiveStartLimit
	}
	sweeps := opts.MaxTwoOptSweeps
	if sweeps <= 0 {
		sweeps = DefaultTwoOptSweeps
	}

	starts := []int{0}
	if !opts.FixedStart && m.Len() <= startLimit {
		starts = make([]int, m.Len())
		for i := range starts {
			starts[i] = i
		}
	}

	var bestOrder []int
	bestTotal := math.Inf(1)
	for _, s := range starts {
		order := nearestNeighborOrder(m, s)
		order = twoOpt(m, order, sweeps)
		if total := orderDistance(m, order); total < bestTotal-improvementEpsilon {
			bestTotal = total
			bestOrder = order
		}
	}

	// The heuristic must never do worse than the order the caller entered.
	// The entered order begins at the first input point, which is a valid
	// start under every start-selection mode.
	inputOrder := make([]int, m.Len())
	for i := range inputOrder {
		inputOrder[i] = i
	}
	if orderDistance(m, inputOrder) < bestTotal-improvementEpsilon {
		bestOrder = inputOrder
	}

	return buildRoute(m, bestOrder, opts.JumpRange), nil
}

// InputOrderRoute builds the naive route visiting points exactly in the
// order supplied, for comparison against the optimized route.
func InputOrderRoute(points []domain.SystemPoint, jumpRange *float64) (domain.Route, error) {
	if len(points) == 0 {
		return domain.Route{}, fmt.Errorf("input-order route: no points supplied: %w", ErrInsufficientPoints)
	}
	if err := validateJumpRange(jumpRange); err != nil {
		return domain.Route{}, fmt.Errorf("input-order route: %w", err)
	}
	if len(points) == 1 {
		return buildSingle(points[0]), nil
	}

	m, err := NewDistanceMatrix(points)
	if err != nil {
		return domain.Route{}, fmt.Errorf("input-order route: %w", err)
	}

	order := make([]int, m.Len())
	for i := range order {
		order[i] = i
	}
	return buildRoute(m, order, jumpRange), nil
}

// LegJumps estimates the hop count for one leg: ceil(distance / jumpRange),
// zero for a zero-distance leg or a non-positive jump range (range
// validation belongs to the route-building entry points).
func LegJumps(distanceLy, jumpRange float64) int {
	if distanceLy <= 0 || jumpRange <= 0 {
		return 0
	}
	jumps := int(math.Ceil(distanceLy / jumpRange))
	if jumps < 1 {
		jumps = 1
	}
	return jumps
}

func validateJumpRange(jumpRange *float64) error {
	if jumpRange != nil && *jumpRange <= 0 {
		return fmt.Errorf("jump range %v: %w", *jumpRange, ErrInvalidJumpRange)
	}
	return nil
}

// nearestNeighborOrder repeatedly appends the unvisited point closest to the
// last one. Strict "<" comparison over ascending indices keeps ties on the
// earliest-input-order candidate.
func nearestNeighborOrder(m *DistanceMatrix, start int) []int {
	n := m.Len()
	visited := make([]bool, n)
	order := make([]int, 0, n)

	order = append(order, start)
	visited[start] = true

	current := start
	for len(order) < n {
		next := -1
		minDist := math.Inf(1)
		for cand := 0; cand < n; cand++ {
			if visited[cand] {
				continue
			}
			if d := m.At(current, cand); d < minDist {
				minDist = d
				next = cand
			}
		}
		order = append(order, next)
		visited[next] = true
		current = next
	}

	return order
}

// twoOpt repeatedly reverses tour segments whenever doing so strictly
// shortens the open path, until a sweep finds no improvement or maxSweeps
// is reached. The start point stays pinned at index 0.
func twoOpt(m *DistanceMatrix, order []int, maxSweeps int) []int {
	n := len(order)
	if n < 3 {
		return order
	}

	for sweep := 0; sweep < maxSweeps; sweep++ {
		improved := false
		for i := 1; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				// Reversing order[i..j] replaces edges (i-1,i) and (j,j+1);
				// the trailing edge does not exist for an open path end.
				delta := m.At(order[i-1], order[j]) - m.At(order[i-1], order[i])
				if j < n-1 {
					delta += m.At(order[i], order[j+1]) - m.At(order[j], order[j+1])
				}
				if delta < -improvementEpsilon {
					reverse(order, i, j)
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}

	return order
}

func reverse(order []int, i, j int) {
	for i < j {
		order[i], order[j] = order[j], order[i]
		i++
		j--
	}
}

func orderDistance(m *DistanceMatrix, order []int) float64 {
	var total float64
	for i := 0; i < len(order)-1; i++ {
		total += m.At(order[i], order[i+1])
	}
	return total
}

func buildSingle(p domain.SystemPoint) domain.Route {
	return domain.Route{Points: []domain.SystemPoint{p}, Legs: []domain.Leg{}}
}

// buildRoute assembles a Route for a visiting order, recomputing leg and
// total distances from the matrix so totals are never stale.
func buildRoute(m *DistanceMatrix, order []int, jumpRange *float64) domain.Route {
	points := make([]domain.SystemPoint, 0, len(order))
	for _, idx := range order {
		points = append(points, m.Point(idx))
	}

	legs := make([]domain.Leg, 0, len(order)-1)
	var total float64
	var totalJumps int
	for i := 0; i < len(order)-1; i++ {
		d := m.At(order[i], order[i+1])
		total += d

		leg := domain.Leg{
			From:       m.Point(order[i]).Name,
			To:         m.Point(order[i+1]).Name,
			DistanceLy: d,
		}
		if jumpRange != nil {
			leg.Jumps = LegJumps(d, *jumpRange)
			totalJumps += leg.Jumps
		}
		legs = append(legs, leg)
	}

	return domain.Route{
		Points:          points,
		Legs:            legs,
		TotalDistanceLy: total,
		TotalJumps:      totalJumps,
	}
}
