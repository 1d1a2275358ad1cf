package routing

import (
	"fmt"

	"starroute-service/internal/domain"
)

// DistanceMatrix holds pairwise Euclidean distances for a set of points.
//
// The matrix is symmetric with a zero diagonal and is derived data: it is
// rebuilt whenever the input set changes and never mutated in place. Safe
// for concurrent reads.
type DistanceMatrix struct {
	points []domain.SystemPoint
	dist   [][]float64
}

// NewDistanceMatrix computes the full pairwise distance matrix.
//
// Points must be distinct by normalized name. Fails with
// ErrInsufficientPoints when fewer than two points are supplied.
func NewDistanceMatrix(points []domain.SystemPoint) (*DistanceMatrix, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("distance matrix: need at least 2 points, got %d: %w",
			len(points), ErrInsufficientPoints)
	}

	seen := make(map[string]struct{}, len(points))
	for _, p := range points {
		key := domain.NormalizeName(p.Name)
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("distance matrix: duplicate system %q", p.Name)
		}
		seen[key] = struct{}{}
	}

	n := len(points)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := points[i].Coords.DistanceTo(points[j].Coords)
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	cp := make([]domain.SystemPoint, n)
	copy(cp, points)

	return &DistanceMatrix{points: cp, dist: dist}, nil
}

// Len returns the number of points in the matrix.
func (m *DistanceMatrix) Len() int { return len(m.points) }

// Point returns the point at index i in input order.
func (m *DistanceMatrix) Point(i int) domain.SystemPoint { return m.points[i] }

// At returns the distance between the points at indices i and j.
func (m *DistanceMatrix) At(i, j int) float64 { return m.dist[i][j] }
