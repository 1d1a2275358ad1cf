package domain

import "time"

// Represents one consecutive edge of a route between two adjacent systems.
// Jumps is the estimated hop count for the leg when a jump range was supplied
// to the planner, and zero otherwise.
type Leg struct {
	From       string
	To         string
	DistanceLy float64
	Jumps      int
}

// Represents an ordered visiting sequence over a set of systems.
// A Route is the output of the optimizer (or the naive entered-order
// builder) and is immutable planning data: TotalDistanceLy is always the
// sum of its own legs, and TotalJumps the sum of per-leg estimates.
type Route struct {
	Points          []SystemPoint
	Legs            []Leg
	TotalDistanceLy float64
	TotalJumps      int
}

// SystemNames returns the visiting order as a list of names.
func (r Route) SystemNames() []string {
	names := make([]string, 0, len(r.Points))
	for _, p := range r.Points {
		names = append(names, p.Name)
	}
	return names
}

// A snapshot of a previously computed route. Entries are append-only and
// read-only once created; presentation shows them newest first.
type RouteHistoryEntry struct {
	ComputedAt      time.Time
	Optimized       bool
	Systems         []string
	TotalDistanceLy float64
	TotalJumps      int
}
