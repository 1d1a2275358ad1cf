package dto

import "time"

type PlanRouteRequest struct {
	Systems    []string `json:"systems"`
	JumpRange  *float64 `json:"jump_range"`
	FixedStart bool     `json:"fixed_start"`
}

type LegResponse struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	DistanceLy float64 `json:"distance_ly"`
	Jumps      int     `json:"jumps,omitempty"`
}

type RouteResponse struct {
	Systems         []string      `json:"systems"`
	Legs            []LegResponse `json:"legs"`
	TotalDistanceLy float64       `json:"total_distance_ly"`
	TotalJumps      int           `json:"total_jumps,omitempty"`
}

type PlanRouteResponse struct {
	Entered   RouteResponse `json:"entered"`
	Optimized RouteResponse `json:"optimized"`
}

type ImportRouteResponse struct {
	Imported int                `json:"imported"`
	Plan     *PlanRouteResponse `json:"plan,omitempty"`
}

type RouteHistoryEntryResponse struct {
	ComputedAt      time.Time `json:"computed_at"`
	Optimized       bool      `json:"optimized"`
	Systems         []string  `json:"systems"`
	TotalDistanceLy float64   `json:"total_distance_ly"`
	TotalJumps      int       `json:"total_jumps,omitempty"`
}

type ListHistoryResponse struct {
	Entries []RouteHistoryEntryResponse `json:"entries"`
}
