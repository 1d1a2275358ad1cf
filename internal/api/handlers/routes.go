package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"starroute-service/internal/adapters/csvio"
	"starroute-service/internal/api/dto"
	"starroute-service/internal/domain"
	"starroute-service/internal/ports"
	"starroute-service/internal/routing"
)

// Hard bound on systems per plan; the optimizer is heuristic but the
// handler still refuses absurd inputs.
const maxSystemsPerPlan = 200

// RouteHandler computes, imports and exports routes.
type RouteHandler struct {
	Resolver Resolver
	History  ports.RouteHistoryRepository

	mu       sync.Mutex
	lastPlan []domain.SystemPoint // optimized order of the last computed plan
}

// Plan orchestrates name resolution and route optimization.
func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRouteRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if len(req.Systems) == 0 {
		writeError(w, r, http.StatusBadRequest, "systems is required")
		return
	}
	if len(req.Systems) > maxSystemsPerPlan {
		writeError(w, r, http.StatusBadRequest, "too many systems")
		return
	}

	plan, err := routing.PlanRoute(r.Context(), routing.PlanRequest{
		Systems:    req.Systems,
		JumpRange:  req.JumpRange,
		FixedStart: req.FixedStart,
	}, h.Resolver)
	if err != nil {
		writePlanError(w, r, err)
		return
	}

	h.rememberPlan(r.Context(), plan)
	writeJSON(w, r, http.StatusOK, planResponse(plan))
}

// Import seeds the resolver from a CSV body (System Name, X, Y, Z) and
// plans a route over the imported systems when at least two are present.
// An optional jump_range query parameter enables jump estimation.
func (h *RouteHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	defer r.Body.Close()

	points, err := csvio.ReadPoints(r.Body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(points) == 0 {
		writeError(w, r, http.StatusBadRequest, "no systems in document")
		return
	}

	var jumpRange *float64
	if raw := r.URL.Query().Get("jump_range"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "jump_range must be a number")
			return
		}
		jumpRange = &v
	}

	// Imported coordinates are authoritative; later resolves skip EDSM.
	h.Resolver.Seed(points)

	res := dto.ImportRouteResponse{Imported: len(points)}

	if len(points) >= 2 {
		names := make([]string, 0, len(points))
		for _, p := range points {
			names = append(names, p.Name)
		}

		plan, err := routing.PlanRoute(r.Context(), routing.PlanRequest{
			Systems:    names,
			JumpRange:  jumpRange,
			FixedStart: true,
		}, h.Resolver)
		if err != nil {
			writePlanError(w, r, err)
			return
		}

		h.rememberPlan(r.Context(), plan)
		pr := planResponse(plan)
		res.Plan = &pr
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Export streams the most recently planned route as CSV.
func (h *RouteHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	h.mu.Lock()
	points := h.lastPlan
	h.mu.Unlock()

	if len(points) == 0 {
		writeError(w, r, http.StatusNotFound, "no route has been planned yet")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="route_export.csv"`)
	if err := csvio.WritePoints(w, points); err != nil {
		log.Printf("export route failed: %v", err)
	}
}

// rememberPlan keeps the optimized order for export and records both routes
// in the history. A history write failure is logged and does not fail the
// request: the plan was already computed.
func (h *RouteHandler) rememberPlan(ctx context.Context, plan *routing.Plan) {
	h.mu.Lock()
	h.lastPlan = plan.Optimized.Points
	h.mu.Unlock()

	if h.History == nil {
		return
	}

	now := time.Now().UTC()
	for _, rec := range []struct {
		route     domain.Route
		optimized bool
	}{
		{plan.Entered, false},
		{plan.Optimized, true},
	} {
		entry := domain.RouteHistoryEntry{
			ComputedAt:      now,
			Optimized:       rec.optimized,
			Systems:         rec.route.SystemNames(),
			TotalDistanceLy: rec.route.TotalDistanceLy,
			TotalJumps:      rec.route.TotalJumps,
		}
		if err := h.History.Append(ctx, entry); err != nil {
			log.Printf("route history write failed: %v", err)
		}
	}
}

func writePlanError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, routing.ErrInsufficientPoints):
		writeError(w, r, http.StatusBadRequest, "at least one system is required")
	case errors.Is(err, routing.ErrInvalidJumpRange):
		writeError(w, r, http.StatusBadRequest, "jump_range must be positive")
	case errors.Is(err, ports.ErrSystemNotFound):
		writeError(w, r, http.StatusNotFound, "system not found")
	case errors.Is(err, ports.ErrLookupFailed):
		log.Printf("coordinate lookup failed: %v", err)
		writeError(w, r, http.StatusBadGateway, "coordinate lookup failed")
	default:
		log.Printf("plan route failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func planResponse(plan *routing.Plan) dto.PlanRouteResponse {
	return dto.PlanRouteResponse{
		Entered:   routeResponse(plan.Entered),
		Optimized: routeResponse(plan.Optimized),
	}
}

func routeResponse(route domain.Route) dto.RouteResponse {
	legs := make([]dto.LegResponse, 0, len(route.Legs))
	for _, leg := range route.Legs {
		legs = append(legs, dto.LegResponse{
			From:       leg.From,
			To:         leg.To,
			DistanceLy: leg.DistanceLy,
			Jumps:      leg.Jumps,
		})
	}

	return dto.RouteResponse{
		Systems:         route.SystemNames(),
		Legs:            legs,
		TotalDistanceLy: route.TotalDistanceLy,
		TotalJumps:      route.TotalJumps,
	}
}
