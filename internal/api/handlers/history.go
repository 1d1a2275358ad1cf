package handlers

import (
	"log"
	"net/http"
	"strconv"

	"starroute-service/internal/api/dto"
	"starroute-service/internal/ports"
)

const defaultHistoryLimit = 50

// HistoryHandler lists previously computed routes, newest first.
type HistoryHandler struct {
	History ports.RouteHistoryRepository
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = v
	}

	entries, err := h.History.List(r.Context(), limit)
	if err != nil {
		log.Printf("list route history failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListHistoryResponse{Entries: make([]dto.RouteHistoryEntryResponse, 0, len(entries))}
	for _, e := range entries {
		res.Entries = append(res.Entries, dto.RouteHistoryEntryResponse{
			ComputedAt:      e.ComputedAt,
			Optimized:       e.Optimized,
			Systems:         e.Systems,
			TotalDistanceLy: e.TotalDistanceLy,
			TotalJumps:      e.TotalJumps,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
