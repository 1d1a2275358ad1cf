package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"starroute-service/internal/api/dto"
	"starroute-service/internal/domain"
	"starroute-service/internal/ports"
)

// Resolver is the slice of the coordinate resolver the handlers need.
type Resolver interface {
	Resolve(ctx context.Context, name string) (domain.SystemPoint, error)
	ResolveAll(ctx context.Context, names []string) ([]domain.SystemPoint, error)
	Seed(points []domain.SystemPoint)
}

// SystemHandler resolves single systems for the UI's add-system flow.
type SystemHandler struct {
	Resolver Resolver
}

func (h *SystemHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}

	p, err := h.Resolver.Resolve(r.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrSystemNotFound):
			writeError(w, r, http.StatusNotFound, "system not found")
		case errors.Is(err, ports.ErrLookupFailed):
			log.Printf("system lookup failed: %v", err)
			writeError(w, r, http.StatusBadGateway, "coordinate lookup failed")
		default:
			log.Printf("resolve system failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SystemResponse{
		Name: p.Name,
		X:    p.Coords.X,
		Y:    p.Coords.Y,
		Z:    p.Coords.Z,
	})
}
