package api

import (
	"net/http"

	"starroute-service/internal/api/handlers"
	"starroute-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(resolver handlers.Resolver, history ports.RouteHistoryRepository) http.Handler {
	mux := http.NewServeMux()

	systemHandler := &handlers.SystemHandler{Resolver: resolver}
	routeHandler := &handlers.RouteHandler{
		Resolver: resolver,
		History:  history,
	}
	historyHandler := &handlers.HistoryHandler{History: history}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/systems", systemHandler.Get)
	mux.HandleFunc("/routes", routeHandler.Plan)
	mux.HandleFunc("/routes/import", routeHandler.Import)
	mux.HandleFunc("/routes/export", routeHandler.Export)
	mux.HandleFunc("/history", historyHandler.List)

	return loggingMiddleware(mux)
}
