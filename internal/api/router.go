package api

import (
	"dispatch-simulation-service/internal/api/handlers"
	"dispatch-simulation-service/internal/ports"
	"dispatch-simulation-service/internal/services"
	"net/http"
)

type Options struct {
	SnapshotInterval int
	Mirror           func(project, sessionID string) ports.ProgressSink
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	projects ports.ProjectRepository,
	results ports.ResultRepository,
	dispatcher *services.Dispatcher,
	opts Options,
) http.Handler {
	mux := http.NewServeMux()

	sessions := handlers.NewSessions()
	simHandler := &handlers.SimulationHandler{
		Projects:         projects,
		Results:          results,
		Dispatcher:       dispatcher,
		Sessions:         sessions,
		SnapshotInterval: opts.SnapshotInterval,
		Mirror:           opts.Mirror,
	}

	mux.HandleFunc("GET /health", handlers.Health(sessions))
	mux.HandleFunc("GET /simulations/{project}/run", simHandler.Run)
	mux.HandleFunc("POST /simulations/{session}/cancel", simHandler.Cancel)
	mux.HandleFunc("GET /simulations/{project}/result", simHandler.Result)
	mux.HandleFunc("GET /simulations/{project}/status", simHandler.Status)

	return loggingMiddleware(mux)
}
