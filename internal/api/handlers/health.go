package handlers

import (
	"net/http"
)

// Health provides a minimal liveness check endpoint that also reports how
// many simulations are running.
func Health(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := map[string]any{
			"status":            "ok",
			"activeSimulations": sessions.Len(),
		}
		writeJSON(w, r, http.StatusOK, res)
	}
}
