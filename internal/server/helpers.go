package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// writeJSON encodes v as the response body
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// formatFitness renders a fitness with a marker for goal-reaching scores
func formatFitness(f float64) string {
	if f < 0 {
		return fmt.Sprintf("%.4f (solved)", f)
	}
	return fmt.Sprintf("%.4f", f)
}
