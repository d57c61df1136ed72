package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// respondJSON writes payload as JSON with the given status.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("failed to encode response JSON", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, action string, err error) {
	respondMessage(w, status, action, err.Error())
}

func respondMessage(w http.ResponseWriter, status int, action, message string) {
	resp := map[string]any{"error": message}
	if action != "" {
		resp["action"] = action
	}
	respondJSON(w, status, resp)
}
