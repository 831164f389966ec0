package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

const (
	ContentTypeJSON     = "application/json"
	ContentTypeJSONUTF8 = "application/json;charset=UTF-8"
)

// RespondJSON writes payload as JSON with the given status.
func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	writeJSON(w, logger, status, ContentTypeJSON, payload)
}

// RespondError writes the standard error payload {"error": message}.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, contentType string, payload any) {
	// Handle nil payload
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// ParseIntID extracts the integer ID from the request path. Returns the ID and a boolean indicating success.
func ParseIntID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (int, bool) {
	pathValueID := r.PathValue("id")
	id, err := strconv.Atoi(pathValueID)
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("invalid product id: %s", pathValueID))
		return 0, false
	}
	return id, true
}
