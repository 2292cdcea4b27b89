package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"monogrid/internal/database"
	"monogrid/internal/logging"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"error": message})
}

// writeJSONStatus writes a simple status response as JSON.
func writeJSONStatus(w http.ResponseWriter, status string) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"status": status})
}

// writeStoreError maps database-layer errors to HTTP responses.
func writeStoreError(w http.ResponseWriter, err error, notFoundMessage string) {
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, notFoundMessage, http.StatusNotFound)
		return
	}
	logging.Error("store error: %v", err)
	writeJSONError(w, "Internal error", http.StatusInternalServerError)
}

// queryInt reads a positive integer query parameter, returning def
// when the parameter is absent or malformed.
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
