package handlers

import (
	"encoding/json"
	"net/http"
)

// ErrMessageInternal is the body of every 500. Store and model failures go to
// the log; the client never sees backend detail.
const ErrMessageInternal = "internal server error"

// JSONError sends a JSON error response with a single "error" field. Every
// non-2xx response from the API uses this shape.
func JSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// JSONValidationError adds a "fields" map to the error body so clients can
// attach messages to individual form inputs (register, login, question).
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	out := map[string]interface{}{"error": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	json.NewEncoder(w).Encode(out)
}
