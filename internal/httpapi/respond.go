package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/formation/products-api/internal/errs"
)

// WriteJSON writes payload as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError maps err onto its HTTP status and writes a JSON error body.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, errs.HTTPStatus(err), map[string]any{"error": err.Error()})
}

// WriteErrorMessage writes a JSON error body with an explicit status.
func WriteErrorMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]any{"error": message})
}
