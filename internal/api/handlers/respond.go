package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/dom/web-ads-backend/internal/apperror"
)

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error       string       `json:"error"`
	FieldErrors []FieldError `json:"fieldErrors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// writeError maps the error to a status via the apperror table and
// renders its caller-facing message.
func writeError(w http.ResponseWriter, err error) {
	status := apperror.Status(err)
	if status == http.StatusInternalServerError {
		log.Printf("ERROR internal: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: apperror.Message(err)})
}

func writeFieldErrors(w http.ResponseWriter, fieldErrors []FieldError) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:       "validation failed",
		FieldErrors: fieldErrors,
	})
}
