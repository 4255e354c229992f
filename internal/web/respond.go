package web

import (
	"encoding/json"
	"net/http"

	"github.com/jobtrackr/backend/internal/validate"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Fail writes the standard failure envelope.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// ValidationFailed writes the failure envelope carrying field-level messages.
func ValidationFailed(w http.ResponseWriter, errs []validate.FieldError) {
	JSON(w, http.StatusBadRequest, map[string]interface{}{
		"success": false,
		"error":   errs,
	})
}
