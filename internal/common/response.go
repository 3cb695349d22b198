package common

import (
	"encoding/json"
	"errors"
	"net/http"
)

// JSON writes the provided value to the response writer as JSON.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK wraps data in the success envelope shared by every endpoint.
func OK(w http.ResponseWriter, status int, data any) {
	JSON(w, status, map[string]any{"ok": true, "data": data})
}

// JSONError renders an error response using the canonical envelope.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]any{"ok": false, "error": message})
}

// Fail maps an error to the envelope, honouring AppError status and message
// and hiding internal detail for anything else.
func Fail(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		JSONError(w, status, appErr.Message)
		return
	}
	JSONError(w, http.StatusInternalServerError, "Internal server error")
}
