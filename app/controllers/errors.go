package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"chirper/app/services"
	"chirper/log"
)

// sendJSON writes data as a JSON response with the given status.
func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// sendError maps a service error onto an HTTP status and writes a JSON
// error body. Errors outside the service taxonomy are reported as
// internal without leaking their message.
func sendError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	default:
		log.Error.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}

	sendJSON(w, status, map[string]string{"error": message})
}

// decodeJSON parses the request body into dst. Malformed input is a
// validation error.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", services.ErrValidation)
	}
	return nil
}
