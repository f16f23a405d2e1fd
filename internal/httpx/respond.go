// Package httpx has the JSON response helpers shared by module handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/georgemunganga/fuelnow-backend/internal/apperr"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type mapping struct {
	err    error
	status int
	code   string
}

// Order matters: the first match wins.
var mappings = []mapping{
	{apperr.ErrInvalidFuelType, http.StatusBadRequest, "invalid_fuel_type"},
	{apperr.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity"},
	{apperr.ErrInvalidPrice, http.StatusBadRequest, "invalid_price"},
	{apperr.ErrInvalidAddress, http.StatusBadRequest, "invalid_address"},
	{apperr.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{apperr.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
	{apperr.ErrNotAuthorized, http.StatusForbidden, "not_authorized"},
	{apperr.ErrNotFound, http.StatusNotFound, "not_found"},
	{apperr.ErrIllegalTransition, http.StatusUnprocessableEntity, "illegal_transition"},
	{apperr.ErrStaleState, http.StatusConflict, "stale_state"},
	{apperr.ErrConflict, http.StatusConflict, "conflict"},
	{apperr.ErrBackendUnavailable, http.StatusServiceUnavailable, "backend_unavailable"},
}

// Status maps err to an HTTP status code and a stable error code.
func Status(err error) (int, string) {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal"
}

// Respond writes body as JSON with the given status.
func Respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Error writes err using the taxonomy mapping. Backend failures are reported
// with a generic message; the detail only goes to the log.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status, code := Status(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		msg = "temporarily unavailable, please try again"
	}
	Respond(w, status, ErrorBody{Error: code, Message: msg})
}

// Decode reads a JSON body into dst. Malformed bodies are reported as
// ErrInvalidInput.
func Decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed body: %v", apperr.ErrInvalidInput, err)
	}
	return nil
}
