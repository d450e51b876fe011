package handlers

import (
	"errors"
	"net/http"

	"github.com/tripnest/server/internal/gateway"
	"github.com/tripnest/server/internal/services"
)

// statusForError maps the service/gateway error taxonomy to HTTP status
// codes: validation and gateway rejections are the caller's problem, missing
// credentials and unreachable gateways are ours.
func statusForError(err error) int {
	var validation *services.ValidationError
	var rejected *gateway.RejectedError
	var unavailable *gateway.UnavailableError

	switch {
	case errors.Is(err, gateway.ErrNotConfigured):
		return http.StatusInternalServerError
	case errors.As(err, &rejected):
		return http.StatusBadRequest
	case errors.As(err, &unavailable):
		return http.StatusInternalServerError
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
