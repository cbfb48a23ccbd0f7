package handler

import (
	"net/http"

	"github.com/mcoot/crystalclicker/internal/api/apierr"
	"github.com/mcoot/crystalclicker/internal/metrics"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// outcome returns the action outcome label for err
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return apierr.Code(err)
}

// observe records the outcome of an engine action
func observe(m *metrics.Metrics, action string, err error) {
	m.ObserveAction(action, outcome(err))
}
