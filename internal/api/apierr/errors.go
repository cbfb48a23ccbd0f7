package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mcoot/crystalclicker/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodePlayerNotFound       = "PLAYER_NOT_FOUND"
	CodeUsernameExists       = "USERNAME_EXISTS"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeInsufficientCurrency = "INSUFFICIENT_CURRENCY"
	CodeInsufficientPoints   = "INSUFFICIENT_POINTS"
	CodeInvalidKind          = "INVALID_KIND"
	CodeInvalidCategory      = "INVALID_CATEGORY"
	CodeNoBoxesAvailable     = "NO_BOXES_AVAILABLE"
	CodeNoLuckLevel          = "NO_LUCK_LEVEL"
	CodeOnCooldown           = "ON_COOLDOWN"
	CodeRateLimited          = "RATE_LIMITED"
	CodeStoreUnavailable     = "STORE_UNAVAILABLE"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Code returns the stable error code err maps to
func Code(err error) string {
	return toHTTPError(err).apiError.Code
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var (
		currencyErr *model.InsufficientCurrencyError
		pointsErr   *model.InsufficientPointsError
		cooldownErr *model.CooldownError
	)

	switch {
	// Errors carrying details
	case errors.As(err, &currencyErr):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientCurrency,
			fmt.Sprintf("Not enough crystals to rebirth: %d required", currencyErr.Required)}}
	case errors.As(err, &pointsErr):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientPoints,
			fmt.Sprintf("Not enough rebirth points: %d required", pointsErr.Cost)}}
	case errors.As(err, &cooldownErr):
		return &httpError{http.StatusTooManyRequests, APIError{CodeOnCooldown,
			fmt.Sprintf("Luck bonus available in %d seconds", cooldownErr.RemainingSeconds())}}

	// Map model errors
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}
	case errors.Is(err, model.ErrInvalidInput):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Invalid input"}}
	case errors.Is(err, model.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, model.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, model.ErrInsufficientCurrency):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientCurrency, "Not enough crystals to rebirth"}}
	case errors.Is(err, model.ErrInsufficientPoints):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientPoints, "Not enough rebirth points"}}
	case errors.Is(err, model.ErrInvalidKind):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidKind, "Kind must be one of click, production, points"}}
	case errors.Is(err, model.ErrInvalidCategory):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCategory, "Unknown leaderboard category"}}
	case errors.Is(err, model.ErrNoBoxesAvailable):
		return &httpError{http.StatusConflict, APIError{CodeNoBoxesAvailable, "No mystery boxes available"}}
	case errors.Is(err, model.ErrNoLuckLevel):
		return &httpError{http.StatusConflict, APIError{CodeNoLuckLevel, "A luck level is required to claim the bonus"}}
	case errors.Is(err, model.ErrOnCooldown):
		return &httpError{http.StatusTooManyRequests, APIError{CodeOnCooldown, "Luck bonus is on cooldown"}}
	case errors.Is(err, model.ErrStoreUnavailable):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeStoreUnavailable, "Storage temporarily unavailable"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewRateLimitedError creates a rate limited error
func NewRateLimitedError() error {
	return &httpError{http.StatusTooManyRequests, APIError{CodeRateLimited, "Too many requests"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
