package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/crystalclicker/internal/model"
)

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{model.ErrPlayerNotFound, http.StatusNotFound, CodePlayerNotFound},
		{model.ErrUsernameExists, http.StatusConflict, CodeUsernameExists},
		{model.ErrInvalidInput, http.StatusBadRequest, CodeInvalidRequest},
		{model.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{model.ErrInvalidSession, http.StatusUnauthorized, CodeUnauthorized},
		{&model.InsufficientCurrencyError{Required: 100_000}, http.StatusConflict, CodeInsufficientCurrency},
		{&model.InsufficientPointsError{Cost: 10}, http.StatusConflict, CodeInsufficientPoints},
		{model.ErrInvalidKind, http.StatusBadRequest, CodeInvalidKind},
		{model.ErrInvalidCategory, http.StatusBadRequest, CodeInvalidCategory},
		{model.ErrNoBoxesAvailable, http.StatusConflict, CodeNoBoxesAvailable},
		{model.ErrNoLuckLevel, http.StatusConflict, CodeNoLuckLevel},
		{&model.CooldownError{Remaining: time.Minute}, http.StatusTooManyRequests, CodeOnCooldown},
		{model.StoreError(errors.New("dial tcp")), http.StatusServiceUnavailable, CodeStoreUnavailable},
		{NewRateLimitedError(), http.StatusTooManyRequests, CodeRateLimited},
		{NewInvalidRequestError("bad"), http.StatusBadRequest, CodeInvalidRequest},
		{errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}
	for _, c := range cases {
		t.Run(c.code, func(t *testing.T) {
			assert.Equal(t, c.status, Status(c.err))
			assert.Equal(t, c.code, Code(c.err))
		})
	}
}

func TestWrappedErrorsStillMap(t *testing.T) {
	err := fmt.Errorf("rebirth: %w", &model.InsufficientCurrencyError{Required: 400_000})
	assert.Equal(t, CodeInsufficientCurrency, Code(err))
}

func TestWriteErrorIncludesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, &model.CooldownError{Remaining: 90*time.Second + time.Millisecond})

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, CodeOnCooldown, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "91 seconds")
}

func TestWriteErrorInsufficientCurrencyNamesRequirement(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, &model.InsufficientCurrencyError{Required: 200_000})

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Error.Message, "200000")
}
