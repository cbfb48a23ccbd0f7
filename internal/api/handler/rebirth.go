package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/crystalclicker/internal/api/middleware"
	"github.com/mcoot/crystalclicker/internal/api/request"
	"github.com/mcoot/crystalclicker/internal/api/response"
	"github.com/mcoot/crystalclicker/internal/metrics"
	"github.com/mcoot/crystalclicker/internal/model"
	"github.com/mcoot/crystalclicker/internal/services/rebirth"
)

// RebirthHandler handles rebirth endpoints
type RebirthHandler struct {
	engine  *rebirth.Engine
	retrier *Retrier
	metrics *metrics.Metrics
}

// NewRebirthHandler creates a new rebirth handler
func NewRebirthHandler(engine *rebirth.Engine, retrier *Retrier, m *metrics.Metrics) *RebirthHandler {
	return &RebirthHandler{
		engine:  engine,
		retrier: retrier,
		metrics: m,
	}
}

// Rebirth handles POST /api/v1/rebirth
func (h *RebirthHandler) Rebirth(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())

	result, err := retryWrite(r.Context(), h.retrier, func() (*model.RebirthResult, error) {
		return h.engine.AttemptRebirth(r.Context(), playerID)
	})
	observe(h.metrics, "rebirth", err)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RebirthFromModel(result))
}

// Upgrade handles POST /api/v1/rebirth/upgrades
func (h *RebirthHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())

	var req request.UpgradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	result, err := retryWrite(r.Context(), h.retrier, func() (*model.UpgradeResult, error) {
		return h.engine.UpgradeRebirthBonus(r.Context(), playerID, model.BonusKind(req.Kind))
	})
	observe(h.metrics, "upgrade", err)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UpgradeFromModel(result))
}
