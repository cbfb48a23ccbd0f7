package handler

import (
	"net/http"

	"github.com/mcoot/crystalclicker/internal/api/middleware"
	"github.com/mcoot/crystalclicker/internal/api/response"
	"github.com/mcoot/crystalclicker/internal/metrics"
	"github.com/mcoot/crystalclicker/internal/model"
	"github.com/mcoot/crystalclicker/internal/services/reward"
)

// RewardHandler handles mystery box and luck bonus endpoints
type RewardHandler struct {
	engine  *reward.Engine
	retrier *Retrier
	metrics *metrics.Metrics
}

// NewRewardHandler creates a new reward handler
func NewRewardHandler(engine *reward.Engine, retrier *Retrier, m *metrics.Metrics) *RewardHandler {
	return &RewardHandler{
		engine:  engine,
		retrier: retrier,
		metrics: m,
	}
}

// OpenMysteryBox handles POST /api/v1/rewards/mystery-box
func (h *RewardHandler) OpenMysteryBox(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())

	result, err := retryWrite(r.Context(), h.retrier, func() (*model.RewardResult, error) {
		return h.engine.OpenMysteryBox(r.Context(), playerID)
	})
	observe(h.metrics, "mystery_box", err)
	if err != nil {
		WriteError(w, err)
		return
	}
	h.metrics.ObserveReward(string(result.Type))

	response.JSON(w, http.StatusOK, response.RewardFromModel(result))
}

// ClaimLuckBonus handles POST /api/v1/rewards/luck-bonus
func (h *RewardHandler) ClaimLuckBonus(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())

	result, err := retryWrite(r.Context(), h.retrier, func() (*model.BonusResult, error) {
		return h.engine.ClaimLuckBonus(r.Context(), playerID)
	})
	observe(h.metrics, "luck_bonus", err)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.BonusFromModel(result))
}
