package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/crystalclicker/internal/api/response"
	"github.com/mcoot/crystalclicker/internal/model"
	"github.com/mcoot/crystalclicker/internal/services/leaderboard"
)

// LeaderboardHandler handles public ranking endpoints
type LeaderboardHandler struct {
	engine  *leaderboard.Engine
	retrier *Retrier
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(engine *leaderboard.Engine, retrier *Retrier) *LeaderboardHandler {
	return &LeaderboardHandler{
		engine:  engine,
		retrier: retrier,
	}
}

// Rank handles GET /api/v1/leaderboard?category=&limit=
func (h *LeaderboardHandler) Rank(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	category := query.Get("category")
	if category == "" {
		// "type" is accepted for older clients
		category = query.Get("type")
	}
	if category == "" {
		category = string(model.CategoryCrystals)
	}

	limit := leaderboard.DefaultLimit
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			WriteError(w, NewInvalidRequestError("limit must be an integer"))
			return
		}
		limit = n
	}

	lb, err := retry(r.Context(), h.retrier, func() (*model.Leaderboard, error) {
		return h.engine.Rank(r.Context(), model.LeaderboardCategory(category), limit)
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(lb))
}

// Stats handles GET /api/v1/stats
func (h *LeaderboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := retry(r.Context(), h.retrier, func() (*model.StatsSummary, error) {
		return h.engine.GlobalStats(r.Context())
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatsFromModel(stats))
}
