package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/crystalclicker/internal/api/middleware"
	"github.com/mcoot/crystalclicker/internal/api/request"
	"github.com/mcoot/crystalclicker/internal/api/response"
	"github.com/mcoot/crystalclicker/internal/metrics"
	"github.com/mcoot/crystalclicker/internal/model"
	"github.com/mcoot/crystalclicker/internal/services/progression"
)

// GameHandler handles loading and saving progression
type GameHandler struct {
	ledger  *progression.Ledger
	retrier *Retrier
	metrics *metrics.Metrics
}

// NewGameHandler creates a new game handler
func NewGameHandler(ledger *progression.Ledger, retrier *Retrier, m *metrics.Metrics) *GameHandler {
	return &GameHandler{
		ledger:  ledger,
		retrier: retrier,
		metrics: m,
	}
}

// Load handles GET /api/v1/game
func (h *GameHandler) Load(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())

	player, err := retry(r.Context(), h.retrier, func() (*model.PlayerState, error) {
		return h.ledger.ReadSnapshot(r.Context(), playerID)
	})
	observe(h.metrics, "load", err)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateFromModel(player))
}

// Save handles PUT /api/v1/game
func (h *GameHandler) Save(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())

	var req request.SaveGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	snap, err := req.ToSnapshot()
	if err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	player, err := retryWrite(r.Context(), h.retrier, func() (*model.PlayerState, error) {
		return h.ledger.ApplySnapshot(r.Context(), playerID, snap)
	})
	observe(h.metrics, "save", err)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateFromModel(player))
}
