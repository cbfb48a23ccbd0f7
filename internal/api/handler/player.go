package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mcoot/crystalclicker/internal/api/middleware"
	"github.com/mcoot/crystalclicker/internal/api/request"
	"github.com/mcoot/crystalclicker/internal/api/response"
	"github.com/mcoot/crystalclicker/internal/metrics"
	"github.com/mcoot/crystalclicker/internal/model"
	"github.com/mcoot/crystalclicker/internal/services/auth"
	"github.com/mcoot/crystalclicker/internal/services/progression"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	authService *auth.Service
	ledger      *progression.Ledger
	retrier     *Retrier
	metrics     *metrics.Metrics
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(authService *auth.Service, ledger *progression.Ledger, retrier *Retrier, m *metrics.Metrics) *PlayerHandler {
	return &PlayerHandler{
		authService: authService,
		ledger:      ledger,
		retrier:     retrier,
		metrics:     m,
	}
}

// Register handles POST /api/v1/players/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	session, err := retryWrite(r.Context(), h.retrier, func() (*auth.Session, error) {
		return h.authService.Register(r.Context(), req.Username, req.Password)
	})
	observe(h.metrics, "register", err)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Login handles POST /api/v1/players/login
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	session, err := retry(r.Context(), h.retrier, func() (*auth.Session, error) {
		return h.authService.Authenticate(r.Context(), req.Username, req.Password)
	})
	observe(h.metrics, "login", err)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())

	player, err := h.load(r.Context(), playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Player{
		ID:        string(player.ID),
		Username:  player.Username,
		CreatedAt: player.CreatedAt,
	})
}

func (h *PlayerHandler) load(ctx context.Context, id model.PlayerID) (*model.PlayerState, error) {
	return retry(ctx, h.retrier, func() (*model.PlayerState, error) {
		return h.ledger.ReadSnapshot(ctx, id)
	})
}
