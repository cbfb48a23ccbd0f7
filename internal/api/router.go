package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/crystalclicker/internal/api/handler"
	"github.com/mcoot/crystalclicker/internal/api/middleware"
	"github.com/mcoot/crystalclicker/internal/metrics"
	sharedmw "github.com/mcoot/crystalclicker/internal/middleware"
	"github.com/mcoot/crystalclicker/internal/services/auth"
	"github.com/mcoot/crystalclicker/internal/services/leaderboard"
	"github.com/mcoot/crystalclicker/internal/services/progression"
	"github.com/mcoot/crystalclicker/internal/services/rebirth"
	"github.com/mcoot/crystalclicker/internal/services/reward"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	Metrics           *metrics.Metrics
	AuthService       *auth.Service
	Ledger            *progression.Ledger
	RebirthEngine     *rebirth.Engine
	RewardEngine      *reward.Engine
	LeaderboardEngine *leaderboard.Engine

	// Retrier retries store outages; nil disables retries
	Retrier *handler.Retrier
	// RateLimiter throttles gameplay writes per player; nil disables limiting
	RateLimiter *middleware.RateLimiter
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService, cfg.Ledger, cfg.Retrier, cfg.Metrics)
	gameHandler := handler.NewGameHandler(cfg.Ledger, cfg.Retrier, cfg.Metrics)
	rebirthHandler := handler.NewRebirthHandler(cfg.RebirthEngine, cfg.Retrier, cfg.Metrics)
	rewardHandler := handler.NewRewardHandler(cfg.RewardEngine, cfg.Retrier, cfg.Metrics)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LeaderboardEngine, cfg.Retrier)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := sharedmw.Logging(cfg.Logger, cfg.Metrics)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes (no auth required for registering/logging in)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Public read-only routes
	api.HandleFunc("/leaderboard", leaderboardHandler.Rank).Methods(http.MethodGet)
	api.HandleFunc("/stats", leaderboardHandler.Stats).Methods(http.MethodGet)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Authenticated reads
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/players/me", playerHandler.GetMe).Methods(http.MethodGet)
	protected.HandleFunc("/game", gameHandler.Load).Methods(http.MethodGet)

	// Authenticated writes, throttled per player
	gameplay := api.NewRoute().Subrouter()
	gameplay.Use(authMiddleware)
	if cfg.RateLimiter != nil {
		gameplay.Use(middleware.RateLimit(cfg.RateLimiter, cfg.Metrics))
	}
	gameplay.HandleFunc("/game", gameHandler.Save).Methods(http.MethodPut)
	gameplay.HandleFunc("/rebirth", rebirthHandler.Rebirth).Methods(http.MethodPost)
	gameplay.HandleFunc("/rebirth/upgrades", rebirthHandler.Upgrade).Methods(http.MethodPost)
	gameplay.HandleFunc("/rewards/mystery-box", rewardHandler.OpenMysteryBox).Methods(http.MethodPost)
	gameplay.HandleFunc("/rewards/luck-bonus", rewardHandler.ClaimLuckBonus).Methods(http.MethodPost)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}
