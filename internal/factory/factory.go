package factory

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/crystalclicker/internal/api"
	"github.com/mcoot/crystalclicker/internal/api/handler"
	"github.com/mcoot/crystalclicker/internal/api/middleware"
	"github.com/mcoot/crystalclicker/internal/config"
	"github.com/mcoot/crystalclicker/internal/dependencies/clock"
	"github.com/mcoot/crystalclicker/internal/dependencies/random"
	"github.com/mcoot/crystalclicker/internal/logging"
	"github.com/mcoot/crystalclicker/internal/metrics"
	"github.com/mcoot/crystalclicker/internal/services/auth"
	"github.com/mcoot/crystalclicker/internal/services/leaderboard"
	"github.com/mcoot/crystalclicker/internal/services/progression"
	"github.com/mcoot/crystalclicker/internal/services/rebirth"
	"github.com/mcoot/crystalclicker/internal/services/reward"
	"github.com/mcoot/crystalclicker/internal/storage"
	"github.com/mcoot/crystalclicker/internal/storage/memory"
	pgstorage "github.com/mcoot/crystalclicker/internal/storage/postgres"
	redisstorage "github.com/mcoot/crystalclicker/internal/storage/redis"
)

// rateLimitIdle is how long an unused per-player bucket is kept
const rateLimitIdle = 10 * time.Minute

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService       *auth.Service
	Ledger            *progression.Ledger
	RebirthEngine     *rebirth.Engine
	RewardEngine      *reward.Engine
	LeaderboardEngine *leaderboard.Engine

	// HTTP plumbing
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	Retrier     *handler.Retrier
	RateLimiter *middleware.RateLimiter

	closers []func() error
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresDSN is the connection string (required if StorageType is "postgres")
	PostgresDSN string
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Balance holds game tunables (optional)
	// If nil, the embedded defaults are used
	Balance *config.Balance
	// RateLimit bounds gameplay writes per player (optional)
	// A zero value disables rate limiting
	RateLimit config.RateLimitConfig
}

// FromServerConfig builds a factory Config from loaded server configuration
func FromServerConfig(cfg *config.Config, balance *config.Balance, logger *slog.Logger) Config {
	redisCfg := redisstorage.Config{
		URL:          cfg.Storage.Redis.URL,
		PoolSize:     cfg.Storage.Redis.PoolSize,
		MinIdleConns: cfg.Storage.Redis.MinIdleConns,
		MaxTxRetries: cfg.Storage.Redis.MaxTxRetries,
	}
	return Config{
		Logger:      logger,
		StorageType: cfg.Storage.Type,
		RedisConfig: &redisCfg,
		PostgresDSN: cfg.Storage.Postgres.DSN,
		AuthConfig: auth.Config{
			SigningKey:      cfg.Auth.SigningKey,
			SessionDuration: cfg.Auth.SessionTTL,
			BcryptCost:      cfg.Auth.BcryptCost,
		},
		Balance:   balance,
		RateLimit: cfg.RateLimit,
	}
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	balance := config.DefaultBalance()
	if cfg.Balance != nil {
		balance = *cfg.Balance
	}

	store, closer, err := openStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	app := newWithDependencies(store, clock.New(), random.New(), cfg.AuthConfig, balance, logger)
	app.Metrics = metrics.New()
	app.Retrier = handler.NewRetrier(app.Metrics, handler.DefaultRetryConfig())
	if cfg.RateLimit.RequestsPerSecond > 0 && cfg.RateLimit.Burst > 0 {
		app.RateLimiter = middleware.NewRateLimiter(
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, rateLimitIdle, app.Clock.Now)
	}
	if closer != nil {
		app.closers = append(app.closers, closer)
	}
	return app, nil
}

func openStorage(cfg Config, logger *slog.Logger) (storage.Storage, func() error, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageMemory
	}

	switch storageType {
	case config.StorageMemory:
		return memory.New(), nil, nil
	case config.StorageRedis:
		if cfg.RedisConfig == nil {
			return nil, nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using redis storage")
		return redisStore, redisStore.Close, nil
	case config.StoragePostgres:
		if cfg.PostgresDSN == "" {
			return nil, nil, errors.New("PostgresDSN required when StorageType is postgres")
		}
		pgStore, err := pgstorage.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using postgres storage")
		return pgStore, pgStore.Close, nil
	default:
		return nil, nil, fmt.Errorf("invalid StorageType %q: must be memory, redis or postgres", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	balance config.Balance,
	logger *slog.Logger,
) *App {
	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		AuthService:       auth.New(store, clk, logger, authCfg),
		Ledger:            progression.New(store, clk, logger),
		RebirthEngine:     rebirth.New(store, clk, rnd, logger, balance.Rebirth),
		RewardEngine:      reward.New(store, clk, rnd, logger, balance),
		LeaderboardEngine: leaderboard.New(store, logger),
		Logger:            logger,
	}
}

// Router builds the API router for this app
func (a *App) Router() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Logger:            a.Logger,
		Metrics:           a.Metrics,
		AuthService:       a.AuthService,
		Ledger:            a.Ledger,
		RebirthEngine:     a.RebirthEngine,
		RewardEngine:      a.RewardEngine,
		LeaderboardEngine: a.LeaderboardEngine,
		Retrier:           a.Retrier,
		RateLimiter:       a.RateLimiter,
	})
}

// Close releases storage connections
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
