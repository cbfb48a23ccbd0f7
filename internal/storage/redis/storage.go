package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/crystalclicker/internal/model"
	"github.com/mcoot/crystalclicker/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, model.StoreError(err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.MaxTxRetries <= 0 {
		cfg.MaxTxRetries = DefaultConfig().MaxTxRetries
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) CreatePlayer(ctx context.Context, player *model.PlayerState) error {
	data, err := json.Marshal(fromDomain(player))
	if err != nil {
		return err
	}

	// Claim the username first; SETNX is the uniqueness check
	claimed, err := s.client.SetNX(ctx, usernameIndexKey(player.Username), string(player.ID), 0).Result()
	if err != nil {
		return model.StoreError(err)
	}
	if !claimed {
		return model.ErrUsernameExists
	}

	key := playerKey(player.ID)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, playersIndexKey(), key)
	if _, err := pipe.Exec(ctx); err != nil {
		// Release the claim so the username is not stranded
		s.client.Del(context.WithoutCancel(ctx), usernameIndexKey(player.Username))
		return model.StoreError(err)
	}
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerState, error) {
	return getPlayer(ctx, s.client, id)
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.PlayerState, error) {
	// Look up player ID from username index
	playerIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, model.StoreError(err)
	}

	return s.GetPlayer(ctx, model.PlayerID(playerIDStr))
}

func (s *Storage) UpdatePlayer(ctx context.Context, id model.PlayerID, fn storage.UpdateFunc) (*model.PlayerState, error) {
	key := playerKey(id)

	var (
		updated *model.PlayerState
		fnErr   error
	)
	txf := func(tx *redis.Tx) error {
		player, err := getPlayer(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(player); err != nil {
			fnErr = err
			return err
		}
		data, err := json.Marshal(fromDomain(player))
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		if err != nil {
			return err
		}
		updated = player
		return nil
	}

	for attempt := 0; attempt < s.cfg.MaxTxRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		switch {
		case err == nil:
			return updated, nil
		case fnErr != nil:
			return nil, fnErr
		case errors.Is(err, redis.TxFailedErr):
			continue // Key changed under us; reload and retry
		case errors.Is(err, model.ErrPlayerNotFound), errors.Is(err, model.ErrStoreUnavailable):
			return nil, err
		default:
			return nil, model.StoreError(err)
		}
	}
	return nil, fmt.Errorf("%w: %w", model.ErrStoreConflict, redis.TxFailedErr)
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.PlayerState, error) {
	keys, err := s.client.SMembers(ctx, playersIndexKey()).Result()
	if err != nil {
		return nil, model.StoreError(err)
	}
	if len(keys) == 0 {
		return []*model.PlayerState{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, model.StoreError(err)
	}

	players := make([]*model.PlayerState, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue
		}
		var rec playerRecord
		if err := json.Unmarshal([]byte(str), &rec); err != nil {
			continue // Skip invalid data
		}
		players = append(players, rec.toDomain())
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players, nil
}

func (s *Storage) Stats(ctx context.Context) (*model.StatsSummary, error) {
	players, err := s.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	stats := &model.StatsSummary{}
	for _, p := range players {
		stats.TotalPlayers++
		stats.TotalCurrency = model.SaturatingAdd(stats.TotalCurrency, p.Currency)
		stats.TotalClicks = model.SaturatingAdd(stats.TotalClicks, p.TotalClicks)
		stats.TotalRebirths = model.SaturatingAdd(stats.TotalRebirths, p.RebirthCount)
		stats.TotalMysteryBoxes = model.SaturatingAdd(stats.TotalMysteryBoxes, p.MysteryBoxes)
	}
	return stats, nil
}

// stringGetter is satisfied by both *redis.Client and *redis.Tx
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func getPlayer(ctx context.Context, c stringGetter, id model.PlayerID) (*model.PlayerState, error) {
	data, err := c.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, model.StoreError(err)
	}

	var rec playerRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return rec.toDomain(), nil
}
