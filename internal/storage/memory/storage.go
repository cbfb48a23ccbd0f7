package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/crystalclicker/internal/model"
	"github.com/mcoot/crystalclicker/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players       map[model.PlayerID]*model.PlayerState
	usernameIndex map[string]model.PlayerID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:       make(map[model.PlayerID]*model.PlayerState),
		usernameIndex: make(map[string]model.PlayerID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) CreatePlayer(ctx context.Context, player *model.PlayerState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.usernameIndex[player.Username]; ok {
		return model.ErrUsernameExists
	}
	s.players[player.ID] = player.Clone()
	s.usernameIndex[player.Username] = player.ID
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player.Clone(), nil
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.PlayerState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player.Clone(), nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, id model.PlayerID, fn storage.UpdateFunc) (*model.PlayerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}

	// Mutate a copy so a failed fn leaves the stored record untouched
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	s.players[id] = next
	return next.Clone(), nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.PlayerState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.PlayerState, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p.Clone())
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players, nil
}

func (s *Storage) Stats(ctx context.Context) (*model.StatsSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := &model.StatsSummary{}
	for _, p := range s.players {
		stats.TotalPlayers++
		stats.TotalCurrency = model.SaturatingAdd(stats.TotalCurrency, p.Currency)
		stats.TotalClicks = model.SaturatingAdd(stats.TotalClicks, p.TotalClicks)
		stats.TotalRebirths = model.SaturatingAdd(stats.TotalRebirths, p.RebirthCount)
		stats.TotalMysteryBoxes = model.SaturatingAdd(stats.TotalMysteryBoxes, p.MysteryBoxes)
	}
	return stats, nil
}
