package leaderboard

import (
	"context"
	"log/slog"
	"sort"

	"github.com/mcoot/crystalclicker/internal/model"
	"github.com/mcoot/crystalclicker/internal/storage"
)

// Limit bounds for Rank
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type category struct {
	label string
	score func(p *model.PlayerState) int64
}

var categories = map[model.LeaderboardCategory]category{
	model.CategoryCrystals: {"Crystals", func(p *model.PlayerState) int64 { return p.Currency }},
	model.CategoryCPS:      {"CPS", func(p *model.PlayerState) int64 { return p.CPS() }},
	model.CategoryClicks:   {"Total clicks", func(p *model.PlayerState) int64 { return p.TotalClicks }},
	model.CategoryBuildings: {"Total buildings", func(p *model.PlayerState) int64 {
		return p.TotalProducers()
	}},
	model.CategoryRebirth: {"Rebirths", func(p *model.PlayerState) int64 { return p.RebirthCount }},
	model.CategoryLuck:    {"Luck", func(p *model.PlayerState) int64 { return p.LuckLevel }},
}

// Categories lists every supported category in display order
func Categories() []model.LeaderboardCategory {
	return []model.LeaderboardCategory{
		model.CategoryCrystals,
		model.CategoryCPS,
		model.CategoryClicks,
		model.CategoryBuildings,
		model.CategoryRebirth,
		model.CategoryLuck,
	}
}

// Engine ranks players and aggregates global statistics
type Engine struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new leaderboard Engine
func New(storage storage.Storage, logger *slog.Logger) *Engine {
	return &Engine{
		storage: storage,
		logger:  logger,
	}
}

// Rank returns the top players for a category. Players scoring zero or less
// are omitted; equal scores are ordered by ascending player id.
func (e *Engine) Rank(ctx context.Context, cat model.LeaderboardCategory, limit int) (*model.Leaderboard, error) {
	def, ok := categories[cat]
	if !ok {
		return nil, model.ErrInvalidCategory
	}
	limit = clampLimit(limit)

	players, err := e.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, 0, len(players))
	for _, p := range players {
		score := def.score(p)
		if score <= 0 {
			continue
		}
		entries = append(entries, model.LeaderboardEntry{
			PlayerID: p.ID,
			Username: p.Username,
			Score:    score,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}

	e.logger.Debug("leaderboard ranked",
		slog.String("category", string(cat)),
		slog.Int("considered", len(players)),
		slog.Int("returned", len(entries)),
	)

	return &model.Leaderboard{
		Category: cat,
		Label:    def.label,
		Entries:  entries,
	}, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// GlobalStats aggregates totals over every player
func (e *Engine) GlobalStats(ctx context.Context) (*model.StatsSummary, error) {
	return e.storage.Stats(ctx)
}
