package reward

import (
	"context"
	"log/slog"
	"math"

	"github.com/mcoot/crystalclicker/internal/config"
	"github.com/mcoot/crystalclicker/internal/dependencies/clock"
	"github.com/mcoot/crystalclicker/internal/dependencies/random"
	"github.com/mcoot/crystalclicker/internal/model"
	"github.com/mcoot/crystalclicker/internal/storage"
)

// Engine opens mystery boxes and pays out the periodic luck bonus
type Engine struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	rewards []config.RewardTemplate
	luck    config.LuckBonusBalance
}

// New creates a new reward Engine
func New(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
	balance config.Balance,
) *Engine {
	return &Engine{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
		rewards: balance.MysteryBox.Rewards,
		luck:    balance.LuckBonus,
	}
}

// OpenMysteryBox consumes one box and applies a uniformly drawn reward
func (e *Engine) OpenMysteryBox(ctx context.Context, id model.PlayerID) (*model.RewardResult, error) {
	var result model.RewardResult

	_, err := e.storage.UpdatePlayer(ctx, id, func(p *model.PlayerState) error {
		if p.MysteryBoxes <= 0 {
			return model.ErrNoBoxesAvailable
		}

		tmpl := e.rewards[e.random.Intn(len(e.rewards))]
		amount := e.random.Between(tmpl.Min, tmpl.Max)
		applyReward(p, tmpl.Type, amount)

		p.MysteryBoxes--
		p.LastModified = e.clock.Now()

		result = model.RewardResult{
			Type:         tmpl.Type,
			Name:         tmpl.Name,
			Amount:       amount,
			MysteryBoxes: p.MysteryBoxes,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("mystery box opened",
		slog.String("player_id", string(id)),
		slog.String("reward_type", string(result.Type)),
		slog.Int64("amount", result.Amount),
	)
	return &result, nil
}

// applyReward credits a reward; production boosts pay out as a lump of crystals
func applyReward(p *model.PlayerState, t model.RewardType, amount int64) {
	switch t {
	case model.RewardClickPower:
		p.AddClickPower(amount)
	case model.RewardCrystals, model.RewardProductionBoost:
		p.AddCurrency(amount)
	}
}

// ClaimLuckBonus pays out crystals scaled by luck level, with a chance of a
// mystery box. Claims are limited to one per cooldown window.
func (e *Engine) ClaimLuckBonus(ctx context.Context, id model.PlayerID) (*model.BonusResult, error) {
	var result model.BonusResult

	_, err := e.storage.UpdatePlayer(ctx, id, func(p *model.PlayerState) error {
		now := e.clock.Now()
		if !p.LastLuckBonusAt.IsZero() {
			if elapsed := now.Sub(p.LastLuckBonusAt); elapsed < e.luck.Cooldown {
				return &model.CooldownError{Remaining: e.luck.Cooldown - elapsed}
			}
		}
		if p.LuckLevel <= 0 {
			return model.ErrNoLuckLevel
		}

		base := e.random.Between(e.luck.BaseMin, e.luck.BaseMax)
		multiplier := 1 + float64(p.LuckLevel)*e.luck.MultiplierPerLevel
		total := int64(math.Floor(float64(base) * multiplier))

		chance := min(p.LuckLevel*e.luck.BoxChancePerLevel, e.luck.BoxChanceCap)
		granted := e.random.Between(1, 100) <= chance

		p.AddCurrency(total)
		if granted {
			p.MysteryBoxes++
		}
		p.LastLuckBonusAt = now
		p.LastModified = now

		result = model.BonusResult{
			TotalBonus:   total,
			BoxGranted:   granted,
			MysteryBoxes: p.MysteryBoxes,
			NextClaimAt:  now.Add(e.luck.Cooldown),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("luck bonus claimed",
		slog.String("player_id", string(id)),
		slog.Int64("total_bonus", result.TotalBonus),
		slog.Bool("box_granted", result.BoxGranted),
	)
	return &result, nil
}
