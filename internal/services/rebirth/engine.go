package rebirth

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

// Engine performs rebirths and spends rebirth points on permanent bonuses
type Engine struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
	balance config.RebirthBalance
}

// New creates a new rebirth Engine
func New(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
	balance config.RebirthBalance,
) *Engine {
	return &Engine{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
		balance: balance,
	}
}

// RequiredCurrency is the currency needed for the next rebirth after
// rebirthCount previous ones
func (e *Engine) RequiredCurrency(rebirthCount int64) int64 {
	return RequiredCurrency(e.balance.BaseRequirement, rebirthCount)
}

// RequiredCurrency doubles base for every previous rebirth, saturating at MaxInt64
func RequiredCurrency(base, rebirthCount int64) int64 {
	if rebirthCount >= 62 {
		return math.MaxInt64
	}
	required := base
	for i := int64(0); i < rebirthCount; i++ {
		if required > math.MaxInt64/2 {
			return math.MaxInt64
		}
		required *= 2
	}
	return required
}

// GainedPoints is the rebirth points awarded for resetting with currency,
// scaled by the player's bonus percentage. Always at least 1.
func GainedPoints(currency, bonusRebirthPoints int64) int64 {
	if currency <= 0 {
		return 1
	}
	c := float64(currency)
	raw := (log10(currency) + c/1_000_000) * (1 + float64(bonusRebirthPoints)/100)
	points := math.Floor(raw)
	if points < 1 {
		return 1
	}
	if points >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(points)
}

// log10 splits off the integer part by counting digits so that exact powers
// of ten yield exact results; math.Log10 alone can land just below them.
func log10(n int64) float64 {
	var digits int
	pow := int64(1)
	for n/pow >= 10 {
		pow *= 10
		digits++
	}
	return float64(digits) + math.Log10(float64(n)/float64(pow))
}

// AttemptRebirth resets the player's run in exchange for rebirth points and
// a chance at a luck level. Fails with an InsufficientCurrencyError, without
// mutating anything, when the player cannot afford it.
func (e *Engine) AttemptRebirth(ctx context.Context, id model.PlayerID) (*model.RebirthResult, error) {
	var result model.RebirthResult

	_, err := e.storage.UpdatePlayer(ctx, id, func(p *model.PlayerState) error {
		required := e.RequiredCurrency(p.RebirthCount)
		if p.Currency < required {
			return &model.InsufficientCurrencyError{Required: required}
		}

		gained := GainedPoints(p.Currency, p.BonusRebirthPoints)
		var luck int64
		if e.random.Intn(100) < e.balance.LuckChancePercent {
			luck = 1
		}

		p.Currency = 0
		p.ResetProducers()
		p.ClickPower = model.DefaultClickPower
		p.ClickPowerPrice = model.DefaultClickPowerPrice
		p.RebirthCount++
		p.RebirthPoints = model.SaturatingAdd(p.RebirthPoints, gained)
		p.LuckLevel += luck
		p.LastModified = e.clock.Now()

		result = model.RebirthResult{
			RebirthCount:  p.RebirthCount,
			RebirthPoints: p.RebirthPoints,
			LuckLevel:     p.LuckLevel,
			GainedPoints:  gained,
			LuckGained:    luck,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("rebirth completed",
		slog.String("player_id", string(id)),
		slog.Int64("rebirth_count", result.RebirthCount),
		slog.Int64("gained_points", result.GainedPoints),
		slog.Int64("luck_gained", result.LuckGained),
	)
	return &result, nil
}

// UpgradeRebirthBonus spends rebirth points to raise one permanent bonus
func (e *Engine) UpgradeRebirthBonus(ctx context.Context, id model.PlayerID, kind model.BonusKind) (*model.UpgradeResult, error) {
	if !kind.Valid() {
		return nil, model.ErrInvalidKind
	}

	cost := e.balance.UpgradeCost
	var result model.UpgradeResult

	_, err := e.storage.UpdatePlayer(ctx, id, func(p *model.PlayerState) error {
		if p.RebirthPoints < cost {
			return &model.InsufficientPointsError{Cost: cost}
		}

		p.RebirthPoints -= cost
		var value int64
		switch kind {
		case model.BonusClick:
			p.BonusClickPower += e.balance.UpgradeIncrement
			value = p.BonusClickPower
		case model.BonusProduction:
			p.BonusProduction += e.balance.UpgradeIncrement
			value = p.BonusProduction
		case model.BonusPoints:
			p.BonusRebirthPoints += e.balance.UpgradeIncrement
			value = p.BonusRebirthPoints
		}
		p.LastModified = e.clock.Now()

		result = model.UpgradeResult{
			Kind:            kind,
			NewValue:        value,
			RemainingPoints: p.RebirthPoints,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("rebirth bonus upgraded",
		slog.String("player_id", string(id)),
		slog.String("kind", string(kind)),
		slog.Int64("new_value", result.NewValue),
	)
	return &result, nil
}
