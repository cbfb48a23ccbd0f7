package reward

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/crystalclicker/internal/config"
	"github.com/mcoot/crystalclicker/internal/dependencies/mocks"
	"github.com/mcoot/crystalclicker/internal/model"
	"github.com/mcoot/crystalclicker/internal/storage/memory"
	"github.com/mcoot/crystalclicker/internal/testutil"
)

type EngineSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	engine  *Engine
	ctx     context.Context
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.engine = New(s.storage, s.clock, s.random, testutil.NopLogger(), config.DefaultBalance())
	s.ctx = context.Background()

	_ = s.storage.CreatePlayer(s.ctx, model.NewPlayerState("player-1", "alice", "hash", s.clock.Now()))
}

func (s *EngineSuite) setPlayer(fn func(p *model.PlayerState)) {
	_, err := s.storage.UpdatePlayer(s.ctx, "player-1", func(p *model.PlayerState) error {
		fn(p)
		return nil
	})
	s.Require().NoError(err)
}

func (s *EngineSuite) player() *model.PlayerState {
	p, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	return p
}

// OpenMysteryBox tests

func (s *EngineSuite) TestOpenMysteryBoxWithNoBoxesFails() {
	before := s.player()

	_, err := s.engine.OpenMysteryBox(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrNoBoxesAvailable)
	s.Equal(before, s.player())
}

func (s *EngineSuite) TestOpenMysteryBoxCrystalReward() {
	s.setPlayer(func(p *model.PlayerState) {
		p.MysteryBoxes = 2
		p.Currency = 100
		p.LifetimeCurrency = 1000
	})
	s.random.QueueIntn(1) // Crystal chest
	s.random.QueueBetween(25_000)

	result, err := s.engine.OpenMysteryBox(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(model.RewardCrystals, result.Type)
	s.Equal("Crystal chest", result.Name)
	s.Equal(int64(25_000), result.Amount)
	s.Equal(int64(1), result.MysteryBoxes)

	p := s.player()
	s.Equal(int64(25_100), p.Currency)
	s.Equal(int64(26_000), p.LifetimeCurrency)
	s.Equal(int64(1), p.MysteryBoxes)
}

func (s *EngineSuite) TestOpenMysteryBoxClickPowerReward() {
	s.setPlayer(func(p *model.PlayerState) { p.MysteryBoxes = 1 })
	s.random.QueueIntn(2)
	s.random.QueueBetween(4)

	result, err := s.engine.OpenMysteryBox(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(model.RewardClickPower, result.Type)
	s.Equal(int64(0), result.MysteryBoxes)

	p := s.player()
	s.Equal(int64(5), p.ClickPower)
	s.Equal(int64(0), p.Currency)
}

func (s *EngineSuite) TestOpenMysteryBoxProductionBoostPaysCrystals() {
	s.setPlayer(func(p *model.PlayerState) { p.MysteryBoxes = 1 })
	s.random.QueueIntn(3)
	s.random.QueueBetween(120_000)

	result, err := s.engine.OpenMysteryBox(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(model.RewardProductionBoost, result.Type)
	s.Equal(int64(120_000), s.player().Currency)
}

func (s *EngineSuite) TestOpenMysteryBoxDefaultDrawUsesRangeMinimum() {
	s.setPlayer(func(p *model.PlayerState) { p.MysteryBoxes = 1 })

	result, err := s.engine.OpenMysteryBox(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("Crystal pouch", result.Name)
	s.Equal(int64(1000), result.Amount)
}

func (s *EngineSuite) TestOpenMysteryBoxUnknownPlayer() {
	_, err := s.engine.OpenMysteryBox(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// ClaimLuckBonus tests

func (s *EngineSuite) TestClaimLuckBonusWithoutLuckFails() {
	_, err := s.engine.ClaimLuckBonus(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrNoLuckLevel)
	s.True(s.player().LastLuckBonusAt.IsZero())
}

func (s *EngineSuite) TestClaimLuckBonusFirstClaim() {
	s.setPlayer(func(p *model.PlayerState) { p.LuckLevel = 2 })
	s.random.QueueBetween(500, 11) // base, box roll (chance 10)

	result, err := s.engine.ClaimLuckBonus(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(int64(1000), result.TotalBonus) // 500 * (1 + 2*0.5)
	s.False(result.BoxGranted)
	s.Equal(s.clock.Now().Add(time.Hour), result.NextClaimAt)

	p := s.player()
	s.Equal(int64(1000), p.Currency)
	s.Equal(int64(1000), p.LifetimeCurrency)
	s.Equal(s.clock.Now(), p.LastLuckBonusAt)
	s.Equal(int64(0), p.MysteryBoxes)
}

func (s *EngineSuite) TestClaimLuckBonusGrantsBox() {
	s.setPlayer(func(p *model.PlayerState) { p.LuckLevel = 1 })
	s.random.QueueBetween(333, 5) // chance 5, roll 5 succeeds

	result, err := s.engine.ClaimLuckBonus(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(int64(499), result.TotalBonus) // floor(333 * 1.5)
	s.True(result.BoxGranted)
	s.Equal(int64(1), result.MysteryBoxes)
	s.Equal(int64(1), s.player().MysteryBoxes)
}

func (s *EngineSuite) TestClaimLuckBonusBoxChanceCapped() {
	s.setPlayer(func(p *model.PlayerState) { p.LuckLevel = 30 })
	s.random.QueueBetween(100, 51)

	result, err := s.engine.ClaimLuckBonus(s.ctx, "player-1")
	s.Require().NoError(err)
	s.False(result.BoxGranted)
	s.Equal(int64(1600), result.TotalBonus) // 100 * 16
}

func (s *EngineSuite) TestClaimLuckBonusCooldown() {
	s.setPlayer(func(p *model.PlayerState) { p.LuckLevel = 1 })
	_, err := s.engine.ClaimLuckBonus(s.ctx, "player-1")
	s.Require().NoError(err)
	claimed := s.player()

	s.clock.Advance(3599*time.Second + 500*time.Millisecond)
	_, err = s.engine.ClaimLuckBonus(s.ctx, "player-1")
	var cooldown *model.CooldownError
	s.Require().ErrorAs(err, &cooldown)
	s.Equal(int64(1), cooldown.RemainingSeconds())
	s.Equal(claimed, s.player())

	s.clock.Advance(500 * time.Millisecond)
	_, err = s.engine.ClaimLuckBonus(s.ctx, "player-1")
	s.NoError(err)
}

func (s *EngineSuite) TestClaimLuckBonusCooldownReportedBeforeLuckCheck() {
	s.setPlayer(func(p *model.PlayerState) {
		p.LuckLevel = 0
		p.LastLuckBonusAt = s.clock.Now().Add(-10 * time.Minute)
	})

	_, err := s.engine.ClaimLuckBonus(s.ctx, "player-1")
	var cooldown *model.CooldownError
	s.Require().ErrorAs(err, &cooldown)
	s.Equal(int64(3000), cooldown.RemainingSeconds())
}

func (s *EngineSuite) TestClaimLuckBonusUnknownPlayer() {
	_, err := s.engine.ClaimLuckBonus(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Balances near the int64 limit

func (s *EngineSuite) TestOpenMysteryBoxSaturatesCurrency() {
	s.setPlayer(func(p *model.PlayerState) {
		p.Currency = math.MaxInt64 - 10
		p.LifetimeCurrency = math.MaxInt64 - 10
		p.MysteryBoxes = 1
	})
	s.random.QueueIntn(0)
	s.random.QueueBetween(1000)

	_, err := s.engine.OpenMysteryBox(s.ctx, "player-1")
	s.Require().NoError(err)

	p := s.player()
	s.Equal(int64(math.MaxInt64), p.Currency)
	s.Equal(int64(math.MaxInt64), p.LifetimeCurrency)
	s.Equal(int64(0), p.MysteryBoxes)
}

func (s *EngineSuite) TestOpenMysteryBoxSaturatesClickPower() {
	s.setPlayer(func(p *model.PlayerState) {
		p.ClickPower = math.MaxInt64 - 1
		p.MysteryBoxes = 1
	})
	s.random.QueueIntn(2)
	s.random.QueueBetween(5)

	_, err := s.engine.OpenMysteryBox(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(int64(math.MaxInt64), s.player().ClickPower)
}

func (s *EngineSuite) TestClaimLuckBonusSaturatesCurrency() {
	s.setPlayer(func(p *model.PlayerState) {
		p.Currency = math.MaxInt64 - 3
		p.LifetimeCurrency = math.MaxInt64 - 3
		p.LuckLevel = 1
	})
	s.random.QueueBetween(500, 100)

	result, err := s.engine.ClaimLuckBonus(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(int64(750), result.TotalBonus)

	p := s.player()
	s.Equal(int64(math.MaxInt64), p.Currency)
	s.Equal(int64(math.MaxInt64), p.LifetimeCurrency)
}
