package model

import "time"

// BonusKind selects which permanent bonus a rebirth upgrade raises
type BonusKind string

const (
	BonusClick      BonusKind = "click"
	BonusProduction BonusKind = "production"
	BonusPoints     BonusKind = "points"
)

// Valid reports whether k is a known bonus kind
func (k BonusKind) Valid() bool {
	switch k {
	case BonusClick, BonusProduction, BonusPoints:
		return true
	}
	return false
}

// RebirthResult is returned by a successful rebirth
type RebirthResult struct {
	RebirthCount  int64
	RebirthPoints int64
	LuckLevel     int64
	GainedPoints  int64
	LuckGained    int64
}

// UpgradeResult is returned by a successful rebirth bonus upgrade
type UpgradeResult struct {
	Kind            BonusKind
	NewValue        int64
	RemainingPoints int64
}

// RewardType is the effect a mystery box reward applies
type RewardType string

const (
	RewardCrystals        RewardType = "crystals"
	RewardClickPower      RewardType = "click_power"
	RewardProductionBoost RewardType = "production_boost"
)

// RewardResult describes the reward drawn from an opened mystery box
type RewardResult struct {
	Type         RewardType
	Name         string
	Amount       int64
	MysteryBoxes int64 // boxes left after opening
}

// BonusResult describes a successful luck bonus claim
type BonusResult struct {
	TotalBonus   int64
	BoxGranted   bool
	MysteryBoxes int64
	NextClaimAt  time.Time
}
