package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mcoot/crystalclicker/internal/model"
)

//go:embed balance.yaml
var defaultBalanceYAML []byte

// Balance holds gameplay tunables
type Balance struct {
	Rebirth    RebirthBalance    `yaml:"rebirth" json:"rebirth"`
	LuckBonus  LuckBonusBalance  `yaml:"luck_bonus" json:"luck_bonus"`
	MysteryBox MysteryBoxBalance `yaml:"mystery_box" json:"mystery_box"`
}

// RebirthBalance tunes the rebirth requirement, luck chance and bonus upgrades
type RebirthBalance struct {
	BaseRequirement   int64 `yaml:"base_requirement" json:"base_requirement"`
	LuckChancePercent int   `yaml:"luck_chance_percent" json:"luck_chance_percent"`
	UpgradeCost       int64 `yaml:"upgrade_cost" json:"upgrade_cost"`
	UpgradeIncrement  int64 `yaml:"upgrade_increment" json:"upgrade_increment"`
}

// LuckBonusBalance tunes the periodic luck bonus payout and its box chance
type LuckBonusBalance struct {
	Cooldown           time.Duration `yaml:"cooldown" json:"cooldown"`
	BaseMin            int64         `yaml:"base_min" json:"base_min"`
	BaseMax            int64         `yaml:"base_max" json:"base_max"`
	MultiplierPerLevel float64       `yaml:"multiplier_per_level" json:"multiplier_per_level"`
	BoxChancePerLevel  int64         `yaml:"box_chance_per_level" json:"box_chance_per_level"`
	BoxChanceCap       int64         `yaml:"box_chance_cap" json:"box_chance_cap"`
}

// MysteryBoxBalance is the table mystery box rewards are drawn from
type MysteryBoxBalance struct {
	Rewards []RewardTemplate `yaml:"rewards" json:"rewards"`
}

// RewardTemplate is one entry of the mystery box table; amounts are drawn
// uniformly from [Min, Max]
type RewardTemplate struct {
	Type model.RewardType `yaml:"type" json:"type"`
	Name string           `yaml:"name" json:"name"`
	Min  int64            `yaml:"min" json:"min"`
	Max  int64            `yaml:"max" json:"max"`
}

// DefaultBalance returns the embedded balance
func DefaultBalance() Balance {
	b, err := ParseBalance(defaultBalanceYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded balance.yaml: %v", err))
	}
	return *b
}

// LoadBalance reads a balance file, or the embedded default when path is empty
func LoadBalance(path string) (*Balance, error) {
	if path == "" {
		b := DefaultBalance()
		return &b, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBalance(data)
}

// ParseBalance decodes YAML over the embedded defaults and validates the result
func ParseBalance(data []byte) (*Balance, error) {
	var b Balance
	if err := yaml.Unmarshal(defaultBalanceYAML, &b); err != nil {
		return nil, err
	}
	// A later document only overrides the keys it sets; lists are replaced whole
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse balance: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

func (b *Balance) Validate() error {
	r := b.Rebirth
	if r.BaseRequirement <= 0 {
		return errors.New("rebirth.base_requirement must be positive")
	}
	if r.LuckChancePercent < 0 || r.LuckChancePercent > 100 {
		return errors.New("rebirth.luck_chance_percent must be within [0, 100]")
	}
	if r.UpgradeCost <= 0 || r.UpgradeIncrement <= 0 {
		return errors.New("rebirth upgrade cost and increment must be positive")
	}

	l := b.LuckBonus
	if l.Cooldown < 0 {
		return errors.New("luck_bonus.cooldown must not be negative")
	}
	if l.BaseMin < 0 || l.BaseMax < l.BaseMin {
		return errors.New("luck_bonus base range is invalid")
	}
	if l.MultiplierPerLevel < 0 || l.BoxChancePerLevel < 0 || l.BoxChanceCap < 0 || l.BoxChanceCap > 100 {
		return errors.New("luck_bonus multiplier and box chance must be within range")
	}

	if len(b.MysteryBox.Rewards) == 0 {
		return errors.New("mystery_box.rewards must not be empty")
	}
	for i, t := range b.MysteryBox.Rewards {
		switch t.Type {
		case model.RewardCrystals, model.RewardClickPower, model.RewardProductionBoost:
		default:
			return fmt.Errorf("mystery_box.rewards[%d]: unknown type %q", i, t.Type)
		}
		if t.Min < 0 || t.Max < t.Min {
			return fmt.Errorf("mystery_box.rewards[%d]: invalid range [%d, %d]", i, t.Min, t.Max)
		}
	}
	return nil
}
