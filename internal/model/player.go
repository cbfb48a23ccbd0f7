package model

import (
	"math"
	"time"
)

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Default values for a freshly registered player
const (
	DefaultClickPower      int64 = 1
	DefaultClickPowerPrice int64 = 20
	MaxUsernameLength            = 50
)

// Producer holds the owned count and current unit price of one producer kind
type Producer struct {
	Count int64
	Price int64
}

// PlayerState is the persisted record for one player
type PlayerState struct {
	ID             PlayerID
	Username       string // login username (immutable)
	CredentialHash string // bcrypt hash, never returned to callers

	// Client-simulated progression
	Currency         int64
	LifetimeCurrency int64
	ClickPower       int64
	ClickPowerPrice  int64
	TotalClicks      int64
	Producers        [ProducerKindCount]Producer

	// Engine-owned progression
	RebirthCount       int64
	RebirthPoints      int64
	BonusClickPower    int64
	BonusProduction    int64
	BonusRebirthPoints int64
	LuckLevel          int64
	MysteryBoxes       int64
	LastLuckBonusAt    time.Time // zero if never claimed

	CreatedAt    time.Time
	LastModified time.Time
}

// NewPlayerState creates a player record with every counter at its base default
func NewPlayerState(id PlayerID, username, credentialHash string, now time.Time) *PlayerState {
	p := &PlayerState{
		ID:              id,
		Username:        username,
		CredentialHash:  credentialHash,
		ClickPower:      DefaultClickPower,
		ClickPowerPrice: DefaultClickPowerPrice,
		CreatedAt:       now,
		LastModified:    now,
	}
	p.ResetProducers()
	return p
}

// ResetProducers zeroes every producer count and restores base prices
func (p *PlayerState) ResetProducers() {
	for _, kind := range ProducerKinds() {
		p.Producers[kind] = Producer{Count: 0, Price: kind.BasePrice()}
	}
}

// TotalProducers returns the sum of all producer counts, saturating at MaxInt64
func (p *PlayerState) TotalProducers() int64 {
	var total int64
	for _, prod := range p.Producers {
		total = SaturatingAdd(total, prod.Count)
	}
	return total
}

// CPS returns the weighted producer score used for the cps leaderboard,
// saturating at MaxInt64
func (p *PlayerState) CPS() int64 {
	var total int64
	for _, kind := range ProducerKinds() {
		total = SaturatingAdd(total, SaturatingMul(p.Producers[kind].Count, kind.CPSWeight()))
	}
	return total
}

// AddCurrency credits crystals to both the balance and the lifetime total.
// Both saturate at MaxInt64.
func (p *PlayerState) AddCurrency(amount int64) {
	p.Currency = SaturatingAdd(p.Currency, amount)
	p.LifetimeCurrency = SaturatingAdd(p.LifetimeCurrency, amount)
}

// AddClickPower raises click power, saturating at MaxInt64
func (p *PlayerState) AddClickPower(amount int64) {
	p.ClickPower = SaturatingAdd(p.ClickPower, amount)
}

// SaturatingAdd adds two non-negative values, clamping at MaxInt64
func SaturatingAdd(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// SaturatingMul multiplies two non-negative values, clamping at MaxInt64
func SaturatingMul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}

// Clone returns a deep copy of the player state
func (p *PlayerState) Clone() *PlayerState {
	c := *p
	return &c
}

// Snapshot is the client-simulated subset of PlayerState written by a save
type Snapshot struct {
	Currency         int64
	LifetimeCurrency int64
	ClickPower       int64
	ClickPowerPrice  int64
	TotalClicks      int64
	Producers        [ProducerKindCount]Producer
}

// Validate checks the snapshot is structurally sound.
// Economic plausibility is not checked; saves are trusted.
func (s Snapshot) Validate() error {
	if s.Currency < 0 || s.LifetimeCurrency < 0 || s.TotalClicks < 0 || s.ClickPowerPrice < 0 {
		return ErrInvalidInput
	}
	if s.ClickPower < 1 {
		return ErrInvalidInput
	}
	for _, prod := range s.Producers {
		if prod.Count < 0 || prod.Price < 0 {
			return ErrInvalidInput
		}
	}
	return nil
}
