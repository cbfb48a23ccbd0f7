package model

import (
	"errors"
	"fmt"
	"time"
)

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound     = errors.New("player not found")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")

	// Rebirth errors
	ErrInsufficientCurrency = errors.New("insufficient currency")
	ErrInsufficientPoints   = errors.New("insufficient rebirth points")
	ErrInvalidKind          = errors.New("invalid bonus kind")

	// Reward errors
	ErrNoBoxesAvailable = errors.New("no mystery boxes available")
	ErrNoLuckLevel      = errors.New("no luck level")
	ErrOnCooldown       = errors.New("luck bonus is on cooldown")

	// Leaderboard errors
	ErrInvalidCategory = errors.New("invalid leaderboard category")

	// Store errors
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrStoreConflict means an update lost every optimistic attempt and
	// nothing was written
	ErrStoreConflict = fmt.Errorf("%w: write conflict", ErrStoreUnavailable)
)

// InsufficientCurrencyError carries the currency a rebirth would have required
type InsufficientCurrencyError struct {
	Required int64
}

func (e *InsufficientCurrencyError) Error() string {
	return fmt.Sprintf("insufficient currency: %d required", e.Required)
}

func (e *InsufficientCurrencyError) Unwrap() error {
	return ErrInsufficientCurrency
}

// InsufficientPointsError carries the cost of the rejected upgrade
type InsufficientPointsError struct {
	Cost int64
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient rebirth points: %d required", e.Cost)
}

func (e *InsufficientPointsError) Unwrap() error {
	return ErrInsufficientPoints
}

// CooldownError carries the time left until the luck bonus can be claimed
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("luck bonus is on cooldown: %ds remaining", e.RemainingSeconds())
}

func (e *CooldownError) Unwrap() error {
	return ErrOnCooldown
}

// RemainingSeconds rounds the remaining cooldown up to whole seconds
func (e *CooldownError) RemainingSeconds() int64 {
	secs := int64(e.Remaining / time.Second)
	if e.Remaining%time.Second != 0 {
		secs++
	}
	return secs
}

// StoreError wraps a backend failure as ErrStoreUnavailable
func StoreError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
