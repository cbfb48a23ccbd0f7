package storage

import (
	"context"

	"github.com/mcoot/crystalclicker/internal/model"
)

// UpdateFunc mutates a loaded player in place. Returning an error aborts the
// update and nothing is written.
type UpdateFunc func(player *model.PlayerState) error

// Storage defines the interface for player record persistence
type Storage interface {
	// CreatePlayer inserts a new player, failing with model.ErrUsernameExists
	// if the username is taken
	CreatePlayer(ctx context.Context, player *model.PlayerState) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerState, error)
	GetPlayerByUsername(ctx context.Context, username string) (*model.PlayerState, error)

	// UpdatePlayer runs fn against the current record and persists the result
	// atomically: no other update to the same player can interleave between the
	// read fn observes and the write
	UpdatePlayer(ctx context.Context, id model.PlayerID, fn UpdateFunc) (*model.PlayerState, error)

	// Aggregate operations
	ListPlayers(ctx context.Context) ([]*model.PlayerState, error)
	Stats(ctx context.Context) (*model.StatsSummary, error)
}
