package progression

import (
	"context"
	"log/slog"

	"github.com/mcoot/crystalclicker/internal/dependencies/clock"
	"github.com/mcoot/crystalclicker/internal/model"
	"github.com/mcoot/crystalclicker/internal/storage"
)

// Ledger persists client-simulated progression snapshots
type Ledger struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new Ledger
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Ledger {
	return &Ledger{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// ApplySnapshot overwrites the client-simulated fields of a player's record.
// Engine-owned fields are left untouched. Lifetime currency and total clicks
// never move backwards.
func (l *Ledger) ApplySnapshot(ctx context.Context, id model.PlayerID, snap model.Snapshot) (*model.PlayerState, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	player, err := l.storage.UpdatePlayer(ctx, id, func(p *model.PlayerState) error {
		p.Currency = snap.Currency
		p.LifetimeCurrency = max(p.LifetimeCurrency, snap.LifetimeCurrency)
		p.ClickPower = snap.ClickPower
		p.ClickPowerPrice = snap.ClickPowerPrice
		p.TotalClicks = max(p.TotalClicks, snap.TotalClicks)
		p.Producers = snap.Producers
		p.LastModified = l.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Debug("snapshot applied",
		slog.String("player_id", string(id)),
		slog.Int64("currency", player.Currency),
	)
	return player, nil
}

// ReadSnapshot returns the player's full record
func (l *Ledger) ReadSnapshot(ctx context.Context, id model.PlayerID) (*model.PlayerState, error) {
	return l.storage.GetPlayer(ctx, id)
}
