package request

import (
	"fmt"

	"github.com/mcoot/crystalclicker/internal/model"
)

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Producer is one producer entry in a saved game
type Producer struct {
	Count int64 `json:"count"`
	Price int64 `json:"price"`
}

// SaveGameRequest is the request body for saving the client-simulated state.
// Producers are keyed by kind name; omitted kinds keep count 0 at base price.
type SaveGameRequest struct {
	Currency         int64               `json:"currency"`
	LifetimeCurrency int64               `json:"lifetime_currency"`
	ClickPower       int64               `json:"click_power"`
	ClickPowerPrice  int64               `json:"click_power_price"`
	TotalClicks      int64               `json:"total_clicks"`
	Producers        map[string]Producer `json:"producers"`
}

// ToSnapshot converts the request into a model snapshot
func (r SaveGameRequest) ToSnapshot() (model.Snapshot, error) {
	snap := model.Snapshot{
		Currency:         r.Currency,
		LifetimeCurrency: r.LifetimeCurrency,
		ClickPower:       r.ClickPower,
		ClickPowerPrice:  r.ClickPowerPrice,
		TotalClicks:      r.TotalClicks,
	}
	for _, kind := range model.ProducerKinds() {
		snap.Producers[kind] = model.Producer{Price: kind.BasePrice()}
	}
	for name, p := range r.Producers {
		kind, ok := model.ParseProducerKind(name)
		if !ok {
			return model.Snapshot{}, fmt.Errorf("unknown producer %q", name)
		}
		snap.Producers[kind] = model.Producer{Count: p.Count, Price: p.Price}
	}
	return snap, nil
}

// UpgradeRequest is the request body for buying a rebirth bonus level
type UpgradeRequest struct {
	Kind string `json:"kind"`
}
