package response

import (
	"time"

	"github.com/mcoot/crystalclicker/internal/model"
	"github.com/mcoot/crystalclicker/internal/services/auth"
)

// Player is the public summary of a player
type Player struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player: Player{
			ID:       string(s.PlayerID),
			Username: s.Username,
		},
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Producer is one producer entry in a game state
type Producer struct {
	Count int64 `json:"count"`
	Price int64 `json:"price"`
}

// GameState is the full persisted progression of a player
type GameState struct {
	Player Player `json:"player"`

	Currency         int64               `json:"currency"`
	LifetimeCurrency int64               `json:"lifetime_currency"`
	ClickPower       int64               `json:"click_power"`
	ClickPowerPrice  int64               `json:"click_power_price"`
	TotalClicks      int64               `json:"total_clicks"`
	Producers        map[string]Producer `json:"producers"`

	RebirthCount       int64      `json:"rebirth_count"`
	RebirthPoints      int64      `json:"rebirth_points"`
	BonusClickPower    int64      `json:"bonus_click_power"`
	BonusProduction    int64      `json:"bonus_production"`
	BonusRebirthPoints int64      `json:"bonus_rebirth_points"`
	LuckLevel          int64      `json:"luck_level"`
	MysteryBoxes       int64      `json:"mystery_boxes"`
	LastLuckBonusAt    *time.Time `json:"last_luck_bonus_at"`

	LastModified time.Time `json:"last_modified"`
}

// GameStateFromModel converts a player state, dropping the credential hash
func GameStateFromModel(p *model.PlayerState) GameState {
	producers := make(map[string]Producer, model.ProducerKindCount)
	for _, kind := range model.ProducerKinds() {
		prod := p.Producers[kind]
		producers[kind.String()] = Producer{Count: prod.Count, Price: prod.Price}
	}

	var lastLuck *time.Time
	if !p.LastLuckBonusAt.IsZero() {
		t := p.LastLuckBonusAt
		lastLuck = &t
	}

	return GameState{
		Player: Player{
			ID:        string(p.ID),
			Username:  p.Username,
			CreatedAt: p.CreatedAt,
		},
		Currency:           p.Currency,
		LifetimeCurrency:   p.LifetimeCurrency,
		ClickPower:         p.ClickPower,
		ClickPowerPrice:    p.ClickPowerPrice,
		TotalClicks:        p.TotalClicks,
		Producers:          producers,
		RebirthCount:       p.RebirthCount,
		RebirthPoints:      p.RebirthPoints,
		BonusClickPower:    p.BonusClickPower,
		BonusProduction:    p.BonusProduction,
		BonusRebirthPoints: p.BonusRebirthPoints,
		LuckLevel:          p.LuckLevel,
		MysteryBoxes:       p.MysteryBoxes,
		LastLuckBonusAt:    lastLuck,
		LastModified:       p.LastModified,
	}
}

// Rebirth is the response for a successful rebirth
type Rebirth struct {
	RebirthCount  int64 `json:"rebirth_count"`
	RebirthPoints int64 `json:"rebirth_points"`
	LuckLevel     int64 `json:"luck_level"`
	GainedPoints  int64 `json:"gained_points"`
	LuckGained    int64 `json:"luck_gained"`
}

// RebirthFromModel converts model.RebirthResult
func RebirthFromModel(r *model.RebirthResult) Rebirth {
	return Rebirth{
		RebirthCount:  r.RebirthCount,
		RebirthPoints: r.RebirthPoints,
		LuckLevel:     r.LuckLevel,
		GainedPoints:  r.GainedPoints,
		LuckGained:    r.LuckGained,
	}
}

// Upgrade is the response for a rebirth bonus upgrade
type Upgrade struct {
	Kind            string `json:"kind"`
	NewValue        int64  `json:"new_value"`
	RemainingPoints int64  `json:"remaining_points"`
}

// UpgradeFromModel converts model.UpgradeResult
func UpgradeFromModel(u *model.UpgradeResult) Upgrade {
	return Upgrade{
		Kind:            string(u.Kind),
		NewValue:        u.NewValue,
		RemainingPoints: u.RemainingPoints,
	}
}

// Reward is the response for an opened mystery box
type Reward struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	Amount       int64  `json:"amount"`
	MysteryBoxes int64  `json:"mystery_boxes"`
}

// RewardFromModel converts model.RewardResult
func RewardFromModel(r *model.RewardResult) Reward {
	return Reward{
		Type:         string(r.Type),
		Name:         r.Name,
		Amount:       r.Amount,
		MysteryBoxes: r.MysteryBoxes,
	}
}

// Bonus is the response for a claimed luck bonus
type Bonus struct {
	TotalBonus   int64     `json:"total_bonus"`
	BoxGranted   bool      `json:"box_granted"`
	MysteryBoxes int64     `json:"mystery_boxes"`
	NextClaimAt  time.Time `json:"next_claim_at"`
}

// BonusFromModel converts model.BonusResult
func BonusFromModel(b *model.BonusResult) Bonus {
	return Bonus{
		TotalBonus:   b.TotalBonus,
		BoxGranted:   b.BoxGranted,
		MysteryBoxes: b.MysteryBoxes,
		NextClaimAt:  b.NextClaimAt,
	}
}

// LeaderboardEntry is one ranked row
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
	Score    int64  `json:"score"`
}

// Leaderboard is the ranked list for one category
type Leaderboard struct {
	Type    string             `json:"type"`
	Label   string             `json:"label"`
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardFromModel converts model.Leaderboard
func LeaderboardFromModel(lb *model.Leaderboard) Leaderboard {
	entries := make([]LeaderboardEntry, len(lb.Entries))
	for i, e := range lb.Entries {
		entries[i] = LeaderboardEntry{
			Rank:     e.Rank,
			PlayerID: string(e.PlayerID),
			Username: e.Username,
			Score:    e.Score,
		}
	}
	return Leaderboard{
		Type:    string(lb.Category),
		Label:   lb.Label,
		Entries: entries,
	}
}

// Stats holds global totals
type Stats struct {
	TotalPlayers      int64 `json:"total_players"`
	TotalCurrency     int64 `json:"total_currency"`
	TotalClicks       int64 `json:"total_clicks"`
	TotalRebirths     int64 `json:"total_rebirths"`
	TotalMysteryBoxes int64 `json:"total_mystery_boxes"`
}

// StatsResponse wraps Stats
type StatsResponse struct {
	Stats Stats `json:"stats"`
}

// StatsFromModel converts model.StatsSummary
func StatsFromModel(s *model.StatsSummary) StatsResponse {
	return StatsResponse{Stats: Stats{
		TotalPlayers:      s.TotalPlayers,
		TotalCurrency:     s.TotalCurrency,
		TotalClicks:       s.TotalClicks,
		TotalRebirths:     s.TotalRebirths,
		TotalMysteryBoxes: s.TotalMysteryBoxes,
	}}
}
