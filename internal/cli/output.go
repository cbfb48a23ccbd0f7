package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case GameState:
		o.printGameState(v)
	case RebirthResult:
		o.printRebirthResult(v)
	case UpgradeResult:
		o.printUpgradeResult(v)
	case RewardResult:
		o.printRewardResult(v)
	case BonusResult:
		o.printBonusResult(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case StatsResult:
		o.printStats(v.Stats)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Producer response type
type Producer struct {
	Count int64 `json:"count"`
	Price int64 `json:"price"`
}

// GameState response type
type GameState struct {
	Player             Player              `json:"player"`
	Currency           int64               `json:"currency"`
	LifetimeCurrency   int64               `json:"lifetime_currency"`
	ClickPower         int64               `json:"click_power"`
	ClickPowerPrice    int64               `json:"click_power_price"`
	TotalClicks        int64               `json:"total_clicks"`
	Producers          map[string]Producer `json:"producers"`
	RebirthCount       int64               `json:"rebirth_count"`
	RebirthPoints      int64               `json:"rebirth_points"`
	BonusClickPower    int64               `json:"bonus_click_power"`
	BonusProduction    int64               `json:"bonus_production"`
	BonusRebirthPoints int64               `json:"bonus_rebirth_points"`
	LuckLevel          int64               `json:"luck_level"`
	MysteryBoxes       int64               `json:"mystery_boxes"`
	LastLuckBonusAt    *time.Time          `json:"last_luck_bonus_at"`
}

// SaveRequest is the body sent by game save
type SaveRequest struct {
	Currency         int64               `json:"currency"`
	LifetimeCurrency int64               `json:"lifetime_currency"`
	ClickPower       int64               `json:"click_power"`
	ClickPowerPrice  int64               `json:"click_power_price"`
	TotalClicks      int64               `json:"total_clicks"`
	Producers        map[string]Producer `json:"producers"`
}

// RebirthResult response type
type RebirthResult struct {
	RebirthCount  int64 `json:"rebirth_count"`
	RebirthPoints int64 `json:"rebirth_points"`
	LuckLevel     int64 `json:"luck_level"`
	GainedPoints  int64 `json:"gained_points"`
	LuckGained    int64 `json:"luck_gained"`
}

// UpgradeResult response type
type UpgradeResult struct {
	Kind            string `json:"kind"`
	NewValue        int64  `json:"new_value"`
	RemainingPoints int64  `json:"remaining_points"`
}

// RewardResult response type
type RewardResult struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	Amount       int64  `json:"amount"`
	MysteryBoxes int64  `json:"mystery_boxes"`
}

// BonusResult response type
type BonusResult struct {
	TotalBonus   int64     `json:"total_bonus"`
	BoxGranted   bool      `json:"box_granted"`
	MysteryBoxes int64     `json:"mystery_boxes"`
	NextClaimAt  time.Time `json:"next_claim_at"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
	Score    int64  `json:"score"`
}

// Leaderboard response type
type Leaderboard struct {
	Type    string             `json:"type"`
	Label   string             `json:"label"`
	Entries []LeaderboardEntry `json:"entries"`
}

// Stats response type
type Stats struct {
	TotalPlayers      int64 `json:"total_players"`
	TotalCurrency     int64 `json:"total_currency"`
	TotalClicks       int64 `json:"total_clicks"`
	TotalRebirths     int64 `json:"total_rebirths"`
	TotalMysteryBoxes int64 `json:"total_mystery_boxes"`
}

// StatsResult wraps Stats
type StatsResult struct {
	Stats Stats `json:"stats"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.Username, p.ID)
	if !p.CreatedAt.IsZero() {
		fmt.Fprintf(o.w, "Joined: %s\n", p.CreatedAt.Format(time.RFC3339))
	}
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Fprintf(o.w, "Token: %s\n", a.SessionToken)
}

func (o *Output) printGameState(g GameState) {
	fmt.Fprintf(o.w, "Player: %s\n", g.Player.Username)
	fmt.Fprintf(o.w, "Crystals: %d (lifetime %d)\n", g.Currency, g.LifetimeCurrency)
	fmt.Fprintf(o.w, "Click power: %d (next level %d)\n", g.ClickPower, g.ClickPowerPrice)
	fmt.Fprintf(o.w, "Clicks: %d\n", g.TotalClicks)

	names := make([]string, 0, len(g.Producers))
	for name, p := range g.Producers {
		if p.Count > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if len(names) > 0 {
		fmt.Fprintln(o.w, "Producers:")
		for _, name := range names {
			p := g.Producers[name]
			fmt.Fprintf(o.w, "  - %s x%d (next %d)\n", name, p.Count, p.Price)
		}
	}

	fmt.Fprintf(o.w, "Rebirths: %d (%d points)\n", g.RebirthCount, g.RebirthPoints)
	fmt.Fprintf(o.w, "Bonuses: click +%d%%, production +%d%%, points +%d%%\n",
		g.BonusClickPower, g.BonusProduction, g.BonusRebirthPoints)
	fmt.Fprintf(o.w, "Luck: %d\n", g.LuckLevel)
	fmt.Fprintf(o.w, "Mystery boxes: %d\n", g.MysteryBoxes)
	if g.LastLuckBonusAt != nil {
		fmt.Fprintf(o.w, "Last luck bonus: %s\n", g.LastLuckBonusAt.Format(time.RFC3339))
	}
}

func (o *Output) printRebirthResult(r RebirthResult) {
	fmt.Fprintf(o.w, "Rebirth #%d complete!\n", r.RebirthCount)
	fmt.Fprintf(o.w, "Gained %d points (total %d)\n", r.GainedPoints, r.RebirthPoints)
	if r.LuckGained > 0 {
		fmt.Fprintf(o.w, "Lucky! Luck level is now %d\n", r.LuckLevel)
	}
}

func (o *Output) printUpgradeResult(u UpgradeResult) {
	fmt.Fprintf(o.w, "Upgraded %s bonus to %d%%\n", u.Kind, u.NewValue)
	fmt.Fprintf(o.w, "Points left: %d\n", u.RemainingPoints)
}

func (o *Output) printRewardResult(r RewardResult) {
	fmt.Fprintf(o.w, "%s: +%d %s\n", r.Name, r.Amount, r.Type)
	fmt.Fprintf(o.w, "Boxes left: %d\n", r.MysteryBoxes)
}

func (o *Output) printBonusResult(b BonusResult) {
	fmt.Fprintf(o.w, "Luck bonus: +%d crystals\n", b.TotalBonus)
	if b.BoxGranted {
		fmt.Fprintln(o.w, "You found a mystery box!")
	}
	fmt.Fprintf(o.w, "Mystery boxes: %d\n", b.MysteryBoxes)
	fmt.Fprintf(o.w, "Next claim: %s\n", b.NextClaimAt.Format(time.RFC3339))
}

func (o *Output) printLeaderboard(lb Leaderboard) {
	fmt.Fprintf(o.w, "%s (%s)\n", lb.Label, lb.Type)
	if len(lb.Entries) == 0 {
		fmt.Fprintln(o.w, "  no entries")
		return
	}
	for _, e := range lb.Entries {
		fmt.Fprintf(o.w, "  %3d. %-20s %d\n", e.Rank, e.Username, e.Score)
	}
}

func (o *Output) printStats(s Stats) {
	fmt.Fprintf(o.w, "Players: %d\n", s.TotalPlayers)
	fmt.Fprintf(o.w, "Crystals: %d\n", s.TotalCurrency)
	fmt.Fprintf(o.w, "Clicks: %d\n", s.TotalClicks)
	fmt.Fprintf(o.w, "Rebirths: %d\n", s.TotalRebirths)
	fmt.Fprintf(o.w, "Mystery boxes: %d\n", s.TotalMysteryBoxes)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}
