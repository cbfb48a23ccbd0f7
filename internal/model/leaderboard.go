package model

// LeaderboardCategory is a scoring dimension players are ranked on
type LeaderboardCategory string

const (
	CategoryCrystals  LeaderboardCategory = "crystals"
	CategoryCPS       LeaderboardCategory = "cps"
	CategoryClicks    LeaderboardCategory = "clicks"
	CategoryBuildings LeaderboardCategory = "buildings"
	CategoryRebirth   LeaderboardCategory = "rebirth"
	CategoryLuck      LeaderboardCategory = "luck"
)

// LeaderboardEntry is one ranked row
type LeaderboardEntry struct {
	Rank     int
	PlayerID PlayerID
	Username string
	Score    int64
}

// Leaderboard is the ranked top-N list for one category
type Leaderboard struct {
	Category LeaderboardCategory
	Label    string
	Entries  []LeaderboardEntry
}

// StatsSummary aggregates totals over all players
type StatsSummary struct {
	TotalPlayers      int64
	TotalCurrency     int64
	TotalClicks       int64
	TotalRebirths     int64
	TotalMysteryBoxes int64
}
