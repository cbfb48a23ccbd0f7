package postgres

import (
	"time"

	"github.com/mcoot/crystalclicker/internal/model"
)

// playerRow is the gorm model for the players table
type playerRow struct {
	ID             string `gorm:"primaryKey;size:64"`
	Username       string `gorm:"uniqueIndex;not null;size:50"`
	CredentialHash string `gorm:"not null"`

	Currency         int64            `gorm:"not null;default:0"`
	LifetimeCurrency int64            `gorm:"not null;default:0"`
	ClickPower       int64            `gorm:"not null;default:1"`
	ClickPowerPrice  int64            `gorm:"not null;default:20"`
	TotalClicks      int64            `gorm:"not null;default:0"`
	Producers        []producerColumn `gorm:"serializer:json"`

	RebirthCount       int64 `gorm:"not null;default:0"`
	RebirthPoints      int64 `gorm:"not null;default:0"`
	BonusClickPower    int64 `gorm:"not null;default:0"`
	BonusProduction    int64 `gorm:"not null;default:0"`
	BonusRebirthPoints int64 `gorm:"not null;default:0"`
	LuckLevel          int64 `gorm:"not null;default:0"`
	MysteryBoxes       int64 `gorm:"not null;default:0"`
	LastLuckBonusAt    *time.Time

	CreatedAt    time.Time
	LastModified time.Time
}

type producerColumn struct {
	Kind  string `json:"kind"`
	Count int64  `json:"count"`
	Price int64  `json:"price"`
}

func (playerRow) TableName() string {
	return "players"
}

func fromDomain(p *model.PlayerState) *playerRow {
	row := &playerRow{
		ID:                 string(p.ID),
		Username:           p.Username,
		CredentialHash:     p.CredentialHash,
		Currency:           p.Currency,
		LifetimeCurrency:   p.LifetimeCurrency,
		ClickPower:         p.ClickPower,
		ClickPowerPrice:    p.ClickPowerPrice,
		TotalClicks:        p.TotalClicks,
		RebirthCount:       p.RebirthCount,
		RebirthPoints:      p.RebirthPoints,
		BonusClickPower:    p.BonusClickPower,
		BonusProduction:    p.BonusProduction,
		BonusRebirthPoints: p.BonusRebirthPoints,
		LuckLevel:          p.LuckLevel,
		MysteryBoxes:       p.MysteryBoxes,
		CreatedAt:          p.CreatedAt,
		LastModified:       p.LastModified,
	}
	if !p.LastLuckBonusAt.IsZero() {
		t := p.LastLuckBonusAt
		row.LastLuckBonusAt = &t
	}
	for _, kind := range model.ProducerKinds() {
		prod := p.Producers[kind]
		row.Producers = append(row.Producers, producerColumn{Kind: kind.String(), Count: prod.Count, Price: prod.Price})
	}
	return row
}

func (r *playerRow) ToDomain() *model.PlayerState {
	p := &model.PlayerState{
		ID:                 model.PlayerID(r.ID),
		Username:           r.Username,
		CredentialHash:     r.CredentialHash,
		Currency:           r.Currency,
		LifetimeCurrency:   r.LifetimeCurrency,
		ClickPower:         r.ClickPower,
		ClickPowerPrice:    r.ClickPowerPrice,
		TotalClicks:        r.TotalClicks,
		RebirthCount:       r.RebirthCount,
		RebirthPoints:      r.RebirthPoints,
		BonusClickPower:    r.BonusClickPower,
		BonusProduction:    r.BonusProduction,
		BonusRebirthPoints: r.BonusRebirthPoints,
		LuckLevel:          r.LuckLevel,
		MysteryBoxes:       r.MysteryBoxes,
		CreatedAt:          r.CreatedAt.UTC(),
		LastModified:       r.LastModified.UTC(),
	}
	if r.LastLuckBonusAt != nil {
		p.LastLuckBonusAt = r.LastLuckBonusAt.UTC()
	}
	p.ResetProducers()
	for _, col := range r.Producers {
		if kind, ok := model.ParseProducerKind(col.Kind); ok {
			p.Producers[kind] = model.Producer{Count: col.Count, Price: col.Price}
		}
	}
	return p
}

// statsRow receives the aggregate query
type statsRow struct {
	TotalPlayers      int64
	TotalCurrency     int64
	TotalClicks       int64
	TotalRebirths     int64
	TotalMysteryBoxes int64
}
