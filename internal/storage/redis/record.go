package redis

import (
	"time"

	"github.com/mcoot/crystalclicker/internal/model"
)

// playerRecord is the JSON document stored under a player key
type playerRecord struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	CredentialHash string `json:"credential_hash"`

	Currency         int64            `json:"currency"`
	LifetimeCurrency int64            `json:"lifetime_currency"`
	ClickPower       int64            `json:"click_power"`
	ClickPowerPrice  int64            `json:"click_power_price"`
	TotalClicks      int64            `json:"total_clicks"`
	Producers        []producerRecord `json:"producers"`

	RebirthCount       int64     `json:"rebirth_count"`
	RebirthPoints      int64     `json:"rebirth_points"`
	BonusClickPower    int64     `json:"bonus_click_power"`
	BonusProduction    int64     `json:"bonus_production"`
	BonusRebirthPoints int64     `json:"bonus_rebirth_points"`
	LuckLevel          int64     `json:"luck_level"`
	MysteryBoxes       int64     `json:"mystery_boxes"`
	LastLuckBonusAt    time.Time `json:"last_luck_bonus_at"`

	CreatedAt    time.Time `json:"created_at"`
	LastModified time.Time `json:"last_modified"`
}

// producerRecord is keyed by name so catalog reordering never shifts counts
type producerRecord struct {
	Kind  string `json:"kind"`
	Count int64  `json:"count"`
	Price int64  `json:"price"`
}

func fromDomain(p *model.PlayerState) playerRecord {
	rec := playerRecord{
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
		LastLuckBonusAt:    p.LastLuckBonusAt,
		CreatedAt:          p.CreatedAt,
		LastModified:       p.LastModified,
	}
	rec.Producers = make([]producerRecord, 0, model.ProducerKindCount)
	for _, kind := range model.ProducerKinds() {
		prod := p.Producers[kind]
		rec.Producers = append(rec.Producers, producerRecord{
			Kind:  kind.String(),
			Count: prod.Count,
			Price: prod.Price,
		})
	}
	return rec
}

func (r playerRecord) toDomain() *model.PlayerState {
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
		LastLuckBonusAt:    r.LastLuckBonusAt,
		CreatedAt:          r.CreatedAt,
		LastModified:       r.LastModified,
	}
	p.ResetProducers()
	for _, pr := range r.Producers {
		kind, ok := model.ParseProducerKind(pr.Kind)
		if !ok {
			continue // Unknown kind from a newer catalog
		}
		p.Producers[kind] = model.Producer{Count: pr.Count, Price: pr.Price}
	}
	return p
}
