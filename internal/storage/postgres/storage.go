package postgres

import (
	"context"
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/mcoot/crystalclicker/internal/model"
	"github.com/mcoot/crystalclicker/internal/storage"
)

// Storage is a PostgreSQL-backed implementation of the storage interface
type Storage struct {
	db *gorm.DB
}

// Open connects to PostgreSQL and migrates the players table
func Open(dsn string) (*Storage, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, model.StoreError(err)
	}
	if err := db.AutoMigrate(&playerRow{}); err != nil {
		return nil, model.StoreError(err)
	}
	return New(db), nil
}

// New wraps an existing gorm handle
func New(db *gorm.DB) *Storage {
	return &Storage{db: db}
}

// Close releases the underlying connection pool
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) CreatePlayer(ctx context.Context, player *model.PlayerState) error {
	result := s.db.WithContext(ctx).Create(fromDomain(player))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return model.ErrUsernameExists
		}
		return model.StoreError(result.Error)
	}
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerState, error) {
	var row playerRow
	err := s.db.WithContext(ctx).Where("id = ?", string(id)).First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	return row.ToDomain(), nil
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.PlayerState, error) {
	var row playerRow
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	return row.ToDomain(), nil
}

// UpdatePlayer holds a row lock (SELECT ... FOR UPDATE) for the duration of fn
func (s *Storage) UpdatePlayer(ctx context.Context, id model.PlayerID, fn storage.UpdateFunc) (*model.PlayerState, error) {
	var (
		updated *model.PlayerState
		fnErr   error
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row playerRow
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", string(id)).
			First(&row).Error; err != nil {
			return err
		}

		player := row.ToDomain()
		if err := fn(player); err != nil {
			fnErr = err
			return err
		}
		if err := tx.Save(fromDomain(player)).Error; err != nil {
			return err
		}
		updated = player
		return nil
	})
	if fnErr != nil {
		return nil, fnErr
	}
	if err != nil {
		return nil, translate(err)
	}
	return updated, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.PlayerState, error) {
	var rows []playerRow
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	players := make([]*model.PlayerState, 0, len(rows))
	for i := range rows {
		players = append(players, rows[i].ToDomain())
	}
	return players, nil
}

func (s *Storage) Stats(ctx context.Context) (*model.StatsSummary, error) {
	var row statsRow
	err := s.db.WithContext(ctx).Model(&playerRow{}).
		Select(`COUNT(*) AS total_players,
			`+clampedSum("currency")+` AS total_currency,
			`+clampedSum("total_clicks")+` AS total_clicks,
			`+clampedSum("rebirth_count")+` AS total_rebirths,
			`+clampedSum("mystery_boxes")+` AS total_mystery_boxes`).
		Scan(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	return &model.StatsSummary{
		TotalPlayers:      row.TotalPlayers,
		TotalCurrency:     row.TotalCurrency,
		TotalClicks:       row.TotalClicks,
		TotalRebirths:     row.TotalRebirths,
		TotalMysteryBoxes: row.TotalMysteryBoxes,
	}, nil
}

// clampedSum sums a bigint column, clamping at the bigint maximum so the
// numeric result always scans into an int64
func clampedSum(column string) string {
	return "LEAST(COALESCE(SUM(" + column + "), 0), 9223372036854775807)::bigint"
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ErrPlayerNotFound
	}
	return model.StoreError(err)
}
