package postgres

import (
	"context"
	"math"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/crystalclicker/internal/model"
)

// StorageSuite runs against a real database when CRYSTAL_TEST_POSTGRES_DSN is set
type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
	now     time.Time
}

func TestStorageSuite(t *testing.T) {
	if os.Getenv("CRYSTAL_TEST_POSTGRES_DSN") == "" {
		t.Skip("CRYSTAL_TEST_POSTGRES_DSN not set")
	}
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	st, err := Open(os.Getenv("CRYSTAL_TEST_POSTGRES_DSN"))
	s.Require().NoError(err)
	s.Require().NoError(st.db.Exec("TRUNCATE TABLE players").Error)
	s.storage = st
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *StorageSuite) newPlayer(id, username string) *model.PlayerState {
	return model.NewPlayerState(model.PlayerID(id), username, "hash", s.now)
}

func (s *StorageSuite) TestCreateAndGetPlayer() {
	s.Require().NoError(s.storage.CreatePlayer(s.ctx, s.newPlayer("player-1", "alice")))

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("alice", retrieved.Username)

	byName, err := s.storage.GetPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(retrieved.ID, byName.ID)
}

func (s *StorageSuite) TestCreatePlayerRejectsDuplicateUsername() {
	_ = s.storage.CreatePlayer(s.ctx, s.newPlayer("player-1", "alice"))

	err := s.storage.CreatePlayer(s.ctx, s.newPlayer("player-2", "alice"))
	s.ErrorIs(err, model.ErrUsernameExists)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestUpdatePlayerAbortsOnError() {
	_ = s.storage.CreatePlayer(s.ctx, s.newPlayer("player-1", "alice"))

	_, err := s.storage.UpdatePlayer(s.ctx, "player-1", func(p *model.PlayerState) error {
		p.Currency = 99
		return model.ErrNoLuckLevel
	})
	s.ErrorIs(err, model.ErrNoLuckLevel)

	retrieved, _ := s.storage.GetPlayer(s.ctx, "player-1")
	s.Equal(int64(0), retrieved.Currency)
}

func (s *StorageSuite) TestUpdatePlayerRowLockSerializesWriters() {
	_ = s.storage.CreatePlayer(s.ctx, s.newPlayer("player-1", "alice"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.storage.UpdatePlayer(s.ctx, "player-1", func(p *model.PlayerState) error {
				p.TotalClicks++
				return nil
			})
		}()
	}
	wg.Wait()

	retrieved, _ := s.storage.GetPlayer(s.ctx, "player-1")
	s.Equal(int64(20), retrieved.TotalClicks)
}

func (s *StorageSuite) TestStats() {
	p1 := s.newPlayer("player-1", "alice")
	p1.Currency = 10
	p1.RebirthCount = 1
	p2 := s.newPlayer("player-2", "bob")
	p2.Currency = 5
	p2.MysteryBoxes = 2
	_ = s.storage.CreatePlayer(s.ctx, p1)
	_ = s.storage.CreatePlayer(s.ctx, p2)

	stats, err := s.storage.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), stats.TotalPlayers)
	s.Equal(int64(15), stats.TotalCurrency)
	s.Equal(int64(1), stats.TotalRebirths)
	s.Equal(int64(2), stats.TotalMysteryBoxes)

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Len(players, 2)
}

func (s *StorageSuite) TestStatsSaturates() {
	p1 := s.newPlayer("player-1", "alice")
	p1.Currency = math.MaxInt64
	p2 := s.newPlayer("player-2", "bob")
	p2.Currency = 3
	_ = s.storage.CreatePlayer(s.ctx, p1)
	_ = s.storage.CreatePlayer(s.ctx, p2)

	stats, err := s.storage.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(math.MaxInt64), stats.TotalCurrency)
}
