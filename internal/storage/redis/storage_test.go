package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sweepbot/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.GameTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestSaveAndGetGame() {
	game := model.NewGame("game-1", 4, 3, 2, false, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	game.Mines[0][1] = true
	game.Mines[2][3] = true
	game.MinesPlaced = true
	game.RevealedMask[1][1] = true
	game.FlaggedMask[0][1] = true
	game.ControlHash = "hash"

	err := s.storage.SaveGame(s.ctx, game)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(game.Width, retrieved.Width)
	s.Equal(game.Height, retrieved.Height)
	s.Equal(game.Mines, retrieved.Mines)
	s.Equal(game.RevealedMask, retrieved.RevealedMask)
	s.Equal(game.FlaggedMask, retrieved.FlaggedMask)
	s.Equal("hash", retrieved.ControlHash)
	s.Equal(game.PlayerView().String(), retrieved.PlayerView().String())
}

func (s *StorageSuite) TestSavePreservesExplodedPosition() {
	game := model.NewGame("game-1", 2, 2, 1, false, time.Now())
	game.Mines[1][1] = true
	game.Status = model.StatusLost
	game.Exploded = &model.Position{Row: 1, Col: 1}

	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	retrieved, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(model.StatusLost, retrieved.Status)
	s.Require().NotNil(retrieved.Exploded)
	s.Equal(model.Position{Row: 1, Col: 1}, *retrieved.Exploded)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestDeleteGame() {
	_ = s.storage.SaveGame(s.ctx, model.NewGame("game-1", 3, 3, 1, false, time.Now()))

	err := s.storage.DeleteGame(s.ctx, "game-1")
	s.Require().NoError(err)

	_, err = s.storage.GetGame(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestGameExists() {
	exists, err := s.storage.GameExists(s.ctx, "game-1")
	s.Require().NoError(err)
	s.False(exists)

	_ = s.storage.SaveGame(s.ctx, model.NewGame("game-1", 3, 3, 1, false, time.Now()))

	exists, err = s.storage.GameExists(s.ctx, "game-1")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestGameTTL() {
	_ = s.storage.SaveGame(s.ctx, model.NewGame("game-1", 3, 3, 1, false, time.Now()))

	ttl := s.mini.TTL("sweep:game:game-1")
	s.Equal(time.Hour, ttl)

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetGame(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestSaveIndexesGame() {
	game := model.NewGame("game-1", 3, 3, 1, false, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	score, err := s.mini.ZScore("sweep:games", "game-1")
	s.Require().NoError(err)
	s.Equal(float64(game.UpdatedAt.UnixMilli()), score)

	other := model.NewGame("game-2", 3, 3, 1, false, game.UpdatedAt.Add(time.Minute))
	s.Require().NoError(s.storage.SaveGame(s.ctx, other))

	s.Require().NoError(s.storage.DeleteGame(s.ctx, "game-1"))
	members, err := s.mini.ZMembers("sweep:games")
	s.Require().NoError(err)
	s.Equal([]string{"game-2"}, members)

	// Removing the last member drops the index key entirely
	s.Require().NoError(s.storage.DeleteGame(s.ctx, "game-2"))
	s.False(s.mini.Exists("sweep:games"))
}

func (s *StorageSuite) TestListGamesNewestFirst() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []model.GameID{"old", "newest", "middle"} {
		game := model.NewGame(id, 3, 3, 1, false, base)
		game.UpdatedAt = base.Add(time.Duration([]int{0, 2, 1}[i]) * time.Minute)
		s.Require().NoError(s.storage.SaveGame(s.ctx, game))
	}

	games, err := s.storage.ListGames(s.ctx, 2)

	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal(model.GameID("newest"), games[0].ID)
	s.Equal(model.GameID("middle"), games[1].ID)
}

func (s *StorageSuite) TestListGamesPrunesExpired() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveGame(s.ctx, model.NewGame("stale", 3, 3, 1, false, base)))
	s.mini.FastForward(2 * time.Hour)
	s.Require().NoError(s.storage.SaveGame(s.ctx, model.NewGame("fresh", 3, 3, 1, false, base.Add(time.Hour))))

	games, err := s.storage.ListGames(s.ctx, 10)

	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(model.GameID("fresh"), games[0].ID)

	members, err := s.mini.ZMembers("sweep:games")
	s.Require().NoError(err)
	s.Equal([]string{"fresh"}, members)
}

func (s *StorageSuite) TestKeyPrefix() {
	cfg := DefaultConfig()
	cfg.KeyPrefix = "staging"
	store := NewWithClient(redis.NewClient(&redis.Options{Addr: s.mini.Addr()}), cfg)
	defer func() { _ = store.Close() }()

	s.Require().NoError(store.SaveGame(s.ctx, model.NewGame("game-1", 3, 3, 1, false, time.Now())))

	s.True(s.mini.Exists("staging:game:game-1"))
	s.False(s.mini.Exists("sweep:game:game-1"))
}
