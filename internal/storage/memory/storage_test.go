package memory

import (
	"context"
	"testing"
	"time"

	"github.com/mcoot/sweepbot/internal/model"
	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestSaveAndGetGame() {
	game := model.NewGame("game-1", 9, 9, 10, true, time.Now())

	err := s.storage.SaveGame(s.ctx, game)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
	s.Equal(9, retrieved.Width)
	s.Equal(10, retrieved.MineCount)
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

func (s *StorageSuite) TestGamesAreCopied() {
	game := model.NewGame("game-1", 3, 3, 1, false, time.Now())
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	// Changes after saving are not visible until saved again
	game.RevealedMask[0][0] = true
	retrieved, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.False(retrieved.RevealedMask[0][0])

	retrieved.FlaggedMask[1][1] = true
	again, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.False(again.FlaggedMask[1][1])
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

	none, err := s.storage.ListGames(s.ctx, 0)
	s.Require().NoError(err)
	s.Empty(none)
}
