package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type GameSuite struct {
	suite.Suite
	game *Game
}

func TestGameSuite(t *testing.T) {
	suite.Run(t, new(GameSuite))
}

func (s *GameSuite) SetupTest() {
	// Mines at (0,0) and (2,2) on a 3x3 grid
	s.game = NewGame("g1", 3, 3, 2, false, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	s.game.Mines[0][0] = true
	s.game.Mines[2][2] = true
	s.game.MinesPlaced = true
}

func (s *GameSuite) TestAdjacentMines() {
	s.Equal(2, s.game.AdjacentMines(Position{Row: 1, Col: 1}))
	s.Equal(1, s.game.AdjacentMines(Position{Row: 0, Col: 1}))
	s.Equal(0, s.game.AdjacentMines(Position{Row: 0, Col: 2}))
}

func (s *GameSuite) TestPlayerViewOngoing() {
	s.game.RevealedMask[1][1] = true
	s.game.FlaggedMask[0][0] = true

	view := s.game.PlayerView()
	s.Equal("F##\n#2#\n###", view.String())
	s.False(view.IsGameOver())
}

func (s *GameSuite) TestPlayerViewLost() {
	s.game.RevealedMask[1][1] = true
	s.game.Status = StatusLost
	s.game.Exploded = &Position{Row: 2, Col: 2}

	view := s.game.PlayerView()
	s.Equal("*##\n#2#\n##X", view.String())
	s.True(view.IsGameOver())
}

func (s *GameSuite) TestSafeCellsRemaining() {
	s.Equal(7, s.game.SafeCellsRemaining())
	s.game.RevealedMask[0][1] = true
	s.game.RevealedMask[1][1] = true
	s.Equal(5, s.game.SafeCellsRemaining())
}

func (s *GameSuite) TestCloneIsDeep() {
	s.game.Exploded = &Position{Row: 2, Col: 2}
	clone := s.game.Clone()

	clone.RevealedMask[1][1] = true
	clone.FlaggedMask[0][0] = true
	clone.Mines[0][0] = false
	clone.Exploded.Row = 0
	clone.Moves = 5

	s.False(s.game.RevealedMask[1][1])
	s.False(s.game.FlaggedMask[0][0])
	s.True(s.game.Mines[0][0])
	s.Equal(2, s.game.Exploded.Row)
	s.Zero(s.game.Moves)
	s.Equal(s.game.ID, clone.ID)
}
