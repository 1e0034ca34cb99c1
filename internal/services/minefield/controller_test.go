package minefield

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/sweepbot/internal/dependencies/mocks"
	"github.com/mcoot/sweepbot/internal/model"
	"github.com/mcoot/sweepbot/internal/services/auth"
	"github.com/mcoot/sweepbot/internal/storage/memory"
	"github.com/mcoot/sweepbot/internal/testutil"
)

type recordedMetrics struct {
	created  int
	moves    map[string]int
	finished map[model.GameStatus]int
}

func (r *recordedMetrics) GameCreated(width, height int) { r.created++ }
func (r *recordedMetrics) MoveApplied(kind string)       { r.moves[kind]++ }
func (r *recordedMetrics) GameFinished(status model.GameStatus) {
	r.finished[status]++
}

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	metrics    *recordedMetrics
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.metrics = &recordedMetrics{moves: map[string]int{}, finished: map[model.GameStatus]int{}}
	authService := auth.New(auth.Config{BcryptCost: bcrypt.MinCost})
	s.controller = NewController(s.storage, authService, s.clock, s.random, s.metrics, testutil.NopLogger())
	s.ctx = context.Background()
}

func pos(row, col int) model.Position {
	return model.Position{Row: row, Col: col}
}

// newGame creates a game with the given ID. With an empty Intn queue mines
// land on the first eligible cells in row-major order.
func (s *ControllerSuite) newGame(id string, opts Options) (*model.Game, string) {
	s.random.QueueString(id)
	game, token, err := s.controller.CreateGame(s.ctx, opts)
	s.Require().NoError(err)
	return game, token
}

func (s *ControllerSuite) view(id string) string {
	board, err := s.controller.Snapshot(s.ctx, model.GameID(id))
	s.Require().NoError(err)
	return board.String()
}

// CreateGame tests

func (s *ControllerSuite) TestCreateGamePlacesMinesImmediately() {
	game, token := s.newGame("GAME1", Options{Width: 3, Height: 3, Mines: 2})

	s.Equal(model.GameID("GAME1"), game.ID)
	s.Equal(model.StatusOngoing, game.Status)
	s.True(game.MinesPlaced)
	s.True(game.IsMine(pos(0, 0)))
	s.True(game.IsMine(pos(0, 1)))
	s.True(strings.HasPrefix(token, "ctl_"))
	s.NotEqual(token, game.ControlHash)
	s.Equal(1, s.metrics.created)
}

func (s *ControllerSuite) TestCreateGameDefersMinesWithSafeOpening() {
	game, _ := s.newGame("GAME1", Options{Width: 4, Height: 4, Mines: 1, SafeOpening: true})

	s.False(game.MinesPlaced)
	s.Equal(0, countMines(game))
}

func (s *ControllerSuite) TestCreateGameRejectsInvalidOptions() {
	cases := []struct {
		name string
		opts Options
		err  error
	}{
		{"zero width", Options{Width: 0, Height: 5, Mines: 1}, model.ErrInvalidGameSize},
		{"too tall", Options{Width: 5, Height: MaxDimension + 1, Mines: 1}, model.ErrInvalidGameSize},
		{"negative mines", Options{Width: 5, Height: 5, Mines: -1}, model.ErrInvalidMineCount},
		{"no safe cell", Options{Width: 2, Height: 2, Mines: 4}, model.ErrInvalidMineCount},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, _, err := s.controller.CreateGame(s.ctx, tc.opts)
			s.ErrorIs(err, tc.err)
		})
	}
}

func (s *ControllerSuite) TestAuthorize() {
	_, token := s.newGame("GAME1", Options{Width: 3, Height: 3, Mines: 1})

	s.NoError(s.controller.Authorize(s.ctx, "GAME1", token))
	s.ErrorIs(s.controller.Authorize(s.ctx, "GAME1", "ctl_wrong"), auth.ErrInvalidToken)
	s.ErrorIs(s.controller.Authorize(s.ctx, "MISSING", token), model.ErrGameNotFound)
}

// Reveal tests

func (s *ControllerSuite) TestRevealSafeOpeningFloodFills() {
	s.newGame("GAME1", Options{Width: 4, Height: 4, Mines: 1, SafeOpening: true})

	game, err := s.controller.Reveal(s.ctx, "GAME1", pos(0, 0))
	s.Require().NoError(err)

	// The opening and its neighbours are kept clear, so the mine lands on (0,2)
	s.True(game.IsMine(pos(0, 2)))
	s.Equal(model.StatusOngoing, game.Status)
	s.Equal("01##\n0111\n0000\n0000", strings.ReplaceAll(s.view("GAME1"), ".", "0"))
	s.Equal(1, game.SafeCellsRemaining())
}

func (s *ControllerSuite) TestRevealLastSafeCellWins() {
	s.newGame("GAME1", Options{Width: 4, Height: 4, Mines: 1, SafeOpening: true})
	_, err := s.controller.Reveal(s.ctx, "GAME1", pos(0, 0))
	s.Require().NoError(err)

	game, err := s.controller.Reveal(s.ctx, "GAME1", pos(0, 3))
	s.Require().NoError(err)

	s.Equal(model.StatusWon, game.Status)
	s.Equal(1, s.metrics.finished[model.StatusWon])
}

func (s *ControllerSuite) TestSafeOpeningFallsBackWhenBoardIsCrowded() {
	s.newGame("GAME1", Options{Width: 3, Height: 3, Mines: 8, SafeOpening: true})

	game, err := s.controller.Reveal(s.ctx, "GAME1", pos(1, 1))
	s.Require().NoError(err)

	s.False(game.IsMine(pos(1, 1)))
	s.Equal(8, countMines(game))
	s.Equal(model.StatusWon, game.Status)
}

func (s *ControllerSuite) TestRevealMineLoses() {
	s.newGame("GAME1", Options{Width: 3, Height: 3, Mines: 2})

	game, err := s.controller.Reveal(s.ctx, "GAME1", pos(0, 0))
	s.Require().NoError(err)

	s.Equal(model.StatusLost, game.Status)
	s.Require().NotNil(game.Exploded)
	s.Equal(pos(0, 0), *game.Exploded)
	s.Equal("X*#\n###\n###", s.view("GAME1"))
	s.Equal(1, s.metrics.finished[model.StatusLost])

	status, err := s.controller.Status(s.ctx, "GAME1")
	s.Require().NoError(err)
	s.Equal(model.StatusLost, status)
}

func (s *ControllerSuite) TestMovesAfterGameOverFail() {
	s.newGame("GAME1", Options{Width: 3, Height: 3, Mines: 2})
	_, err := s.controller.Reveal(s.ctx, "GAME1", pos(0, 0))
	s.Require().NoError(err)

	_, err = s.controller.Reveal(s.ctx, "GAME1", pos(2, 2))
	s.ErrorIs(err, model.ErrGameOver)
	_, err = s.controller.Flag(s.ctx, "GAME1", pos(2, 2))
	s.ErrorIs(err, model.ErrGameOver)
	_, err = s.controller.ToggleFlag(s.ctx, "GAME1", pos(2, 2))
	s.ErrorIs(err, model.ErrGameOver)
}

func (s *ControllerSuite) TestRevealOutOfRange() {
	s.newGame("GAME1", Options{Width: 3, Height: 3, Mines: 1})

	_, err := s.controller.Reveal(s.ctx, "GAME1", pos(3, 0))
	s.ErrorIs(err, model.ErrInvalidPosition)
	_, err = s.controller.Flag(s.ctx, "GAME1", pos(0, -1))
	s.ErrorIs(err, model.ErrInvalidPosition)
}

func (s *ControllerSuite) TestRevealUnknownGame() {
	_, err := s.controller.Reveal(s.ctx, "MISSING", pos(0, 0))
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestFloodFillStopsAtFlags() {
	// Candidate index 2 puts the single mine on (0,2)
	s.random.QueueIntn(2)
	s.newGame("GAME1", Options{Width: 4, Height: 4, Mines: 1})

	_, err := s.controller.Flag(s.ctx, "GAME1", pos(3, 3))
	s.Require().NoError(err)
	game, err := s.controller.Reveal(s.ctx, "GAME1", pos(3, 0))
	s.Require().NoError(err)

	s.True(game.IsFlagged(pos(3, 3)))
	s.False(game.IsRevealed(pos(3, 3)))
	s.False(game.IsRevealed(pos(0, 3)))
	s.Equal(model.StatusOngoing, game.Status)
}

func (s *ControllerSuite) TestRevealIgnoresFlaggedAndOpenCells() {
	s.newGame("GAME1", Options{Width: 3, Height: 3, Mines: 2})
	_, err := s.controller.Flag(s.ctx, "GAME1", pos(0, 0))
	s.Require().NoError(err)
	_, err = s.controller.Reveal(s.ctx, "GAME1", pos(2, 2))
	s.Require().NoError(err)

	game, err := s.controller.Reveal(s.ctx, "GAME1", pos(0, 0))
	s.Require().NoError(err)
	s.Equal(model.StatusOngoing, game.Status)

	moves := game.Moves
	game, err = s.controller.Reveal(s.ctx, "GAME1", pos(2, 2))
	s.Require().NoError(err)
	s.Equal(moves, game.Moves)
}

// Flag tests

func (s *ControllerSuite) TestFlagIsIdempotent() {
	s.newGame("GAME1", Options{Width: 3, Height: 3, Mines: 1})

	game, err := s.controller.Flag(s.ctx, "GAME1", pos(1, 1))
	s.Require().NoError(err)
	s.True(game.IsFlagged(pos(1, 1)))

	game, err = s.controller.Flag(s.ctx, "GAME1", pos(1, 1))
	s.Require().NoError(err)
	s.True(game.IsFlagged(pos(1, 1)))
	s.Equal(1, game.Moves)
	s.Equal(1, s.metrics.moves[moveFlag])
}

func (s *ControllerSuite) TestToggleFlag() {
	s.newGame("GAME1", Options{Width: 3, Height: 3, Mines: 1})

	game, err := s.controller.ToggleFlag(s.ctx, "GAME1", pos(1, 1))
	s.Require().NoError(err)
	s.True(game.IsFlagged(pos(1, 1)))

	game, err = s.controller.ToggleFlag(s.ctx, "GAME1", pos(1, 1))
	s.Require().NoError(err)
	s.False(game.IsFlagged(pos(1, 1)))
	s.Equal(2, s.metrics.moves[moveToggle])
}

func (s *ControllerSuite) TestFlagRevealedCellFails() {
	s.newGame("GAME1", Options{Width: 3, Height: 3, Mines: 2})
	_, err := s.controller.Reveal(s.ctx, "GAME1", pos(2, 2))
	s.Require().NoError(err)

	_, err = s.controller.Flag(s.ctx, "GAME1", pos(2, 2))
	s.ErrorIs(err, model.ErrCellRevealed)
	_, err = s.controller.ToggleFlag(s.ctx, "GAME1", pos(2, 2))
	s.ErrorIs(err, model.ErrCellRevealed)
}

func (s *ControllerSuite) TestApplyDispatchesActions() {
	s.newGame("GAME1", Options{Width: 3, Height: 3, Mines: 1})

	game, err := s.controller.Apply(s.ctx, "GAME1", model.Flag(pos(0, 0)))
	s.Require().NoError(err)
	s.True(game.IsFlagged(pos(0, 0)))

	game, err = s.controller.Apply(s.ctx, "GAME1", model.Reveal(pos(2, 2)))
	s.Require().NoError(err)
	s.True(game.IsRevealed(pos(2, 2)))

	_, err = s.controller.Apply(s.ctx, "GAME1", model.Action{Position: pos(1, 1), Kind: "chord"})
	s.ErrorIs(err, model.ErrInvalidAction)
}

func (s *ControllerSuite) TestMovesUpdateTimestamp() {
	s.newGame("GAME1", Options{Width: 3, Height: 3, Mines: 1})
	s.clock.Advance(time.Minute)

	game, err := s.controller.Flag(s.ctx, "GAME1", pos(1, 1))
	s.Require().NoError(err)

	s.Equal(s.clock.Now(), game.UpdatedAt)
	s.NotEqual(game.CreatedAt, game.UpdatedAt)
}

// DeleteGame tests

func (s *ControllerSuite) TestDeleteGame() {
	s.newGame("GAME1", Options{Width: 3, Height: 3, Mines: 1})

	s.Require().NoError(s.controller.DeleteGame(s.ctx, "GAME1"))

	_, err := s.controller.GetGame(s.ctx, "GAME1")
	s.ErrorIs(err, model.ErrGameNotFound)
	s.ErrorIs(s.controller.DeleteGame(s.ctx, "GAME1"), model.ErrGameNotFound)
}

// ListGames tests

func (s *ControllerSuite) TestListGamesNewestFirst() {
	s.newGame("GAME1", Options{Width: 3, Height: 3, Mines: 1})
	s.clock.Advance(time.Minute)
	s.newGame("GAME2", Options{Width: 3, Height: 3, Mines: 1})
	s.clock.Advance(time.Minute)
	_, err := s.controller.Flag(s.ctx, "GAME1", pos(2, 2))
	s.Require().NoError(err)

	games, err := s.controller.ListGames(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal(model.GameID("GAME1"), games[0].ID)
	s.Equal(model.GameID("GAME2"), games[1].ID)

	games, err = s.controller.ListGames(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(games, 1)
}

func countMines(game *model.Game) int {
	count := 0
	for _, row := range game.Mines {
		for _, mine := range row {
			if mine {
				count++
			}
		}
	}
	return count
}

func (s *ControllerSuite) TestPresetOptions() {
	opts, ok := PresetOptions("Expert")
	s.Require().True(ok)
	s.Equal(Options{Width: 30, Height: 16, Mines: 99, SafeOpening: true}, opts)
	s.NoError(opts.Validate())

	_, ok = PresetOptions("nightmare")
	s.False(ok)
}
