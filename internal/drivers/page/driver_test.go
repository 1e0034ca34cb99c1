package page_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sweepbot/internal/api"
	"github.com/mcoot/sweepbot/internal/dependencies/mocks"
	"github.com/mcoot/sweepbot/internal/drivers/page"
	"github.com/mcoot/sweepbot/internal/factory"
	"github.com/mcoot/sweepbot/internal/model"
	"github.com/mcoot/sweepbot/internal/services/auth"
	"github.com/mcoot/sweepbot/internal/services/inference"
	"github.com/mcoot/sweepbot/internal/services/minefield"
	"github.com/mcoot/sweepbot/internal/services/selector"
	"github.com/mcoot/sweepbot/internal/services/solver"
	"github.com/mcoot/sweepbot/internal/testutil"
	"github.com/mcoot/sweepbot/internal/web"
	"github.com/mcoot/sweepbot/internal/web/templates/pages"
)

type PageDriverSuite struct {
	suite.Suite
	app    *factory.TestApp
	server *httptest.Server
	clock  *mocks.MockClock
	ctx    context.Context

	// Set to make every cell form post fail with a 500
	failForms    atomic.Bool
	formFailures atomic.Int32
}

func TestPageDriverSuite(t *testing.T) {
	suite.Run(t, new(PageDriverSuite))
}

func (s *PageDriverSuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ctx = context.Background()
	s.failForms.Store(false)
	s.formFailures.Store(0)

	apiRouter := api.NewRouter(api.RouterConfig{Logger: testutil.NopLogger(), Minefield: s.app.Minefield})
	webRouter := web.NewRouter(web.RouterConfig{Logger: testutil.NopLogger(), Minefield: s.app.Minefield})

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/"):
			apiRouter.ServeHTTP(w, r)
		case s.failForms.Load() && r.Method == http.MethodPost && strings.Contains(r.URL.Path, "/cells/"):
			s.formFailures.Add(1)
			http.Error(w, "form handling broken", http.StatusInternalServerError)
		default:
			webRouter.ServeHTTP(w, r)
		}
	}))
}

func (s *PageDriverSuite) TearDownTest() {
	s.server.Close()
}

// createGame creates a game whose mines fill the first cells in row-major order
func (s *PageDriverSuite) createGame(id string, width, height, mines int) (model.GameID, string) {
	s.app.MockRandom.QueueString(id)
	game, token, err := s.app.Minefield.CreateGame(s.ctx, minefield.Options{Width: width, Height: height, Mines: mines})
	s.Require().NoError(err)
	return game.ID, token
}

func (s *PageDriverSuite) driver(id model.GameID, token string) *page.Driver {
	return s.driverFor(s.server.URL, id, token)
}

func (s *PageDriverSuite) driverFor(baseURL string, id model.GameID, token string) *page.Driver {
	cfg := page.DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.GameID = id
	cfg.Token = token
	return page.New(cfg, s.clock, testutil.NopLogger())
}

func pos(row, col int) model.Position {
	return model.Position{Row: row, Col: col}
}

func (s *PageDriverSuite) TestBoardStateStartsHidden() {
	id, token := s.createGame("PAGE00000001", 3, 2, 1)

	board, err := s.driver(id, token).BoardState(s.ctx)

	s.Require().NoError(err)
	s.Equal(3, board.Width)
	s.Equal(2, board.Height)
	s.Equal("###\n###", board.String())
}

func (s *PageDriverSuite) TestGameStatusOngoing() {
	id, token := s.createGame("PAGE00000002", 3, 3, 1)

	status, err := s.driver(id, token).GameStatus(s.ctx)

	s.Require().NoError(err)
	s.Equal(model.StatusOngoing, status)
}

func (s *PageDriverSuite) TestClickRevealFloodsAndWins() {
	// Single mine at (0,0)
	id, token := s.createGame("PAGE00000003", 3, 3, 1)
	d := s.driver(id, token)

	s.Require().NoError(d.Click(s.ctx, model.Reveal(pos(2, 2))))

	board, err := d.BoardState(s.ctx)
	s.Require().NoError(err)
	s.Equal("#1.\n11.\n...", board.String())

	status, err := d.GameStatus(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.StatusWon, status)
	s.Empty(s.clock.Sleeps(), "confirmed on the first check")
}

func (s *PageDriverSuite) TestClickFlag() {
	id, token := s.createGame("PAGE00000004", 3, 3, 2)
	d := s.driver(id, token)

	s.Require().NoError(d.Click(s.ctx, model.Flag(pos(0, 0))))

	board, err := d.BoardState(s.ctx)
	s.Require().NoError(err)
	s.True(board.At(pos(0, 0)).Flagged)
}

func (s *PageDriverSuite) TestClickMineLoses() {
	id, token := s.createGame("PAGE00000005", 3, 3, 2)
	d := s.driver(id, token)

	s.Require().NoError(d.Click(s.ctx, model.Reveal(pos(0, 1))))

	board, err := d.BoardState(s.ctx)
	s.Require().NoError(err)
	s.Equal("*X#\n###\n###", board.String())

	status, err := d.GameStatus(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.StatusLost, status)
}

func (s *PageDriverSuite) TestClickAfterGameOver() {
	id, token := s.createGame("PAGE00000006", 3, 3, 2)
	d := s.driver(id, token)
	s.Require().NoError(d.Click(s.ctx, model.Reveal(pos(0, 0))))

	err := d.Click(s.ctx, model.Reveal(pos(2, 2)))

	s.ErrorIs(err, model.ErrGameOver)
}

func (s *PageDriverSuite) TestClickFallsBackToAPI() {
	id, token := s.createGame("PAGE00000007", 3, 3, 2)
	s.failForms.Store(true)
	d := s.driver(id, token)

	s.Require().NoError(d.Click(s.ctx, model.Reveal(pos(2, 2))))

	s.Equal(int32(1), s.formFailures.Load())
	board, err := d.BoardState(s.ctx)
	s.Require().NoError(err)
	s.True(board.At(pos(2, 2)).Revealed)
}

func (s *PageDriverSuite) TestClickWithWrongTokenFails() {
	id, _ := s.createGame("PAGE00000008", 3, 3, 2)

	err := s.driver(id, "not-the-token").Click(s.ctx, model.Reveal(pos(2, 2)))

	s.ErrorIs(err, auth.ErrInvalidToken)
	s.NotErrorIs(err, model.ErrMoveUnconfirmed)
}

func (s *PageDriverSuite) TestUnknownGame() {
	_, err := s.driver("NOSUCHGAME00", "").BoardState(s.ctx)

	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *PageDriverSuite) TestSolverPlaysThroughPages() {
	// The mine lands on (0,0), so opening the far corner floods the rest
	id, token := s.createGame("PAGE00000009", 4, 4, 1)
	opening := pos(3, 3)
	cfg := solver.DefaultConfig()
	cfg.Opening = &opening
	slv := solver.New(s.driver(id, token), inference.New(), selector.NewRandomSelector(mocks.NewMockRandom()),
		cfg, testutil.NopLogger())

	result, err := slv.Play(s.ctx)

	s.Require().NoError(err)
	s.Equal(model.StatusWon, result.Status)
	s.Equal(1, result.Actions)

	game, err := s.app.Minefield.GetGame(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.StatusWon, game.Status)
}

// staticPage serves the same HTML for every GET and accepts every form post
type staticPage struct {
	html  string
	loads atomic.Int32
}

func (p *staticPage) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	p.loads.Add(1)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, p.html)
}

func (s *PageDriverSuite) serveStatic(html string) (*page.Driver, *staticPage) {
	p := &staticPage{html: html}
	srv := httptest.NewServer(p)
	s.T().Cleanup(srv.Close)
	return s.driverFor(srv.URL, "STATIC", "token"), p
}

func (s *PageDriverSuite) renderBoard(rows string, status model.GameStatus) string {
	board, err := model.ParseBoard(rows)
	s.Require().NoError(err)

	var sb strings.Builder
	err = pages.Board(pages.BoardData{
		GameID: "STATIC",
		Status: status,
		Board:  board,
	}).Render(s.ctx, &sb)
	s.Require().NoError(err)
	return sb.String()
}

func (s *PageDriverSuite) TestUnconfirmedMoveRetriesWithBackoff() {
	d, p := s.serveStatic(s.renderBoard("##\n##", model.StatusOngoing))

	err := d.Click(s.ctx, model.Reveal(pos(0, 0)))

	s.ErrorIs(err, model.ErrMoveUnconfirmed)
	s.Equal([]time.Duration{time.Second, time.Second, time.Second}, s.clock.Sleeps())
	s.Equal(int32(4), p.loads.Load())
}

func (s *PageDriverSuite) TestVisibleMineConfirmsMove() {
	d, _ := s.serveStatic(s.renderBoard("X#\n##", model.StatusLost))

	s.NoError(d.Click(s.ctx, model.Reveal(pos(1, 1))))
}

func (s *PageDriverSuite) TestNoCells() {
	d, _ := s.serveStatic(`<html><body><main id="game" class="game game-ongoing"></main></body></html>`)

	_, err := d.BoardState(s.ctx)

	s.ErrorIs(err, model.ErrNoCells)
}

func (s *PageDriverSuite) TestMissingCellIsRagged() {
	d, _ := s.serveStatic(`<table>
		<tr><td class="cell hidden" data-row="0" data-col="0"></td><td class="cell hidden" data-row="0" data-col="1"></td></tr>
		<tr><td class="cell open1" data-row="1" data-col="0"></td></tr>
	</table>`)

	_, err := d.BoardState(s.ctx)

	s.ErrorIs(err, model.ErrRaggedBoard)
}

func (s *PageDriverSuite) TestUnknownCellClass() {
	d, _ := s.serveStatic(`<table><tr><td class="cell sparkly" data-row="0" data-col="0"></td></tr></table>`)

	_, err := d.BoardState(s.ctx)

	s.ErrorIs(err, model.ErrInvalidCell)
}

func (s *PageDriverSuite) TestParsesEveryCellClass() {
	d, _ := s.serveStatic(s.renderBoard("#F.8\n*X31", model.StatusLost))

	board, err := d.BoardState(s.ctx)

	s.Require().NoError(err)
	s.Equal("#F.8\n*X31", board.String())
}

func (s *PageDriverSuite) TestLostWinsOverWon() {
	d, _ := s.serveStatic(`<main id="game" class="game game-lost"><span id="face" class="face face-win"></span></main>`)

	status, err := d.GameStatus(s.ctx)

	s.Require().NoError(err)
	s.Equal(model.StatusLost, status)
}

func (s *PageDriverSuite) TestContainerAloneSignalsWin() {
	d, _ := s.serveStatic(`<main id="game" class="game game-won"></main>`)

	status, err := d.GameStatus(s.ctx)

	s.Require().NoError(err)
	s.Equal(model.StatusWon, status)
}

func (s *PageDriverSuite) TestMissingStatusIndicators() {
	d, _ := s.serveStatic(`<html><body><p>maintenance</p></body></html>`)

	_, err := d.GameStatus(s.ctx)

	s.Error(err)
}

func (s *PageDriverSuite) TestServerErrorIsReported() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := s.driverFor(srv.URL, "X", "").BoardState(s.ctx)

	s.ErrorContains(err, fmt.Sprint(http.StatusBadGateway))
}
