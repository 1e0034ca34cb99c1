package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/sweepbot/internal/model"
	"github.com/mcoot/sweepbot/internal/services/auth"
	"github.com/mcoot/sweepbot/internal/services/minefield"
	"github.com/mcoot/sweepbot/internal/web/middleware"
	"github.com/mcoot/sweepbot/internal/web/templates/layout"
	"github.com/mcoot/sweepbot/internal/web/templates/pages"
)

// Cell actions accepted by the board forms
const (
	cellReveal = "reveal"
	cellFlag   = "flag"
	cellToggle = "toggle"
)

// GameHandler handles the board page and its forms
type GameHandler struct {
	controller *minefield.Controller
	logger     *slog.Logger
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(controller *minefield.Controller, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		controller: controller,
		logger:     logger,
	}
}

// View renders the board page. A ?token= query parameter is stored in the
// game's control cookie and stripped from the URL.
func (h *GameHandler) View(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	if token := r.URL.Query().Get("token"); token != "" {
		if err := h.controller.Authorize(r.Context(), id, token); err == nil {
			middleware.SetControlToken(w, id, token)
		} else {
			middleware.SetFlash(w, "error", "That control token is not valid for this game")
		}
		http.Redirect(w, r, "/games/"+string(id), http.StatusSeeOther)
		return
	}

	game, err := h.controller.GetGame(r.Context(), id)
	if err != nil {
		renderError(w, r, err, "Game not found", "/")
		return
	}

	data := pages.BoardData{
		PageData: layout.PageData{
			Title: "Game " + string(game.ID),
			Flash: middleware.GetFlash(r.Context()),
		},
		GameID: game.ID,
		Status: game.Status,
		Mines:  game.MineCount,
		Flags:  game.FlagCount(),
		Moves:  game.Moves,
		Board:  game.PlayerView(),
		Token:  middleware.ControlToken(r, id),
	}
	render(w, r, http.StatusOK, pages.Board(data))
}

// Cell handles POST /games/{id}/cells/{row}/{col}/{action}
func (h *GameHandler) Cell(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := model.GameID(vars["id"])
	back := "/games/" + string(id)

	row, rowErr := strconv.Atoi(vars["row"])
	col, colErr := strconv.Atoi(vars["col"])
	if rowErr != nil || colErr != nil {
		renderError(w, r, model.ErrInvalidPosition, moveErrorMessage(model.ErrInvalidPosition), back)
		return
	}
	pos := model.Position{Row: row, Col: col}

	if err := h.controller.Authorize(r.Context(), id, middleware.ControlToken(r, id)); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			renderError(w, r, err, "A valid control token is required to play this game", back)
			return
		}
		renderError(w, r, err, "Game not found", "/")
		return
	}

	var err error
	switch vars["action"] {
	case cellReveal:
		_, err = h.controller.Reveal(r.Context(), id, pos)
	case cellFlag:
		_, err = h.controller.Flag(r.Context(), id, pos)
	case cellToggle:
		_, err = h.controller.ToggleFlag(r.Context(), id, pos)
	}
	if err != nil {
		h.logger.Debug("cell action rejected",
			slog.String("game_id", string(id)),
			slog.String("action", vars["action"]),
			slog.String("error", err.Error()),
		)
		renderError(w, r, err, moveErrorMessage(err), back)
		return
	}

	http.Redirect(w, r, back, http.StatusSeeOther)
}

func moveErrorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrGameOver):
		return "This game is already over"
	case errors.Is(err, model.ErrCellRevealed):
		return "That cell is already open"
	case errors.Is(err, model.ErrInvalidPosition):
		return "That cell is not on the board"
	default:
		return "Something went wrong"
	}
}
