package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mcoot/sweepbot/internal/services/minefield"
	"github.com/mcoot/sweepbot/internal/web/middleware"
	"github.com/mcoot/sweepbot/internal/web/templates/layout"
	"github.com/mcoot/sweepbot/internal/web/templates/pages"
)

// recentGameCount is how many games the home page lists
const recentGameCount = 10

// HomeHandler handles the home page and new game form
type HomeHandler struct {
	controller *minefield.Controller
	logger     *slog.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(controller *minefield.Controller, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{controller: controller, logger: logger}
}

// Home renders the home page. The recent games list is left out if it
// cannot be loaded.
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := pages.HomeData{
		PageData: layout.PageData{
			Title: "Home",
			Flash: middleware.GetFlash(r.Context()),
		},
		Presets: minefield.Presets(),
	}

	recent, err := h.controller.ListGames(r.Context(), recentGameCount)
	if err != nil {
		h.logger.Warn("failed to list recent games", slog.String("error", err.Error()))
	} else {
		data.Recent = recent
	}

	render(w, r, http.StatusOK, pages.Home(data))
}

// NewGame handles the new game form
func (h *HomeHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	opts := minefield.Options{
		Width:       formInt(r, "width"),
		Height:      formInt(r, "height"),
		Mines:       formInt(r, "mines"),
		SafeOpening: r.FormValue("safe_opening") != "",
	}

	game, token, err := h.controller.CreateGame(r.Context(), opts)
	if err != nil {
		middleware.SetFlash(w, "error", "Could not create game: "+err.Error())
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	middleware.SetControlToken(w, game.ID, token)
	http.Redirect(w, r, "/games/"+string(game.ID), http.StatusSeeOther)
}

// formInt parses an integer form field; missing or malformed values are -1
func formInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.FormValue(name))
	if err != nil {
		return -1
	}
	return v
}
