package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/sweepbot/internal/api/apierr"
	"github.com/mcoot/sweepbot/internal/api/request"
	"github.com/mcoot/sweepbot/internal/api/response"
	"github.com/mcoot/sweepbot/internal/model"
	"github.com/mcoot/sweepbot/internal/services/minefield"
)

// GameHandler handles game endpoints
type GameHandler struct {
	controller *minefield.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(controller *minefield.Controller) *GameHandler {
	return &GameHandler{controller: controller}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apierr.WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
			return
		}
	}

	opts := minefield.BeginnerOptions()
	if req.Width != 0 || req.Height != 0 {
		opts = minefield.Options{Width: req.Width, Height: req.Height, Mines: req.Mines, SafeOpening: true}
	}
	if req.SafeOpening != nil {
		opts.SafeOpening = *req.SafeOpening
	}

	game, token, err := h.controller.CreateGame(r.Context(), opts)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CreatedGame{
		Game:         response.GameStateFromModel(game),
		ControlToken: token,
	})
}

// List handles GET /api/v1/games?limit=N
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			apierr.WriteError(w, apierr.NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	games, err := h.controller.ListGames(r.Context(), limit)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	list := response.GameList{Games: make([]response.GameSummary, len(games))}
	for i, g := range games {
		list.Games[i] = response.GameSummaryFromModel(g)
	}
	response.JSON(w, http.StatusOK, list)
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	game, err := h.controller.GetGame(r.Context(), gameID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameStateFromModel(game))
}

// Status handles GET /api/v1/games/{id}/status
func (h *GameHandler) Status(w http.ResponseWriter, r *http.Request) {
	id := gameID(r)
	status, err := h.controller.Status(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Status{ID: string(id), Status: string(status)})
}

// Reveal handles POST /api/v1/games/{id}/reveal
func (h *GameHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, model.ActionReveal)
}

// Flag handles POST /api/v1/games/{id}/flag
func (h *GameHandler) Flag(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, model.ActionFlag)
}

func (h *GameHandler) move(w http.ResponseWriter, r *http.Request, kind model.ActionKind) {
	var req request.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
		return
	}

	action := model.Action{Position: model.Position{Row: req.Row, Col: req.Col}, Kind: kind}
	game, err := h.controller.Apply(r.Context(), gameID(r), action)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateFromModel(game))
}

// Delete handles DELETE /api/v1/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.DeleteGame(r.Context(), gameID(r)); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.NoContent(w)
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}
