package response

import (
	"strings"
	"time"

	"github.com/mcoot/sweepbot/internal/model"
)

// Position is a cell coordinate
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Board is the player's view, one string per row using the glyphs of
// model.Board.String
type Board struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Rows   []string `json:"rows"`
}

// BoardFromModel converts model.Board to response Board
func BoardFromModel(b *model.Board) Board {
	return Board{Width: b.Width, Height: b.Height, Rows: strings.Split(b.String(), "\n")}
}

// ToModel parses the rows back into a model.Board
func (b Board) ToModel() (*model.Board, error) {
	if len(b.Rows) == 0 {
		return nil, model.ErrNoCells
	}
	return model.ParseBoard(strings.Join(b.Rows, "\n"))
}

// GameState represents a game as the player sees it
type GameState struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Mines     int       `json:"mines"`
	Flags     int       `json:"flags"`
	Moves     int       `json:"moves"`
	Board     Board     `json:"board"`
	Exploded  *Position `json:"exploded,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GameStateFromModel converts model.Game to response GameState
func GameStateFromModel(g *model.Game) GameState {
	var exploded *Position
	if g.Exploded != nil {
		exploded = &Position{Row: g.Exploded.Row, Col: g.Exploded.Col}
	}
	return GameState{
		ID:        string(g.ID),
		Status:    string(g.Status),
		Mines:     g.MineCount,
		Flags:     g.FlagCount(),
		Moves:     g.Moves,
		Board:     BoardFromModel(g.PlayerView()),
		Exploded:  exploded,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// CreatedGame is the response after creating a game. The control token is
// only returned here.
type CreatedGame struct {
	Game         GameState `json:"game"`
	ControlToken string    `json:"control_token"`
}

// Status is the response for the status endpoint
type Status struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// GameSummary is a game in a listing, without its board
type GameSummary struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Mines     int       `json:"mines"`
	Moves     int       `json:"moves"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GameSummaryFromModel converts model.Game to response GameSummary
func GameSummaryFromModel(g *model.Game) GameSummary {
	return GameSummary{
		ID:        string(g.ID),
		Status:    string(g.Status),
		Width:     g.Width,
		Height:    g.Height,
		Mines:     g.MineCount,
		Moves:     g.Moves,
		UpdatedAt: g.UpdatedAt,
	}
}

// GameList is the response for the game listing, newest first
type GameList struct {
	Games []GameSummary `json:"games"`
}
