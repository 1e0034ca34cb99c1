package storage

import (
	"context"

	"github.com/mcoot/sweepbot/internal/model"
)

// Storage defines the interface for game persistence. Implementations hand
// out copies: a game returned by GetGame is only persisted by SaveGame.
type Storage interface {
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error
	GameExists(ctx context.Context, id model.GameID) (bool, error)

	// ListGames returns up to limit games, most recently updated first
	ListGames(ctx context.Context, limit int) ([]*model.Game, error)
}
