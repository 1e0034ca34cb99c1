package solver

import (
	"context"

	"github.com/mcoot/sweepbot/internal/model"
)

// SnapshotProvider returns the current board as the player sees it.
// It must fail with model.ErrNoCells when no cells can be read.
type SnapshotProvider interface {
	BoardState(ctx context.Context) (*model.Board, error)
}

// MoveExecutor performs a reveal or flag. Returning an error that wraps
// model.ErrMoveUnconfirmed means the move was attempted but the board did not
// confirm it in time; any other error is fatal.
type MoveExecutor interface {
	Click(ctx context.Context, action model.Action) error
}

// StatusProvider reports whether the game is won, lost or still running
type StatusProvider interface {
	GameStatus(ctx context.Context) (model.GameStatus, error)
}

// Driver bundles the three collaborators for a single game
type Driver interface {
	SnapshotProvider
	MoveExecutor
	StatusProvider
}
