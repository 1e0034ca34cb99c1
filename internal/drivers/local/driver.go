package local

import (
	"context"

	"github.com/mcoot/sweepbot/internal/model"
	"github.com/mcoot/sweepbot/internal/services/minefield"
	"github.com/mcoot/sweepbot/internal/services/solver"
)

// Driver plays a game held by an in-process minefield controller
type Driver struct {
	controller *minefield.Controller
	gameID     model.GameID
}

// Ensure Driver implements solver.Driver
var _ solver.Driver = (*Driver)(nil)

// New creates a Driver for an existing game
func New(controller *minefield.Controller, gameID model.GameID) *Driver {
	return &Driver{
		controller: controller,
		gameID:     gameID,
	}
}

// GameID returns the game this driver plays
func (d *Driver) GameID() model.GameID {
	return d.gameID
}

func (d *Driver) BoardState(ctx context.Context) (*model.Board, error) {
	board, err := d.controller.Snapshot(ctx, d.gameID)
	if err != nil {
		return nil, err
	}
	if board.Width == 0 || board.Height == 0 {
		return nil, model.ErrNoCells
	}
	return board, nil
}

// Click applies the action directly; the controller confirms moves
// synchronously so ErrMoveUnconfirmed never occurs here
func (d *Driver) Click(ctx context.Context, action model.Action) error {
	_, err := d.controller.Apply(ctx, d.gameID, action)
	return err
}

func (d *Driver) GameStatus(ctx context.Context) (model.GameStatus, error) {
	return d.controller.Status(ctx, d.gameID)
}
