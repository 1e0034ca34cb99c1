package model

import "errors"

// Common errors used across the application
var (
	// Board errors
	ErrNoCells           = errors.New("no cells found on board")
	ErrRaggedBoard       = errors.New("board rows have different lengths")
	ErrInvalidCell       = errors.New("invalid cell state")
	ErrDimensionsChanged = errors.New("board dimensions changed between snapshots")

	// Move errors
	ErrMoveUnconfirmed = errors.New("move was not confirmed by the board")

	// Game errors
	ErrGameNotFound     = errors.New("game not found")
	ErrGameOver         = errors.New("game is already over")
	ErrInvalidPosition  = errors.New("invalid board position")
	ErrCellRevealed     = errors.New("cell is already revealed")
	ErrInvalidGameSize  = errors.New("invalid game dimensions")
	ErrInvalidMineCount = errors.New("invalid mine count")
	ErrInvalidAction    = errors.New("invalid action kind")
)
