package solver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mcoot/sweepbot/internal/model"
	"github.com/mcoot/sweepbot/internal/services/inference"
	"github.com/mcoot/sweepbot/internal/services/selector"
)

const (
	// DefaultMaxSteps is the safety limit for the Play loop
	DefaultMaxSteps = 100
)

// Config holds solver settings
type Config struct {
	// MaxSteps caps the number of steps in Play that apply a move
	MaxSteps int
	// Opening is the first cell revealed on an untouched board.
	// If nil, the board centre is used. When the chosen cell is flagged or
	// off the board, the first unopened cell in row-major order is used.
	Opening *model.Position
}

// DefaultConfig returns the default solver configuration
func DefaultConfig() Config {
	return Config{
		MaxSteps: DefaultMaxSteps,
	}
}

// Result summarises a finished Play call
type Result struct {
	RunID   string
	Status  model.GameStatus
	Steps   int // RunStep calls that applied a move
	Actions int
	Guesses int
	Board   *model.Board // Last snapshot taken
}

// Solver drives a single game: it reads snapshots, applies certain moves one
// at a time and falls back to a random frontier guess when stuck.
// A Solver is not safe for concurrent use; create one per game.
type Solver struct {
	driver   Driver
	engine   *inference.Engine
	selector *selector.RandomSelector
	cfg      Config
	logger   *slog.Logger

	// Dimensions of the first snapshot; later snapshots must match
	first *model.Board
	last  *model.Board

	actions int
	guesses int
}

// New creates a Solver for the game behind driver
func New(
	driver Driver,
	engine *inference.Engine,
	sel *selector.RandomSelector,
	cfg Config,
	logger *slog.Logger,
) *Solver {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	return &Solver{
		driver:   driver,
		engine:   engine,
		selector: sel,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "solver")),
	}
}

// Play opens the board if needed, runs steps until none makes progress or
// MaxSteps is reached, and reports the final game status
func (s *Solver) Play(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	logger := s.logger.With(slog.String("run_id", runID))
	result := &Result{RunID: runID}

	board, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if !board.AnyRevealed() && !board.IsGameOver() {
		if opening, ok := s.openingCell(board); ok {
			logger.Info("opening move", slog.String("position", opening.String()))
			if err := s.apply(ctx, model.Reveal(opening)); err != nil {
				return nil, err
			}
			if _, err := s.snapshot(ctx); err != nil {
				return nil, err
			}
		}
	}

	status, err := s.driver.GameStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read game status: %w", err)
	}

	if !status.IsTerminal() {
		for result.Steps < s.cfg.MaxSteps {
			progressed, err := s.RunStep(ctx)
			if err != nil {
				return nil, err
			}
			if !progressed {
				break
			}
			result.Steps++
		}
		if result.Steps == s.cfg.MaxSteps {
			logger.Warn("step limit reached", slog.Int("max_steps", s.cfg.MaxSteps))
		}

		status, err = s.driver.GameStatus(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read game status: %w", err)
		}
	}

	result.Status = status
	result.Actions = s.actions
	result.Guesses = s.guesses
	result.Board = s.last

	logger.Info("game finished",
		slog.String("status", string(status)),
		slog.Int("steps", result.Steps),
		slog.Int("actions", result.Actions),
		slog.Int("guesses", result.Guesses),
	)

	return result, nil
}

// RunStep performs one solving step and reports whether any move was applied
// without ending the game. A false result with a nil error means the game is
// over or no move is available.
func (s *Solver) RunStep(ctx context.Context) (bool, error) {
	board, err := s.snapshot(ctx)
	if err != nil {
		return false, err
	}
	if board.IsGameOver() {
		s.logger.Debug("mine visible, stopping")
		return false, nil
	}

	actions := s.engine.Infer(board)
	if len(actions) == 0 {
		guess, ok := s.selector.Select(board)
		if !ok {
			s.logger.Info("no safe moves available")
			return false, nil
		}
		s.guesses++
		s.logger.Debug("guessing", slog.String("action", guess.String()))
		actions = []model.Action{guess}
	}

	applied := 0
	current := board
	for _, action := range actions {
		if isStale(current, action) {
			s.logger.Debug("skipping stale action", slog.String("action", action.String()))
			continue
		}

		if err := s.apply(ctx, action); err != nil {
			// The previous move may have won the game
			if errors.Is(err, model.ErrGameOver) {
				s.logger.Info("game ended during step", slog.String("action", action.String()))
				return false, nil
			}
			return false, err
		}

		current, err = s.snapshot(ctx)
		if err != nil {
			return false, err
		}
		if current.IsGameOver() {
			s.logger.Info("mine revealed", slog.String("action", action.String()))
			return false, nil
		}
		applied++
	}

	return applied > 0, nil
}

// openingCell picks the configured opening or the centre. If that cell cannot
// be revealed, the first unopened cell is used instead.
func (s *Solver) openingCell(board *model.Board) (model.Position, bool) {
	opening := board.Center()
	if s.cfg.Opening != nil {
		opening = *s.cfg.Opening
	}
	if board.IsUnopened(opening) {
		return opening, true
	}
	for row := 0; row < board.Height; row++ {
		for col := 0; col < board.Width; col++ {
			pos := model.Position{Row: row, Col: col}
			if board.IsUnopened(pos) {
				return pos, true
			}
		}
	}
	return model.Position{}, false
}

// apply executes a move, tolerating moves the board did not confirm
func (s *Solver) apply(ctx context.Context, action model.Action) error {
	err := s.driver.Click(ctx, action)
	if err != nil && !errors.Is(err, model.ErrMoveUnconfirmed) {
		return fmt.Errorf("failed to apply %s: %w", action, err)
	}
	if err != nil {
		s.logger.Warn("move not confirmed, continuing",
			slog.String("action", action.String()),
			slog.String("error", err.Error()),
		)
	}
	s.actions++
	return nil
}

// snapshot fetches a board and checks it against the first board of the game
func (s *Solver) snapshot(ctx context.Context) (*model.Board, error) {
	board, err := s.driver.BoardState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read board: %w", err)
	}
	if s.first == nil {
		s.first = board
	} else if !s.first.SameDimensions(board) {
		return nil, fmt.Errorf("%w: %dx%d, then %dx%d", model.ErrDimensionsChanged,
			s.first.Height, s.first.Width, board.Height, board.Width)
	}
	s.last = board
	return board, nil
}

// isStale reports whether the target was flagged or revealed since the
// action was proposed
func isStale(board *model.Board, action model.Action) bool {
	return !board.At(action.Position).IsUnopened()
}
