package minefield

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mcoot/sweepbot/internal/dependencies/clock"
	"github.com/mcoot/sweepbot/internal/dependencies/random"
	"github.com/mcoot/sweepbot/internal/metrics"
	"github.com/mcoot/sweepbot/internal/model"
	"github.com/mcoot/sweepbot/internal/services/auth"
	"github.com/mcoot/sweepbot/internal/storage"
)

const (
	MaxDimension = 64

	// DefaultListLimit and MaxListLimit bound ListGames
	DefaultListLimit = 20
	MaxListLimit     = 100

	gameIDLength   = 12
	gameIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Move kinds as reported to metrics
const (
	moveReveal = "reveal"
	moveFlag   = "flag"
	moveToggle = "toggle"
)

// Options describes a new game
type Options struct {
	Width       int
	Height      int
	Mines       int
	SafeOpening bool
}

// BeginnerOptions is the classic 9x9 board with 10 mines
func BeginnerOptions() Options {
	return Options{Width: 9, Height: 9, Mines: 10, SafeOpening: true}
}

// Preset is a named board size
type Preset struct {
	Name string
	Options
}

// Presets returns the classic difficulty levels, easiest first
func Presets() []Preset {
	return []Preset{
		{Name: "beginner", Options: BeginnerOptions()},
		{Name: "intermediate", Options: Options{Width: 16, Height: 16, Mines: 40, SafeOpening: true}},
		{Name: "expert", Options: Options{Width: 30, Height: 16, Mines: 99, SafeOpening: true}},
	}
}

// PresetOptions looks up a preset by name
func PresetOptions(name string) (Options, bool) {
	for _, p := range Presets() {
		if strings.EqualFold(p.Name, name) {
			return p.Options, true
		}
	}
	return Options{}, false
}

// Validate checks the board size and mine count
func (o Options) Validate() error {
	if o.Width < 1 || o.Width > MaxDimension || o.Height < 1 || o.Height > MaxDimension {
		return fmt.Errorf("%w: %dx%d", model.ErrInvalidGameSize, o.Width, o.Height)
	}
	if o.Mines < 0 || o.Mines >= o.Width*o.Height {
		return fmt.Errorf("%w: %d on %d cells", model.ErrInvalidMineCount, o.Mines, o.Width*o.Height)
	}
	return nil
}

// Controller runs Minesweeper games: it owns mine placement, reveals with
// flood fill and the won/lost transitions
type Controller struct {
	storage storage.Storage
	auth    *auth.Service
	clock   clock.Clock
	random  random.Random
	metrics metrics.Recorder
	logger  *slog.Logger

	// Serializes read-modify-write cycles on games
	mu sync.Mutex
}

// NewController creates a new minefield Controller
func NewController(
	storage storage.Storage,
	authService *auth.Service,
	clock clock.Clock,
	random random.Random,
	recorder metrics.Recorder,
	logger *slog.Logger,
) *Controller {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Controller{
		storage: storage,
		auth:    authService,
		clock:   clock,
		random:  random,
		metrics: recorder,
		logger:  logger.With(slog.String("component", "minefield")),
	}
}

// CreateGame creates a game and returns it with the control token that
// authorizes moves on it. The token is only available here.
func (c *Controller) CreateGame(ctx context.Context, opts Options) (*model.Game, string, error) {
	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	token, hash, err := c.auth.IssueToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue control token: %w", err)
	}

	id := model.GameID(c.random.String(gameIDLength, gameIDAlphabet))
	game := model.NewGame(id, opts.Width, opts.Height, opts.Mines, opts.SafeOpening, c.clock.Now())
	game.ControlHash = hash

	if !opts.SafeOpening {
		c.placeMines(game, nil)
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, "", err
	}

	c.metrics.GameCreated(opts.Width, opts.Height)
	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.Int("width", opts.Width),
		slog.Int("height", opts.Height),
		slog.Int("mines", opts.Mines),
		slog.Bool("safe_opening", opts.SafeOpening),
	)

	return game, token, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, id)
}

// ListGames returns recently played games, newest first. A limit outside
// 1..MaxListLimit falls back to DefaultListLimit or is capped.
func (c *Controller) ListGames(ctx context.Context, limit int) ([]*model.Game, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	return c.storage.ListGames(ctx, limit)
}

// DeleteGame removes a game
func (c *Controller) DeleteGame(ctx context.Context, id model.GameID) error {
	if _, err := c.storage.GetGame(ctx, id); err != nil {
		return err
	}
	if err := c.storage.DeleteGame(ctx, id); err != nil {
		return err
	}
	c.logger.Info("game deleted", slog.String("game_id", string(id)))
	return nil
}

// Authorize checks a control token against the game's stored hash
func (c *Controller) Authorize(ctx context.Context, id model.GameID, token string) error {
	game, err := c.storage.GetGame(ctx, id)
	if err != nil {
		return err
	}
	return c.auth.Verify(game.ControlHash, token)
}

// Snapshot returns the board as the player sees it
func (c *Controller) Snapshot(ctx context.Context, id model.GameID) (*model.Board, error) {
	game, err := c.storage.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	return game.PlayerView(), nil
}

// Status returns the game's current status
func (c *Controller) Status(ctx context.Context, id model.GameID) (model.GameStatus, error) {
	game, err := c.storage.GetGame(ctx, id)
	if err != nil {
		return "", err
	}
	return game.Status, nil
}

// Apply performs a solver action
func (c *Controller) Apply(ctx context.Context, id model.GameID, action model.Action) (*model.Game, error) {
	switch action.Kind {
	case model.ActionReveal:
		return c.Reveal(ctx, id, action.Position)
	case model.ActionFlag:
		return c.Flag(ctx, id, action.Position)
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidAction, action.Kind)
	}
}

// Reveal opens a cell. Revealing a flagged or already open cell does nothing.
// A zero opens its whole connected region.
func (c *Controller) Reveal(ctx context.Context, id model.GameID, pos model.Position) (*model.Game, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	game, err := c.loadForMove(ctx, id, pos)
	if err != nil {
		return nil, err
	}
	if game.IsRevealed(pos) || game.IsFlagged(pos) {
		return game, nil
	}

	if !game.MinesPlaced {
		c.placeMines(game, &pos)
	}

	if game.IsMine(pos) {
		game.RevealedMask[pos.Row][pos.Col] = true
		exploded := pos
		game.Exploded = &exploded
		game.Status = model.StatusLost
	} else {
		floodReveal(game, pos)
		if game.SafeCellsRemaining() == 0 {
			game.Status = model.StatusWon
		}
	}

	return game, c.commit(ctx, game, moveReveal, pos)
}

// Flag marks a cell as a suspected mine. Flagging a flagged cell does nothing.
func (c *Controller) Flag(ctx context.Context, id model.GameID, pos model.Position) (*model.Game, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	game, err := c.loadForMove(ctx, id, pos)
	if err != nil {
		return nil, err
	}
	if game.IsRevealed(pos) {
		return nil, fmt.Errorf("%w: %s", model.ErrCellRevealed, pos)
	}
	if game.IsFlagged(pos) {
		return game, nil
	}

	game.FlaggedMask[pos.Row][pos.Col] = true
	return game, c.commit(ctx, game, moveFlag, pos)
}

// ToggleFlag adds or removes the flag on a hidden cell
func (c *Controller) ToggleFlag(ctx context.Context, id model.GameID, pos model.Position) (*model.Game, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	game, err := c.loadForMove(ctx, id, pos)
	if err != nil {
		return nil, err
	}
	if game.IsRevealed(pos) {
		return nil, fmt.Errorf("%w: %s", model.ErrCellRevealed, pos)
	}

	game.FlaggedMask[pos.Row][pos.Col] = !game.FlaggedMask[pos.Row][pos.Col]
	return game, c.commit(ctx, game, moveToggle, pos)
}

// loadForMove fetches a game that can still accept a move at pos
func (c *Controller) loadForMove(ctx context.Context, id model.GameID, pos model.Position) (*model.Game, error) {
	game, err := c.storage.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	if game.IsFinished() {
		return nil, model.ErrGameOver
	}
	if !game.InBounds(pos) {
		return nil, fmt.Errorf("%w: %s on %dx%d", model.ErrInvalidPosition, pos, game.Height, game.Width)
	}
	return game, nil
}

// commit saves a changed game and reports the move
func (c *Controller) commit(ctx context.Context, game *model.Game, kind string, pos model.Position) error {
	game.Moves++
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return err
	}

	c.metrics.MoveApplied(kind)
	c.logger.Debug("move applied",
		slog.String("game_id", string(game.ID)),
		slog.String("kind", kind),
		slog.String("position", pos.String()),
	)

	if game.IsFinished() {
		c.metrics.GameFinished(game.Status)
		c.logger.Info("game finished",
			slog.String("game_id", string(game.ID)),
			slog.String("status", string(game.Status)),
			slog.Int("moves", game.Moves),
		)
	}
	return nil
}
