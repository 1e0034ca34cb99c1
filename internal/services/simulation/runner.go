// Package simulation plays many in-process games with the solver and
// summarises how they went.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mcoot/sweepbot/internal/dependencies/random"
	"github.com/mcoot/sweepbot/internal/drivers/local"
	"github.com/mcoot/sweepbot/internal/model"
	"github.com/mcoot/sweepbot/internal/services/inference"
	"github.com/mcoot/sweepbot/internal/services/minefield"
	"github.com/mcoot/sweepbot/internal/services/selector"
	"github.com/mcoot/sweepbot/internal/services/solver"
)

// Config describes a batch of games
type Config struct {
	Games    int
	Parallel int
	Game     minefield.Options
	Solver   solver.Config
	// Seed makes each game's guesses reproducible. Game i guesses with
	// Seed+i; nil uses a non-deterministic source.
	Seed *uint64
}

// DefaultConfig returns a batch of 100 beginner games played one at a time
func DefaultConfig() Config {
	return Config{
		Games:    100,
		Parallel: 1,
		Game:     minefield.BeginnerOptions(),
		Solver:   solver.DefaultConfig(),
	}
}

// GameResult is the outcome of one simulated game
type GameResult struct {
	GameID  model.GameID     `json:"game_id"`
	RunID   string           `json:"run_id"`
	Status  model.GameStatus `json:"status"`
	Steps   int              `json:"steps"`
	Actions int              `json:"actions"`
	Guesses int              `json:"guesses"`
}

// Report summarises a batch
type Report struct {
	Games      int          `json:"games"`
	Won        int          `json:"won"`
	Lost       int          `json:"lost"`
	Unfinished int          `json:"unfinished"`
	WinRate    float64      `json:"win_rate"`
	Guesses    int          `json:"guesses"`
	Results    []GameResult `json:"results,omitempty"`
}

// Runner plays batches of games against a minefield controller
type Runner struct {
	controller *minefield.Controller
	logger     *slog.Logger
}

// NewRunner creates a new Runner
func NewRunner(controller *minefield.Controller, logger *slog.Logger) *Runner {
	return &Runner{
		controller: controller,
		logger:     logger.With(slog.String("component", "simulation")),
	}
}

// Run plays cfg.Games games, at most cfg.Parallel at a time. The first
// failing game cancels the rest.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Report, error) {
	if cfg.Games < 1 {
		return nil, errors.New("at least one game is required")
	}
	if err := cfg.Game.Validate(); err != nil {
		return nil, err
	}
	if cfg.Parallel < 1 {
		cfg.Parallel = 1
	}

	results := make([]GameResult, cfg.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallel)
	for i := range cfg.Games {
		g.Go(func() error {
			result, err := r.playOne(ctx, cfg, i)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			results[i] = *result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := summarise(results)
	r.logger.Info("simulation finished",
		slog.Int("games", report.Games),
		slog.Int("won", report.Won),
		slog.Int("lost", report.Lost),
		slog.Float64("win_rate", report.WinRate),
	)
	return report, nil
}

func (r *Runner) playOne(ctx context.Context, cfg Config, index int) (*GameResult, error) {
	game, _, err := r.controller.CreateGame(ctx, cfg.Game)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := r.controller.DeleteGame(context.WithoutCancel(ctx), game.ID); err != nil {
			r.logger.Warn("failed to clean up game",
				slog.String("game_id", string(game.ID)),
				slog.String("error", err.Error()),
			)
		}
	}()

	var rnd random.Random = random.New()
	if cfg.Seed != nil {
		rnd = random.NewSeeded(*cfg.Seed + uint64(index))
	}

	driver := local.New(r.controller, game.ID)
	s := solver.New(driver, inference.New(), selector.NewRandomSelector(rnd), cfg.Solver, r.logger)
	played, err := s.Play(ctx)
	if err != nil {
		return nil, err
	}

	return &GameResult{
		GameID:  game.ID,
		RunID:   played.RunID,
		Status:  played.Status,
		Steps:   played.Steps,
		Actions: played.Actions,
		Guesses: played.Guesses,
	}, nil
}

func summarise(results []GameResult) *Report {
	report := &Report{Games: len(results), Results: results}
	for _, res := range results {
		switch res.Status {
		case model.StatusWon:
			report.Won++
		case model.StatusLost:
			report.Lost++
		default:
			report.Unfinished++
		}
		report.Guesses += res.Guesses
	}
	report.WinRate = float64(report.Won) / float64(report.Games)
	return report
}
