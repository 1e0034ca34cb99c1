package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/sweepbot/internal/dependencies/clock"
	"github.com/mcoot/sweepbot/internal/dependencies/random"
	"github.com/mcoot/sweepbot/internal/drivers/page"
	"github.com/mcoot/sweepbot/internal/model"
	"github.com/mcoot/sweepbot/internal/services/inference"
	"github.com/mcoot/sweepbot/internal/services/selector"
	"github.com/mcoot/sweepbot/internal/services/solver"
)

func newSolveCmd() *cobra.Command {
	var flags gameFlags

	cmd := &cobra.Command{
		Use:   "solve [id]",
		Short: "Solve a game through its board page",
		Long: `Solve plays a game through the server's HTML board page.

Without an id a new game is created first. With an id the game's control
token must be given with --token or SWEEPBOT_TOKEN.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var id model.GameID
			token := cfg.Token
			if len(args) == 1 {
				if token == "" {
					return errors.New("a control token is required to solve an existing game")
				}
				id = model.GameID(args[0])
			} else {
				req, err := flags.request(cmd.Flags())
				if err != nil {
					return err
				}
				created, err := client.CreateGame(ctx, req)
				if err != nil {
					return err
				}
				id, token = model.GameID(created.Game.ID), created.ControlToken
			}

			driver := page.New(profile.PageConfig(cfg.ServerURL, id, token), clock.New(), logger)
			s := solver.New(driver, inference.New(), selector.NewRandomSelector(random.New()), profile.SolverConfig(), logger)

			result, err := s.Play(ctx)
			if err != nil {
				return err
			}

			report := SolveReport{
				GameID:  string(id),
				PageURL: pageURL(id, ""),
				RunID:   result.RunID,
				Status:  string(result.Status),
				Steps:   result.Steps,
				Actions: result.Actions,
				Guesses: result.Guesses,
			}
			if result.Board != nil {
				report.Board = strings.Split(result.Board.String(), "\n")
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(report)
			return nil
		},
	}
	flags.register(cmd.Flags())

	return cmd
}
