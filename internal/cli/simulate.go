package cli

import (
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/sweepbot/internal/factory"
	"github.com/mcoot/sweepbot/internal/services/auth"
	"github.com/mcoot/sweepbot/internal/services/simulation"
)

func newSimulateCmd() *cobra.Command {
	var (
		flags    gameFlags
		games    int
		parallel int
		seed     uint64
		details  bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play many games in-process and report the win rate",
		Long: `Simulate plays games against an in-process minefield without a server.

With --seed and --parallel 1 a run is reproducible: the same seed places the
same mines and makes the same guesses.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd.Flags())
			if err != nil {
				return err
			}

			factoryCfg := factory.Config{
				// Tokens never leave the process
				AuthConfig: auth.Config{BcryptCost: bcrypt.MinCost},
				Logger:     logger,
			}
			simCfg := simulation.Config{
				Games:    games,
				Parallel: parallel,
				Game:     opts,
				Solver:   profile.SolverConfig(),
			}
			if cmd.Flags().Changed("seed") {
				factoryCfg.Seed = &seed
				simCfg.Seed = &seed
			}

			app, err := factory.New(cmd.Context(), factoryCfg)
			if err != nil {
				return err
			}

			report, err := simulation.NewRunner(app.Minefield, logger).Run(cmd.Context(), simCfg)
			if err != nil {
				return err
			}
			if !details {
				report.Results = nil
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(*report)
			return nil
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().IntVarP(&games, "games", "n", 100, "Number of games to play")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 1, "Games played at once")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for reproducible runs")
	cmd.Flags().BoolVar(&details, "details", false, "Include every game in the output")

	return cmd
}
