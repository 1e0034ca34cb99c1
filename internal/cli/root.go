package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mcoot/sweepbot/internal/apiclient"
)

var (
	cfg     *Config
	client  *apiclient.Client
	profile Profile
	logger  *slog.Logger
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "sweepbot",
		Short: "Minesweeper solver",
		Long: `sweepbot plays Minesweeper with a deterministic single-cell solver.

It can create games on a sweepbot server, solve them through the HTML board
page the way a player would, and simulate batches of games in-process to
measure the solver's win rate.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			var err error
			if profile, err = LoadProfile(cfg.ProfilePath); err != nil {
				return err
			}

			client = apiclient.New(cfg.ServerURL, cfg.Token)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: SWEEPBOT_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Game control token (env: SWEEPBOT_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.ProfilePath, "config", cfg.ProfilePath, "Solver profile YAML (env: SWEEPBOT_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newNewCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newSolveCmd())
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command and prints any error in the chosen format
func Execute(ctx context.Context) error {
	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		NewOutput(cfg.Output, root.OutOrStdout()).PrintError(err)
	}
	return err
}
