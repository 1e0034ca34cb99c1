package cli

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mcoot/sweepbot/internal/api/request"
	"github.com/mcoot/sweepbot/internal/api/response"
	"github.com/mcoot/sweepbot/internal/model"
	"github.com/mcoot/sweepbot/internal/services/minefield"
)

// gameFlags are the board options shared by new, solve and simulate
type gameFlags struct {
	preset      string
	width       int
	height      int
	mines       int
	safeOpening bool
}

func (f *gameFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.preset, "preset", "beginner", "Board preset: beginner, intermediate, expert")
	flags.IntVar(&f.width, "width", 0, "Board width (overrides the preset)")
	flags.IntVar(&f.height, "height", 0, "Board height (overrides the preset)")
	flags.IntVar(&f.mines, "mines", 0, "Mine count (overrides the preset)")
	flags.BoolVar(&f.safeOpening, "safe-opening", true, "Keep the first reveal and its neighbours free of mines")
}

// options resolves the preset and any explicit overrides
func (f *gameFlags) options(flags *pflag.FlagSet) (minefield.Options, error) {
	opts, ok := minefield.PresetOptions(f.preset)
	if !ok {
		return minefield.Options{}, fmt.Errorf("unknown preset %q", f.preset)
	}
	if flags.Changed("width") {
		opts.Width = f.width
	}
	if flags.Changed("height") {
		opts.Height = f.height
	}
	if flags.Changed("mines") {
		opts.Mines = f.mines
	}
	opts.SafeOpening = f.safeOpening
	return opts, opts.Validate()
}

func (f *gameFlags) request(flags *pflag.FlagSet) (request.CreateGameRequest, error) {
	opts, err := f.options(flags)
	if err != nil {
		return request.CreateGameRequest{}, err
	}
	return request.CreateGameRequest{
		Width:       opts.Width,
		Height:      opts.Height,
		Mines:       opts.Mines,
		SafeOpening: &opts.SafeOpening,
	}, nil
}

// pageURL links to a game's board page. With a token the page claims
// control of the game for the browser.
func pageURL(id model.GameID, token string) string {
	u := strings.TrimSuffix(cfg.ServerURL, "/") + "/games/" + url.PathEscape(string(id))
	if token != "" {
		u += "?token=" + url.QueryEscape(token)
	}
	return u
}

func newNewCmd() *cobra.Command {
	var flags gameFlags

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a game on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(cmd.Flags())
			if err != nil {
				return err
			}

			created, err := client.CreateGame(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(NewGameResult{
				CreatedGame: *created,
				PageURL:     pageURL(model.GameID(created.Game.ID), created.ControlToken),
			})
			return nil
		},
	}
	flags.register(cmd.Flags())

	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a game as the player sees it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := client.GetGame(cmd.Context(), model.GameID(args[0]))
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(*state)
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a game (requires its control token)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Token == "" {
				return errors.New("a control token is required (--token or SWEEPBOT_TOKEN)")
			}
			if err := client.DeleteGame(cmd.Context(), model.GameID(args[0])); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(map[string]string{"deleted": args[0]})
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recently played games, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			games, err := client.ListGames(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(response.GameList{Games: games})
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of games (server default if 0)")

	return cmd
}
