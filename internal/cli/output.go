package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Ladicle/tabwriter"

	"github.com/mcoot/sweepbot/internal/api/response"
	"github.com/mcoot/sweepbot/internal/services/simulation"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error to stderr
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case NewGameResult:
		o.printNewGame(v)
	case response.GameState:
		o.printGameState(v)
	case response.GameList:
		o.printGameList(v)
	case SolveReport:
		o.printSolveReport(v)
	case simulation.Report:
		o.printSimulation(v)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// NewGameResult is a created game with the links needed to play it
type NewGameResult struct {
	response.CreatedGame
	PageURL string `json:"page_url"`
}

// SolveReport is the outcome of a solve run against a server
type SolveReport struct {
	GameID  string   `json:"game_id"`
	PageURL string   `json:"page_url"`
	RunID   string   `json:"run_id"`
	Status  string   `json:"status"`
	Steps   int      `json:"steps"`
	Actions int      `json:"actions"`
	Guesses int      `json:"guesses"`
	Board   []string `json:"board,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printNewGame(g NewGameResult) {
	o.printGameState(g.Game)
	fmt.Fprintf(o.w, "Control token: %s\n", g.ControlToken)
	fmt.Fprintf(o.w, "Play at: %s\n", g.PageURL)
}

func (o *Output) printGameState(g response.GameState) {
	fmt.Fprintf(o.w, "Game: %s\n", g.ID)
	fmt.Fprintf(o.w, "Status: %s\n", g.Status)
	fmt.Fprintf(o.w, "Size: %dx%d, %d mines, %d flags\n", g.Board.Width, g.Board.Height, g.Mines, g.Flags)
	fmt.Fprintf(o.w, "Moves: %d\n", g.Moves)
	o.printBoard(g.Board.Rows)
}

func (o *Output) printGameList(l response.GameList) {
	if len(l.Games) == 0 {
		fmt.Fprintln(o.w, "No games")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tSIZE\tMINES\tMOVES\tUPDATED")
	for _, g := range l.Games {
		fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%d\t%d\t%s\n",
			g.ID, g.Status, g.Width, g.Height, g.Mines, g.Moves, g.UpdatedAt.Format(time.RFC3339))
	}
	_ = tw.Flush()
}

func (o *Output) printSolveReport(r SolveReport) {
	fmt.Fprintf(o.w, "Game: %s\n", r.GameID)
	fmt.Fprintf(o.w, "Run: %s\n", r.RunID)
	fmt.Fprintf(o.w, "Result: %s after %d steps (%d moves, %d guesses)\n", r.Status, r.Steps, r.Actions, r.Guesses)
	o.printBoard(r.Board)
	if r.PageURL != "" {
		fmt.Fprintf(o.w, "Page: %s\n", r.PageURL)
	}
}

func (o *Output) printSimulation(r simulation.Report) {
	fmt.Fprintf(o.w, "Games: %d\n", r.Games)
	fmt.Fprintf(o.w, "Won: %d  Lost: %d  Unfinished: %d\n", r.Won, r.Lost, r.Unfinished)
	fmt.Fprintf(o.w, "Win rate: %.1f%%\n", r.WinRate*100)
	fmt.Fprintf(o.w, "Guesses: %d\n", r.Guesses)
}

func (o *Output) printBoard(rows []string) {
	if len(rows) == 0 {
		return
	}
	width := len(rows[0])

	fmt.Fprint(o.w, "   +")
	fmt.Fprint(o.w, strings.Repeat("-", width))
	fmt.Fprintln(o.w, "+")
	for i, row := range rows {
		fmt.Fprintf(o.w, "%2d |%s|\n", i, row)
	}
	fmt.Fprint(o.w, "   +")
	fmt.Fprint(o.w, strings.Repeat("-", width))
	fmt.Fprintln(o.w, "+")
}
