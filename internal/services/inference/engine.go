package inference

import (
	"github.com/mcoot/sweepbot/internal/model"
)

// Engine deduces certain moves from single-cell constraints.
//
// For a revealed number v with f flagged and u unopened neighbours:
//   - u > 0 and u == v-f: every unopened neighbour is a mine (flag)
//   - u > 0 and v == f: every unopened neighbour is safe (reveal)
//
// Both checks run independently for every cell.
type Engine struct{}

// New creates a new Engine
func New() *Engine {
	return &Engine{}
}

// Infer scans the board row by row and returns the certain moves in the
// order they were found. The board is not modified.
func (e *Engine) Infer(board *model.Board) []model.Action {
	var actions []model.Action

	// Flags proposed earlier in this pass count as placed for later cells
	pendingFlags := make(map[model.Position]bool)
	pendingReveals := make(map[model.Position]bool)

	for row := 0; row < board.Height; row++ {
		for col := 0; col < board.Width; col++ {
			pos := model.Position{Row: row, Col: col}
			cell := board.At(pos)
			if !cell.Revealed {
				continue
			}
			// Mine sentinels carry no constraint. Zeros are kept: with v == 0
			// only the reveal rule can match.
			value, ok := cell.Value.AsNumber()
			if !ok {
				continue
			}

			unopened, flagged := partition(board, pos, pendingFlags)
			if len(unopened) == 0 {
				continue
			}

			if len(unopened) == value-flagged {
				for _, n := range unopened {
					pendingFlags[n] = true
					actions = append(actions, model.Flag(n))
				}
			}

			if value == flagged {
				for _, n := range unopened {
					if pendingReveals[n] {
						continue
					}
					pendingReveals[n] = true
					actions = append(actions, model.Reveal(n))
				}
			}
		}
	}

	return actions
}

// partition splits the neighbours of pos into unopened positions and a flag count.
// Revealed neighbours are ignored.
func partition(board *model.Board, pos model.Position, pendingFlags map[model.Position]bool) ([]model.Position, int) {
	var unopened []model.Position
	flagged := 0
	for _, n := range board.Neighbors(pos) {
		c := board.At(n)
		switch {
		case c.Flagged || pendingFlags[n]:
			flagged++
		case !c.Revealed:
			unopened = append(unopened, n)
		}
	}
	return unopened, flagged
}
