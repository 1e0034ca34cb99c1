package minefield

import (
	"github.com/mcoot/sweepbot/internal/model"
)

// placeMines lays out game.MineCount mines. When opening is set, the opening
// cell and its neighbours stay clear; if that leaves too few cells, only the
// opening cell is kept clear.
func (c *Controller) placeMines(game *model.Game, opening *model.Position) {
	candidates := eligibleCells(game, opening, true)
	if len(candidates) < game.MineCount {
		candidates = eligibleCells(game, opening, false)
	}

	// Partial Fisher-Yates: the first MineCount entries become the mines
	for i := 0; i < game.MineCount; i++ {
		j := i + c.random.Intn(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
		game.Mines[candidates[i].Row][candidates[i].Col] = true
	}
	game.MinesPlaced = true
}

// eligibleCells lists the cells that may hold a mine, in row-major order
func eligibleCells(game *model.Game, opening *model.Position, clearNeighbors bool) []model.Position {
	var cells []model.Position
	for row := 0; row < game.Height; row++ {
		for col := 0; col < game.Width; col++ {
			pos := model.Position{Row: row, Col: col}
			if opening != nil && excluded(*opening, pos, clearNeighbors) {
				continue
			}
			cells = append(cells, pos)
		}
	}
	return cells
}

func excluded(opening, pos model.Position, clearNeighbors bool) bool {
	if pos == opening {
		return true
	}
	if !clearNeighbors {
		return false
	}
	dr, dc := pos.Row-opening.Row, pos.Col-opening.Col
	return dr >= -1 && dr <= 1 && dc >= -1 && dc <= 1
}

// floodReveal opens start and, while the opened cells are zeros, their
// unflagged neighbours
func floodReveal(game *model.Game, start model.Position) {
	queue := []model.Position{start}
	game.RevealedMask[start.Row][start.Col] = true

	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]

		if game.AdjacentMines(pos) != 0 {
			continue
		}
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				n := model.Position{Row: pos.Row + dr, Col: pos.Col + dc}
				if !game.InBounds(n) || game.IsRevealed(n) || game.IsFlagged(n) || game.IsMine(n) {
					continue
				}
				game.RevealedMask[n.Row][n.Col] = true
				queue = append(queue, n)
			}
		}
	}
}
