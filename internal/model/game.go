package model

import "time"

// GameID uniquely identifies a game
type GameID string

// Game is one simulated Minesweeper game, including the hidden mine layout
type Game struct {
	ID        GameID
	Width     int
	Height    int
	MineCount int
	Status    GameStatus

	// SafeOpening defers mine placement until the first reveal so that the
	// first clicked cell and its neighbours are mine-free
	SafeOpening  bool
	MinesPlaced  bool
	Mines        [][]bool
	RevealedMask [][]bool
	FlaggedMask  [][]bool
	Exploded     *Position // Set when a mine was revealed

	// ControlHash is the bcrypt hash of the token that authorizes moves
	ControlHash string

	Moves     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewGame creates an ongoing game with empty masks and no mines placed
func NewGame(id GameID, width, height, mines int, safeOpening bool, now time.Time) *Game {
	return &Game{
		ID:           id,
		Width:        width,
		Height:       height,
		MineCount:    mines,
		Status:       StatusOngoing,
		SafeOpening:  safeOpening,
		Mines:        newMask(width, height),
		RevealedMask: newMask(width, height),
		FlaggedMask:  newMask(width, height),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func newMask(width, height int) [][]bool {
	mask := make([][]bool, height)
	for i := range mask {
		mask[i] = make([]bool, width)
	}
	return mask
}

// Clone returns a deep copy of the game
func (g *Game) Clone() *Game {
	c := *g
	c.Mines = cloneMask(g.Mines)
	c.RevealedMask = cloneMask(g.RevealedMask)
	c.FlaggedMask = cloneMask(g.FlaggedMask)
	if g.Exploded != nil {
		exploded := *g.Exploded
		c.Exploded = &exploded
	}
	return &c
}

func cloneMask(mask [][]bool) [][]bool {
	if mask == nil {
		return nil
	}
	c := make([][]bool, len(mask))
	for i, row := range mask {
		c[i] = append([]bool(nil), row...)
	}
	return c
}

// InBounds returns true if the position is within the grid
func (g *Game) InBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < g.Height && pos.Col >= 0 && pos.Col < g.Width
}

// IsMine returns true if a mine is placed at pos
func (g *Game) IsMine(pos Position) bool {
	return g.InBounds(pos) && g.Mines[pos.Row][pos.Col]
}

// IsRevealed returns true if pos has been revealed
func (g *Game) IsRevealed(pos Position) bool {
	return g.InBounds(pos) && g.RevealedMask[pos.Row][pos.Col]
}

// IsFlagged returns true if pos carries a flag
func (g *Game) IsFlagged(pos Position) bool {
	return g.InBounds(pos) && g.FlaggedMask[pos.Row][pos.Col]
}

// AdjacentMines counts mines around pos
func (g *Game) AdjacentMines(pos Position) int {
	count := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if g.IsMine(Position{Row: pos.Row + dr, Col: pos.Col + dc}) {
				count++
			}
		}
	}
	return count
}

// SafeCellsRemaining returns the number of unrevealed cells without a mine
func (g *Game) SafeCellsRemaining() int {
	remaining := g.Width*g.Height - g.MineCount
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			if g.RevealedMask[row][col] && !g.Mines[row][col] {
				remaining--
			}
		}
	}
	return remaining
}

// FlagCount returns the number of flagged cells
func (g *Game) FlagCount() int {
	count := 0
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			if g.FlaggedMask[row][col] {
				count++
			}
		}
	}
	return count
}

// IsFinished returns true once the game is won or lost
func (g *Game) IsFinished() bool {
	return g.Status.IsTerminal()
}

// PlayerView returns the board as the player sees it. After a loss every
// unflagged mine is shown, with the clicked one marked as exploded.
func (g *Game) PlayerView() *Board {
	board := NewHiddenBoard(g.Width, g.Height)
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			pos := Position{Row: row, Col: col}
			switch {
			case g.Exploded != nil && *g.Exploded == pos:
				board.Cells[row][col] = Revealed(ExplodedMine)
			case g.FlaggedMask[row][col]:
				board.Cells[row][col] = Flagged()
			case g.Status == StatusLost && g.Mines[row][col]:
				board.Cells[row][col] = Revealed(UnexplodedMine)
			case g.RevealedMask[row][col]:
				board.Cells[row][col] = Revealed(Number(g.AdjacentMines(pos)))
			}
		}
	}
	return board
}
