package model

import (
	"fmt"
	"strings"
)

// Position identifies a cell on the board
type Position struct {
	Row int // 0-indexed from top
	Col int // 0-indexed from left
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Board is a snapshot of the player's view of the grid.
// Snapshots are values: callers derive actions from them and fetch a new one
// after every move instead of editing cells in place.
type Board struct {
	Width  int      // Columns
	Height int      // Rows
	Cells  [][]Cell // Row-major: Cells[row][col]
}

// NewBoard builds a board from row-major cells, checking shape and cell invariants
func NewBoard(cells [][]Cell) (*Board, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, ErrNoCells
	}
	width := len(cells[0])
	for row, line := range cells {
		if len(line) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrRaggedBoard, row, len(line), width)
		}
		for col, c := range line {
			if err := c.validate(); err != nil {
				return nil, fmt.Errorf("cell %s: %w", Position{Row: row, Col: col}, err)
			}
		}
	}
	return &Board{
		Width:  width,
		Height: len(cells),
		Cells:  cells,
	}, nil
}

// NewHiddenBoard creates a board where every cell is hidden
func NewHiddenBoard(width, height int) *Board {
	cells := make([][]Cell, height)
	for i := range cells {
		cells[i] = make([]Cell, width)
	}
	return &Board{Width: width, Height: height, Cells: cells}
}

// InBounds returns true if the position is on the board
func (b *Board) InBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < b.Height && pos.Col >= 0 && pos.Col < b.Width
}

// At returns the cell at pos. Out-of-range positions yield a hidden cell.
func (b *Board) At(pos Position) Cell {
	if !b.InBounds(pos) {
		return Cell{}
	}
	return b.Cells[pos.Row][pos.Col]
}

// Neighbors returns the in-bounds positions around pos, row-major over the
// 3x3 block with the centre skipped
func (b *Board) Neighbors(pos Position) []Position {
	result := make([]Position, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Position{Row: pos.Row + dr, Col: pos.Col + dc}
			if b.InBounds(n) {
				result = append(result, n)
			}
		}
	}
	return result
}

// IsGameOver returns true if any revealed cell shows a mine
func (b *Board) IsGameOver() bool {
	for row := 0; row < b.Height; row++ {
		for col := 0; col < b.Width; col++ {
			if b.Cells[row][col].IsMine() {
				return true
			}
		}
	}
	return false
}

// IsUnopened returns true if the cell at pos is neither revealed nor flagged
func (b *Board) IsUnopened(pos Position) bool {
	return b.InBounds(pos) && b.At(pos).IsUnopened()
}

// Unopened returns the unopened neighbours of pos in neighbour order
func (b *Board) Unopened(pos Position) []Position {
	var result []Position
	for _, n := range b.Neighbors(pos) {
		if b.At(n).IsUnopened() {
			result = append(result, n)
		}
	}
	return result
}

// FlaggedAround counts flagged neighbours of pos
func (b *Board) FlaggedAround(pos Position) int {
	count := 0
	for _, n := range b.Neighbors(pos) {
		if b.At(n).Flagged {
			count++
		}
	}
	return count
}

// HasRevealedNeighbor returns true if any neighbour of pos is revealed
func (b *Board) HasRevealedNeighbor(pos Position) bool {
	for _, n := range b.Neighbors(pos) {
		if b.At(n).Revealed {
			return true
		}
	}
	return false
}

// AnyRevealed returns true if at least one cell has been revealed
func (b *Board) AnyRevealed() bool {
	for row := 0; row < b.Height; row++ {
		for col := 0; col < b.Width; col++ {
			if b.Cells[row][col].Revealed {
				return true
			}
		}
	}
	return false
}

// Center returns the middle cell, rounding towards the top-left
func (b *Board) Center() Position {
	return Position{Row: (b.Height - 1) / 2, Col: (b.Width - 1) / 2}
}

// SameDimensions returns true if other has the same width and height
func (b *Board) SameDimensions(other *Board) bool {
	return other != nil && b.Width == other.Width && b.Height == other.Height
}

// String renders the board one row per line:
// '#' hidden, 'F' flagged, '.' zero, digits, '*' mine, 'X' exploded mine
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < b.Height; row++ {
		for col := 0; col < b.Width; col++ {
			sb.WriteByte(cellGlyph(b.Cells[row][col]))
		}
		if row < b.Height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func cellGlyph(c Cell) byte {
	switch {
	case c.Flagged:
		return 'F'
	case !c.Revealed:
		return '#'
	case c.Value.Kind == ValueExplodedMine:
		return 'X'
	case c.Value.Kind == ValueUnexplodedMine:
		return '*'
	case c.Value.Count == 0:
		return '.'
	default:
		return byte('0' + c.Value.Count)
	}
}

// ParseBoard is the inverse of Board.String. Rows are separated by newlines;
// surrounding whitespace on each row is ignored.
func ParseBoard(s string) (*Board, error) {
	var cells [][]Cell
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		row := make([]Cell, 0, len(line))
		for i := 0; i < len(line); i++ {
			c, err := parseGlyph(line[i])
			if err != nil {
				return nil, err
			}
			row = append(row, c)
		}
		cells = append(cells, row)
	}
	return NewBoard(cells)
}

func parseGlyph(g byte) (Cell, error) {
	switch {
	case g == '#':
		return Hidden(), nil
	case g == 'F':
		return Flagged(), nil
	case g == '.':
		return Revealed(Number(0)), nil
	case g == '*':
		return Revealed(UnexplodedMine), nil
	case g == 'X':
		return Revealed(ExplodedMine), nil
	case g >= '0' && g <= '8':
		return Revealed(Number(int(g - '0'))), nil
	default:
		return Cell{}, fmt.Errorf("%w: unknown glyph %q", ErrInvalidCell, g)
	}
}
