package page

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mcoot/sweepbot/internal/model"
)

// parseBoard reads every td.cell of the page into a board. Cells are placed
// by their data-row and data-col attributes.
func parseBoard(doc *goquery.Document) (*model.Board, error) {
	type placed struct {
		pos  model.Position
		cell model.Cell
	}

	var cells []placed
	height, width := 0, 0
	var parseErr error

	doc.Find("td.cell").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		pos, err := cellPosition(sel)
		if err != nil {
			parseErr = err
			return false
		}
		cell, err := cellState(sel)
		if err != nil {
			parseErr = fmt.Errorf("cell %s: %w", pos, err)
			return false
		}
		cells = append(cells, placed{pos: pos, cell: cell})
		height = max(height, pos.Row+1)
		width = max(width, pos.Col+1)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if len(cells) == 0 {
		return nil, model.ErrNoCells
	}
	if len(cells) != width*height {
		return nil, fmt.Errorf("%w: %d cells for a %dx%d grid", model.ErrRaggedBoard, len(cells), height, width)
	}

	grid := make([][]model.Cell, height)
	seen := make([][]bool, height)
	for row := range grid {
		grid[row] = make([]model.Cell, width)
		seen[row] = make([]bool, width)
	}
	for _, c := range cells {
		if seen[c.pos.Row][c.pos.Col] {
			return nil, fmt.Errorf("%w: cell %s appears twice", model.ErrRaggedBoard, c.pos)
		}
		seen[c.pos.Row][c.pos.Col] = true
		grid[c.pos.Row][c.pos.Col] = c.cell
	}

	return model.NewBoard(grid)
}

func cellPosition(sel *goquery.Selection) (model.Position, error) {
	row, err := intAttr(sel, "data-row")
	if err != nil {
		return model.Position{}, err
	}
	col, err := intAttr(sel, "data-col")
	if err != nil {
		return model.Position{}, err
	}
	return model.Position{Row: row, Col: col}, nil
}

func intAttr(sel *goquery.Selection, name string) (int, error) {
	raw, ok := sel.Attr(name)
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", model.ErrInvalidCell, name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: bad %s %q", model.ErrInvalidCell, name, raw)
	}
	return v, nil
}

// cellState maps the DOM classes of a cell to its state
func cellState(sel *goquery.Selection) (model.Cell, error) {
	class, _ := sel.Attr("class")
	for _, c := range strings.Fields(class) {
		switch {
		case c == "hidden":
			return model.Hidden(), nil
		case c == "flagged":
			return model.Flagged(), nil
		case c == "mine":
			return model.Revealed(model.UnexplodedMine), nil
		case c == "mine-exploded":
			return model.Revealed(model.ExplodedMine), nil
		case strings.HasPrefix(c, "open"):
			n, err := strconv.Atoi(strings.TrimPrefix(c, "open"))
			if err != nil || n < 0 || n > 8 {
				return model.Cell{}, fmt.Errorf("%w: class %q", model.ErrInvalidCell, c)
			}
			return model.Revealed(model.Number(n)), nil
		}
	}
	return model.Cell{}, fmt.Errorf("%w: no state in class %q", model.ErrInvalidCell, class)
}

// parseStatus reads the face and the game container. Either one showing a
// loss means lost.
func parseStatus(doc *goquery.Document) (model.GameStatus, error) {
	face := doc.Find("#face")
	game := doc.Find("#game")
	if face.Length() == 0 && game.Length() == 0 {
		return "", fmt.Errorf("page has no status indicator")
	}

	switch {
	case face.HasClass("face-dead") || game.HasClass("game-lost"):
		return model.StatusLost, nil
	case face.HasClass("face-win") || game.HasClass("game-won"):
		return model.StatusWon, nil
	default:
		return model.StatusOngoing, nil
	}
}

func readDocument(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return doc, nil
}
