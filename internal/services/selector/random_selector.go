package selector

import (
	"github.com/mcoot/sweepbot/internal/dependencies/random"
	"github.com/mcoot/sweepbot/internal/model"
)

// RandomSelector picks a guess uniformly from the frontier: unopened cells
// touching at least one revealed cell
type RandomSelector struct {
	random random.Random
}

// NewRandomSelector creates a new RandomSelector
func NewRandomSelector(rnd random.Random) *RandomSelector {
	return &RandomSelector{random: rnd}
}

// Candidates returns the frontier in row-major order
func (s *RandomSelector) Candidates(board *model.Board) []model.Position {
	var candidates []model.Position
	for row := 0; row < board.Height; row++ {
		for col := 0; col < board.Width; col++ {
			pos := model.Position{Row: row, Col: col}
			if board.At(pos).IsUnopened() && board.HasRevealedNeighbor(pos) {
				candidates = append(candidates, pos)
			}
		}
	}
	return candidates
}

// Select returns a reveal for a random frontier cell, or false if the
// frontier is empty
func (s *RandomSelector) Select(board *model.Board) (model.Action, bool) {
	candidates := s.Candidates(board)
	if len(candidates) == 0 {
		return model.Action{}, false
	}
	return model.Reveal(candidates[s.random.Intn(len(candidates))]), true
}
