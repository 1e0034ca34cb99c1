package selector_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sweepbot/internal/dependencies/mocks"
	"github.com/mcoot/sweepbot/internal/dependencies/random"
	"github.com/mcoot/sweepbot/internal/model"
	"github.com/mcoot/sweepbot/internal/services/selector"
)

type RandomSelectorSuite struct {
	suite.Suite
	mockRandom *mocks.MockRandom
	selector   *selector.RandomSelector
}

func TestRandomSelectorSuite(t *testing.T) {
	suite.Run(t, new(RandomSelectorSuite))
}

func (s *RandomSelectorSuite) SetupTest() {
	s.mockRandom = mocks.NewMockRandom()
	s.selector = selector.NewRandomSelector(s.mockRandom)
}

func (s *RandomSelectorSuite) board(rows string) *model.Board {
	b, err := model.ParseBoard(rows)
	s.Require().NoError(err)
	return b
}

func (s *RandomSelectorSuite) TestCandidatesAreFrontierOnly() {
	b := s.board(`
		####
		#1F#
		####
		####
	`)

	candidates := s.selector.Candidates(b)

	// Everything around the 1 except the flag; row 3 is out of reach
	s.Equal([]model.Position{
		{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2},
		{Row: 1, Col: 0},
		{Row: 2, Col: 0}, {Row: 2, Col: 1}, {Row: 2, Col: 2},
	}, candidates)
}

func (s *RandomSelectorSuite) TestSelectUsesRandomIndex() {
	b := s.board(`
		##
		#1
	`)
	// Candidates: (0,0), (0,1), (1,0)
	s.mockRandom.QueueIntn(2)

	action, ok := s.selector.Select(b)

	s.True(ok)
	s.Equal(model.Reveal(model.Position{Row: 1, Col: 0}), action)
	s.Equal([]int{3}, s.mockRandom.IntnBounds())
}

func (s *RandomSelectorSuite) TestSelectNoCandidates() {
	// Nothing revealed: no frontier
	_, ok := s.selector.Select(s.board("###\n###"))
	s.False(ok)

	// Everything opened or flagged
	_, ok = s.selector.Select(s.board("1F\n11"))
	s.False(ok)
}

func (s *RandomSelectorSuite) TestSelectionStaysInFrontier() {
	b := s.board(`
		#####
		#2#1#
		#####
		#####
		####.
	`)
	frontier := make(map[model.Position]bool)
	for _, p := range s.selector.Candidates(b) {
		frontier[p] = true
	}

	rnd := selector.NewRandomSelector(random.NewSeeded(7))
	for range 200 {
		action, ok := rnd.Select(b)
		s.Require().True(ok)
		s.Equal(model.ActionReveal, action.Kind)
		s.True(frontier[action.Position], "%s is not on the frontier", action.Position)
		cell := b.At(action.Position)
		s.False(cell.Revealed)
		s.False(cell.Flagged)
		s.True(b.HasRevealedNeighbor(action.Position))
	}
}
