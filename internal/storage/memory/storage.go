package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/sweepbot/internal/model"
	"github.com/mcoot/sweepbot/internal/storage"
)

// Storage keeps games in a map. Games are copied on the way in and out so
// callers never share state with the store or with each other.
type Storage struct {
	mu sync.RWMutex

	games map[model.GameID]*model.Game
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		games: make(map[model.GameID]*model.Game),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	clone := game.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = clone
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game.Clone(), nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	return nil
}

func (s *Storage) GameExists(ctx context.Context, id model.GameID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.games[id]
	return ok, nil
}

func (s *Storage) ListGames(ctx context.Context, limit int) ([]*model.Game, error) {
	if limit <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	games := make([]*model.Game, 0, len(s.games))
	for _, game := range s.games {
		games = append(games, game)
	}
	s.mu.RUnlock()

	sort.Slice(games, func(i, j int) bool {
		if games[i].UpdatedAt.Equal(games[j].UpdatedAt) {
			return games[i].ID < games[j].ID
		}
		return games[i].UpdatedAt.After(games[j].UpdatedAt)
	})

	if len(games) > limit {
		games = games[:limit]
	}
	for i, game := range games {
		games[i] = game.Clone()
	}
	return games, nil
}
