package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/sweepbot/internal/model"
	"github.com/mcoot/sweepbot/internal/storage"
)

// Storage keeps each game as a JSON document with a sliding TTL. A sorted
// set indexes games by last update; entries whose document has expired are
// pruned lazily by ListGames.
type Storage struct {
	client *redis.Client
	cfg    Config
	keys   keys
}

// New connects to the server at cfg.URL and verifies it answers PING
func New(ctx context.Context, cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient wraps an existing client
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
		keys:   newKeys(cfg.KeyPrefix),
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", game.ID, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.keys.game(game.ID), data, s.cfg.GameTTL)
	pipe.ZAdd(ctx, s.keys.recent(), redis.Z{
		Score:  float64(game.UpdatedAt.UnixMilli()),
		Member: string(game.ID),
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, s.keys.game(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeGame(id, data)
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.keys.game(id))
	pipe.ZRem(ctx, s.keys.recent(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GameExists(ctx context.Context, id model.GameID) (bool, error) {
	n, err := s.client.Exists(ctx, s.keys.game(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Storage) ListGames(ctx context.Context, limit int) ([]*model.Game, error) {
	if limit <= 0 {
		return nil, nil
	}

	ids, err := s.client.ZRevRange(ctx, s.keys.recent(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	gameKeys := make([]string, len(ids))
	for i, id := range ids {
		gameKeys[i] = s.keys.game(model.GameID(id))
	}
	values, err := s.client.MGet(ctx, gameKeys...).Result()
	if err != nil {
		return nil, err
	}

	games := make([]*model.Game, 0, len(ids))
	var expired []any
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		game, err := decodeGame(model.GameID(ids[i]), []byte(raw))
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}

	if len(expired) > 0 {
		if err := s.client.ZRem(ctx, s.keys.recent(), expired...).Err(); err != nil {
			return nil, fmt.Errorf("prune expired games: %w", err)
		}
	}

	return games, nil
}

func decodeGame(id model.GameID, data []byte) (*model.Game, error) {
	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, fmt.Errorf("decode game %s: %w", id, err)
	}
	return &game, nil
}
