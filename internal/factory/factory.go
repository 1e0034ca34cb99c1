package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mcoot/sweepbot/internal/dependencies/clock"
	"github.com/mcoot/sweepbot/internal/dependencies/random"
	"github.com/mcoot/sweepbot/internal/metrics"
	"github.com/mcoot/sweepbot/internal/services/auth"
	"github.com/mcoot/sweepbot/internal/services/minefield"
	"github.com/mcoot/sweepbot/internal/storage"
	"github.com/mcoot/sweepbot/internal/storage/memory"
	redisstorage "github.com/mcoot/sweepbot/internal/storage/redis"
)

// Storage backends
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App holds the wired game server components
type App struct {
	Storage storage.Storage

	Clock  clock.Clock
	Random random.Random

	AuthService *auth.Service
	Minefield   *minefield.Controller
	Metrics     *metrics.Prometheus
}

// Config selects the backends for New. The zero value is an in-memory app
// with default bcrypt cost, crypto randomness and discarded logs.
type Config struct {
	AuthConfig auth.Config
	Logger     *slog.Logger

	// StorageType is "memory" (default) or "redis"
	StorageType string
	// RedisConfig is required when StorageType is "redis"
	RedisConfig *redisstorage.Config

	// Seed makes mine placement and game IDs reproducible
	Seed *uint64
}

// ConfigFromEnv reads STORAGE_TYPE, REDIS_URL and REDIS_KEY_PREFIX
func ConfigFromEnv(logger *slog.Logger) (Config, error) {
	cfg := Config{
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
	}
	if cfg.StorageType != StorageTypeRedis {
		return cfg, nil
	}

	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = os.Getenv("REDIS_URL")
	if redisCfg.URL == "" {
		return cfg, errors.New("REDIS_URL required when STORAGE_TYPE=redis")
	}
	if prefix := os.Getenv("REDIS_KEY_PREFIX"); prefix != "" {
		redisCfg.KeyPrefix = prefix
	}
	cfg.RedisConfig = &redisCfg
	return cfg, nil
}

// New opens storage and wires the services on top of it
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var rnd random.Random = random.New()
	if cfg.Seed != nil {
		rnd = random.NewSeeded(*cfg.Seed)
	}

	authCfg := cfg.AuthConfig
	if authCfg.BcryptCost == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), rnd, authCfg, logger), nil
}

func openStorage(ctx context.Context, cfg Config) (storage.Storage, error) {
	switch cfg.StorageType {
	case "", StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(ctx, *cfg.RedisConfig)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be %q or %q", cfg.StorageType, StorageTypeMemory, StorageTypeRedis)
	}
}

// Close releases the storage connection, if the backend holds one
func (a *App) Close() error {
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	authService := auth.New(authCfg)
	recorder := metrics.NewPrometheus()

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		AuthService: authService,
		Minefield:   minefield.NewController(store, authService, clk, rnd, recorder, logger),
		Metrics:     recorder,
	}
}
