package redis

import "time"

// Config holds Redis connection and retention settings
type Config struct {
	// URL is the Redis connection URL, e.g. redis://localhost:6379/0
	URL string

	PoolSize     int
	MinIdleConns int

	// ConnectTimeout bounds the initial PING
	ConnectTimeout time.Duration

	// GameTTL is how long a game is kept after its last move
	GameTTL time.Duration

	// KeyPrefix namespaces every key, so several deployments can share a database
	KeyPrefix string
}

// DefaultConfig returns the configuration used by cmd/server
func DefaultConfig() Config {
	return Config{
		URL:            "redis://localhost:6379",
		PoolSize:       10,
		MinIdleConns:   2,
		ConnectTimeout: 5 * time.Second,
		GameTTL:        24 * time.Hour,
		KeyPrefix:      "sweep",
	}
}
