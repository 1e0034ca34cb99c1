package page

import (
	"time"

	"github.com/mcoot/sweepbot/internal/model"
)

// Config holds page driver settings
type Config struct {
	// BaseURL is the server root, e.g. http://localhost:8080
	BaseURL string
	GameID  model.GameID
	// Token is the game's control token
	Token string

	// MaxRetries is how many extra times the page is polled for a move to
	// show up, waiting Backoff before each poll
	MaxRetries int
	Backoff    time.Duration

	// RequestTimeout bounds each HTTP request
	RequestTimeout time.Duration
}

// DefaultConfig returns the default page driver configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:        "http://localhost:8080",
		MaxRetries:     3,
		Backoff:        time.Second,
		RequestTimeout: 10 * time.Second,
	}
}
