package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Errors
var (
	ErrInvalidToken = errors.New("invalid control token")
)

// Config holds configuration for the auth service
type Config struct {
	// BcryptCost is the cost used to hash control tokens
	BcryptCost int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		BcryptCost: bcrypt.DefaultCost,
	}
}

// Service issues and checks the per-game control tokens that authorize moves.
// Only the bcrypt hash of a token is stored with the game.
type Service struct {
	cost int
}

// New creates a new auth Service
func New(cfg Config) *Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultConfig().BcryptCost
	}
	return &Service{cost: cfg.BcryptCost}
}

// IssueToken generates a control token and returns it with its hash
func (s *Service) IssueToken() (token string, hash string, err error) {
	token = generateToken("ctl_")
	h, err := bcrypt.GenerateFromPassword([]byte(token), s.cost)
	if err != nil {
		return "", "", err
	}
	return token, string(h), nil
}

// Verify checks token against a stored hash
func (s *Service) Verify(hash, token string) error {
	if hash == "" || token == "" {
		return ErrInvalidToken
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)); err != nil {
		return ErrInvalidToken
	}
	return nil
}

// generateToken generates a random token with a prefix
func generateToken(prefix string) string {
	b := make([]byte, 18)
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}
