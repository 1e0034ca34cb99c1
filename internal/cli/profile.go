package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mcoot/sweepbot/internal/drivers/page"
	"github.com/mcoot/sweepbot/internal/model"
	"github.com/mcoot/sweepbot/internal/services/solver"
)

// Profile tunes the solver and the page driver. It is read from a YAML file:
//
//	max_steps: 200
//	max_retries: 5
//	backoff: 250ms
//	request_timeout: 5s
//	opening: {row: 0, col: 0}
type Profile struct {
	MaxSteps       int           `yaml:"max_steps"`
	MaxRetries     int           `yaml:"max_retries"`
	Backoff        time.Duration `yaml:"backoff"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Opening        *Cell         `yaml:"opening"`
}

// Cell is a board position in a profile
type Cell struct {
	Row int `yaml:"row"`
	Col int `yaml:"col"`
}

// DefaultProfile returns the settings used when no profile is given
func DefaultProfile() Profile {
	driver := page.DefaultConfig()
	return Profile{
		MaxSteps:       solver.DefaultMaxSteps,
		MaxRetries:     driver.MaxRetries,
		Backoff:        driver.Backoff,
		RequestTimeout: driver.RequestTimeout,
	}
}

// LoadProfile reads a profile from path. Keys missing from the file keep
// their defaults; an empty path yields the defaults.
func LoadProfile(path string) (Profile, error) {
	profile := DefaultProfile()
	if path == "" {
		return profile, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	if err := profile.Validate(); err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return profile, nil
}

// Validate rejects negative limits and openings
func (p Profile) Validate() error {
	switch {
	case p.MaxSteps < 0:
		return errors.New("max_steps must not be negative")
	case p.MaxRetries < 0:
		return errors.New("max_retries must not be negative")
	case p.Backoff < 0:
		return errors.New("backoff must not be negative")
	case p.RequestTimeout < 0:
		return errors.New("request_timeout must not be negative")
	case p.Opening != nil && (p.Opening.Row < 0 || p.Opening.Col < 0):
		return errors.New("opening must be on the board")
	}
	return nil
}

// SolverConfig returns the solver settings of the profile
func (p Profile) SolverConfig() solver.Config {
	cfg := solver.DefaultConfig()
	if p.MaxSteps > 0 {
		cfg.MaxSteps = p.MaxSteps
	}
	if p.Opening != nil {
		cfg.Opening = &model.Position{Row: p.Opening.Row, Col: p.Opening.Col}
	}
	return cfg
}

// PageConfig returns page driver settings for one game
func (p Profile) PageConfig(serverURL string, id model.GameID, token string) page.Config {
	cfg := page.DefaultConfig()
	cfg.BaseURL = serverURL
	cfg.GameID = id
	cfg.Token = token
	cfg.MaxRetries = p.MaxRetries
	cfg.Backoff = p.Backoff
	if p.RequestTimeout > 0 {
		cfg.RequestTimeout = p.RequestTimeout
	}
	return cfg
}
