package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sweepbot/internal/model"
)

type ProfileSuite struct {
	suite.Suite
	dir string
}

func TestProfileSuite(t *testing.T) {
	suite.Run(t, new(ProfileSuite))
}

func (s *ProfileSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *ProfileSuite) write(content string) string {
	path := filepath.Join(s.dir, "profile.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *ProfileSuite) TestEmptyPathUsesDefaults() {
	profile, err := LoadProfile("")

	s.Require().NoError(err)
	s.Equal(DefaultProfile(), profile)
	s.Equal(3, profile.MaxRetries)
	s.Equal(time.Second, profile.Backoff)
}

func (s *ProfileSuite) TestOverridesOnlyGivenKeys() {
	path := s.write("max_retries: 0\nbackoff: 250ms\nopening:\n  row: 1\n  col: 2\n")

	profile, err := LoadProfile(path)

	s.Require().NoError(err)
	s.Equal(0, profile.MaxRetries)
	s.Equal(250*time.Millisecond, profile.Backoff)
	s.Equal(DefaultProfile().MaxSteps, profile.MaxSteps)

	cfg := profile.SolverConfig()
	s.Require().NotNil(cfg.Opening)
	s.Equal(model.Position{Row: 1, Col: 2}, *cfg.Opening)

	pageCfg := profile.PageConfig("http://example.test", "GAME", "tok")
	s.Equal(0, pageCfg.MaxRetries)
	s.Equal(250*time.Millisecond, pageCfg.Backoff)
	s.Equal(model.GameID("GAME"), pageCfg.GameID)
}

func (s *ProfileSuite) TestRejectsNegativeValues() {
	path := s.write("max_steps: -1\n")

	_, err := LoadProfile(path)

	s.ErrorContains(err, "max_steps")
}

func (s *ProfileSuite) TestRejectsMalformedYAML() {
	path := s.write("backoff: [nope\n")

	_, err := LoadProfile(path)

	s.Error(err)
}

func (s *ProfileSuite) TestMissingFile() {
	_, err := LoadProfile(filepath.Join(s.dir, "missing.yaml"))

	s.ErrorIs(err, os.ErrNotExist)
}
