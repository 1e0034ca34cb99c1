package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sweepbot/internal/model"
)

type MetricsSuite struct {
	suite.Suite
	recorder *Prometheus
}

func TestMetricsSuite(t *testing.T) {
	suite.Run(t, new(MetricsSuite))
}

func (s *MetricsSuite) SetupTest() {
	s.recorder = NewPrometheus()
}

func (s *MetricsSuite) TestCountsGamesCreated() {
	s.recorder.GameCreated(9, 9)
	s.recorder.GameCreated(16, 16)

	s.Equal(2.0, testutil.ToFloat64(s.recorder.gamesCreated))
}

func (s *MetricsSuite) TestCountsMovesByKind() {
	s.recorder.MoveApplied("reveal")
	s.recorder.MoveApplied("reveal")
	s.recorder.MoveApplied("flag")

	s.Equal(2.0, testutil.ToFloat64(s.recorder.moves.WithLabelValues("reveal")))
	s.Equal(1.0, testutil.ToFloat64(s.recorder.moves.WithLabelValues("flag")))
}

func (s *MetricsSuite) TestCountsFinishedGamesByStatus() {
	s.recorder.GameFinished(model.StatusWon)
	s.recorder.GameFinished(model.StatusLost)
	s.recorder.GameFinished(model.StatusLost)

	s.Equal(1.0, testutil.ToFloat64(s.recorder.gamesFinished.WithLabelValues("won")))
	s.Equal(2.0, testutil.ToFloat64(s.recorder.gamesFinished.WithLabelValues("lost")))
}

func (s *MetricsSuite) TestHandlerExposesMetrics() {
	s.recorder.MoveApplied("toggle")

	rec := httptest.NewRecorder()
	s.recorder.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `sweepbot_games_moves_total{kind="toggle"} 1`)
}
