package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcoot/sweepbot/internal/model"
)

const namespace = "sweepbot"

// Recorder receives game lifecycle events
type Recorder interface {
	GameCreated(width, height int)
	MoveApplied(kind string)
	GameFinished(status model.GameStatus)
}

// Nop is a Recorder that drops everything
type Nop struct{}

func (Nop) GameCreated(width, height int)        {}
func (Nop) MoveApplied(kind string)              {}
func (Nop) GameFinished(status model.GameStatus) {}

// Prometheus records game events on its own registry
type Prometheus struct {
	registry *prometheus.Registry

	gamesCreated  prometheus.Counter
	boardCells    prometheus.Histogram
	moves         *prometheus.CounterVec
	gamesFinished *prometheus.CounterVec
}

// Ensure Prometheus implements Recorder
var _ Recorder = (*Prometheus)(nil)

// NewPrometheus creates a recorder with a fresh registry that also carries
// the Go runtime and process collectors
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		gamesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "games",
			Name:      "created_total",
			Help:      "Total games created",
		}),
		boardCells: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "games",
			Name:      "board_cells",
			Help:      "Number of cells on created boards",
			Buckets:   []float64{16, 64, 81, 256, 480, 1024, 4096},
		}),
		// Labels: kind (reveal, flag, toggle)
		moves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "games",
			Name:      "moves_total",
			Help:      "Total moves applied by kind",
		}, []string{"kind"}),
		// Labels: status (won, lost)
		gamesFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "games",
			Name:      "finished_total",
			Help:      "Total games finished by outcome",
		}, []string{"status"}),
	}
}

func (p *Prometheus) GameCreated(width, height int) {
	p.gamesCreated.Inc()
	p.boardCells.Observe(float64(width * height))
}

func (p *Prometheus) MoveApplied(kind string) {
	p.moves.WithLabelValues(kind).Inc()
}

func (p *Prometheus) GameFinished(status model.GameStatus) {
	p.gamesFinished.WithLabelValues(string(status)).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
