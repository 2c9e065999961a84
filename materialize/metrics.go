package materialize

import "github.com/prometheus/client_golang/prometheus"

// Metrics instruments a materialization run with per-stage duration
// histograms and a counter of pipeline outcomes, following the same
// caller-supplied-registry pattern verify.Metrics adopts from
// luxfi/consensus, so a process running both engines never collides on
// the default registry.
type Metrics struct {
	StageDurationSeconds *prometheus.HistogramVec
	RunsTotal            *prometheus.CounterVec
}

// NewMetrics constructs and registers a Metrics set against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StageDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "torc",
			Subsystem: "materialize",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each materialization pipeline stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "torc",
			Subsystem: "materialize",
			Name:      "runs_total",
			Help:      "Materialization runs, partitioned by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.StageDurationSeconds, m.RunsTotal)
	return m
}

func (m *Metrics) observeStage(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.StageDurationSeconds.WithLabelValues(stage).Observe(seconds)
}

func (m *Metrics) countRun(outcome string) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(outcome).Inc()
}
