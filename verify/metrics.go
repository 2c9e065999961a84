package verify

import "github.com/prometheus/client_golang/prometheus"

// Metrics instruments a verification run with counters and histograms for
// obligations processed, cache hit rate, and SMT call volume/latency,
// adopted from luxfi/consensus, which wires prometheus client metrics
// throughout its consensus engine in the same way — per-component counters
// registered against a caller-supplied registry rather than the global
// default one, so multiple engines in one process don't collide.
type Metrics struct {
	ObligationsTotal  *prometheus.CounterVec
	CacheHitsTotal    prometheus.Counter
	CacheLookupsTotal prometheus.Counter
	SMTCallsTotal     prometheus.Counter
	SMTLatencySeconds prometheus.Histogram
}

// NewMetrics constructs and registers a Metrics set against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ObligationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "torc",
			Subsystem: "verify",
			Name:      "obligations_total",
			Help:      "Obligations processed, partitioned by final status.",
		}, []string{"status"}),
		CacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "torc", Subsystem: "verify", Name: "cache_hits_total",
			Help: "Obligation cache hits.",
		}),
		CacheLookupsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "torc", Subsystem: "verify", Name: "cache_lookups_total",
			Help: "Obligation cache lookups attempted.",
		}),
		SMTCallsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "torc", Subsystem: "verify", Name: "smt_calls_total",
			Help: "Obligations escalated to the SMT stage.",
		}),
		SMTLatencySeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "torc", Subsystem: "verify", Name: "smt_latency_seconds",
			Help:    "SMT solve call latency.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.ObligationsTotal, m.CacheHitsTotal, m.CacheLookupsTotal, m.SMTCallsTotal, m.SMTLatencySeconds)
	return m
}
