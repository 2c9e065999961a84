package materialize

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveStageAndCountRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.observeStage("schedule", 0.01)
	m.countRun("succeeded")

	families, err := reg.Gather()
	require.NoError(t, err)

	var sawHistogram, sawCounter bool
	for _, f := range families {
		switch f.GetName() {
		case "torc_materialize_stage_duration_seconds":
			sawHistogram = true
			require.NotEmpty(t, f.Metric)
			require.Equal(t, uint64(1), f.Metric[0].GetHistogram().GetSampleCount())
		case "torc_materialize_runs_total":
			sawCounter = true
			require.NotEmpty(t, f.Metric)
			require.Equal(t, float64(1), f.Metric[0].GetCounter().GetValue())
		}
	}
	require.True(t, sawHistogram)
	require.True(t, sawCounter)
}

func TestMetrics_NilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.observeStage("schedule", 0.01)
	m.countRun("succeeded")
}
